package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-rating/internal/domain"
)

func TestAllow(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: domain.RoleAdmin}
	user := Actor{ID: "user-1", Role: domain.RoleNormal}
	owner := Actor{ID: "owner-1", Role: domain.RoleOwner}
	unassigned := Actor{ID: "new-1"}

	tests := []struct {
		name   string
		actor  Actor
		op     Operation
		target Target
		want   bool
	}{
		{"admin assigns role", admin, AssignRole, Target{UserID: "x"}, true},
		{"user cannot assign role", user, AssignRole, Target{UserID: "user-1"}, false},
		{"owner cannot create store", owner, CreateStore, Target{}, false},
		{"admin creates store", admin, CreateStore, Target{}, true},
		{"admin deletes store", admin, DeleteStore, Target{OwnerID: "owner-1"}, true},
		{"owner updates own store", owner, UpdateStore, Target{OwnerID: "owner-1"}, true},
		{"owner cannot update other store", owner, UpdateStore, Target{OwnerID: "owner-2"}, false},
		{"admin updates any store", admin, UpdateStore, Target{OwnerID: "owner-2"}, true},
		{"user cannot update store", user, UpdateStore, Target{OwnerID: "owner-1"}, false},
		{"user submits own rating", user, SubmitRating, Target{UserID: "user-1"}, true},
		{"user cannot submit for others", user, SubmitRating, Target{UserID: "user-2"}, false},
		{"admin cannot submit rating", admin, SubmitRating, Target{UserID: "admin-1"}, false},
		{"owner cannot submit rating", owner, SubmitRating, Target{UserID: "owner-1"}, false},
		{"user reads own rating", user, ReadRating, Target{UserID: "user-1"}, true},
		{"user cannot read other rating", user, ReadRating, Target{UserID: "user-2"}, false},
		{"everyone lists stores", user, ListStores, Target{}, true},
		{"owner lists stores", owner, ListStores, Target{}, true},
		{"owner lists own store ratings", owner, ListStoreRatings, Target{OwnerID: "owner-1"}, true},
		{"owner cannot list foreign ratings", owner, ListStoreRatings, Target{OwnerID: "owner-2"}, false},
		{"user cannot list store ratings", user, ListStoreRatings, Target{OwnerID: "owner-1"}, false},
		{"admin lists store ratings", admin, ListStoreRatings, Target{OwnerID: "owner-1"}, true},
		{"owner reads own store", owner, ReadOwnStore, Target{OwnerID: "owner-1"}, true},
		{"owner cannot read foreign store", owner, ReadOwnStore, Target{OwnerID: "owner-2"}, false},
		{"user reads own role", user, ReadRole, Target{UserID: "user-1"}, true},
		{"user cannot read other role", user, ReadRole, Target{UserID: "admin-1"}, false},
		{"empty target owner never matches", owner, UpdateStore, Target{}, false},
		{"admin dashboard", admin, ReadDashboard, Target{}, true},
		{"owner dashboard denied", owner, ReadDashboard, Target{}, false},
		{"unassigned actor denied listing", unassigned, ListStores, Target{}, false},
		{"anonymous denied", Actor{}, ListStores, Target{}, false},
		{"unknown role denied", Actor{ID: "x", Role: "root"}, ListStores, Target{}, false},
		{"unknown operation denied", admin, Operation("store.explode"), Target{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.actor, tt.op, tt.target))
		})
	}
}

func TestAuthorize_ReturnsForbidden(t *testing.T) {
	err := Authorize(Actor{ID: "u", Role: domain.RoleNormal}, CreateStore, Target{})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	assert.Contains(t, err.Error(), "create stores")

	assert.NoError(t, Authorize(Actor{ID: "a", Role: domain.RoleAdmin}, CreateStore, Target{}))
}
