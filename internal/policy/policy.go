// Package policy decides whether an actor may perform an operation.
// It is deny-by-default and holds no state; every service operation
// consults it before touching restricted data.
package policy

import (
	"store-rating/internal/domain"
)

// Actor is the authenticated caller of one operation. Role is empty until
// the caller's role has been bootstrapped.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

type Operation string

const (
	AssignRole       Operation = "role.assign"
	ReadRole         Operation = "role.read"
	CreateUser       Operation = "user.create"
	ReadUser         Operation = "user.read"
	ListUsers        Operation = "user.list"
	DeleteUser       Operation = "user.delete"
	CreateStore      Operation = "store.create"
	UpdateStore      Operation = "store.update"
	DeleteStore      Operation = "store.delete"
	ReadOwnStore     Operation = "store.read_own"
	ListStores       Operation = "store.list"
	SubmitRating     Operation = "rating.submit"
	ReadRating       Operation = "rating.read"
	ListStoreRatings Operation = "rating.list_store"
	ReadDashboard    Operation = "dashboard.read"
)

// Target names the resource owner an operation touches. UserID is the
// subject user (role, profile, rating author); OwnerID is the store owner.
type Target struct {
	UserID  string
	OwnerID string
}

func Allow(a Actor, op Operation, t Target) bool {
	if a.ID == "" || !a.Role.Valid() {
		return false
	}
	switch op {
	case ListStores:
		return true
	case SubmitRating:
		return a.Role == domain.RoleNormal && t.UserID == a.ID
	case AssignRole, CreateUser, ListUsers, DeleteUser, CreateStore, DeleteStore, ReadDashboard:
		return a.IsAdmin()
	case UpdateStore, ListStoreRatings, ReadOwnStore:
		return a.IsAdmin() || (t.OwnerID != "" && t.OwnerID == a.ID)
	case ReadRole, ReadUser, ReadRating:
		return a.IsAdmin() || (t.UserID != "" && t.UserID == a.ID)
	}
	return false
}

// Authorize is Allow returning a Forbidden error on denial.
func Authorize(a Actor, op Operation, t Target) error {
	if Allow(a, op, t) {
		return nil
	}
	return domain.NewForbidden("not allowed to " + describe(op))
}

func describe(op Operation) string {
	switch op {
	case AssignRole:
		return "assign roles"
	case ReadRole:
		return "read this role"
	case CreateUser:
		return "create users"
	case ReadUser:
		return "read this profile"
	case ListUsers:
		return "list users"
	case DeleteUser:
		return "remove users"
	case CreateStore:
		return "create stores"
	case UpdateStore:
		return "update this store"
	case DeleteStore:
		return "delete stores"
	case ReadOwnStore:
		return "read this store"
	case ListStores:
		return "list stores"
	case SubmitRating:
		return "submit this rating"
	case ReadRating:
		return "read this rating"
	case ListStoreRatings:
		return "read ratings of this store"
	case ReadDashboard:
		return "read the dashboard"
	}
	return string(op)
}
