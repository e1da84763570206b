package domain

import "context"

// Lookups return (nil, nil) when the row does not exist.

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// CreateIfAbsent reports false when a user with u.ID already exists.
	CreateIfAbsent(ctx context.Context, u *User) (bool, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]UserWithRole, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type RoleRepository interface {
	Find(ctx context.Context, userID string) (*RoleAssignment, error)
	// Insert reports false when the user already holds a role.
	Insert(ctx context.Context, a *RoleAssignment) (bool, error)
	Count(ctx context.Context) (int64, error)
	DeleteForUser(ctx context.Context, userID string) error
	// ClaimBootstrap inserts the one-time bootstrap sentinel and reports
	// whether this call created it.
	ClaimBootstrap(ctx context.Context) (bool, error)
}

type StoreRepository interface {
	Create(ctx context.Context, s *Store) error
	FindByID(ctx context.Context, id string) (*Store, error)
	// LockByID loads the store and holds its row lock until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*Store, error)
	FindByOwner(ctx context.Context, ownerID string) (*Store, error)
	List(ctx context.Context, f StoreFilter) ([]Store, error)
	UpdateProfile(ctx context.Context, id string, p StoreProfile) error
	SetAggregate(ctx context.Context, id string, a Aggregate) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type RatingRepository interface {
	Upsert(ctx context.Context, r *Rating) error
	Find(ctx context.Context, userID, storeID string) (*Rating, error)
	ValuesForUser(ctx context.Context, userID string, storeIDs []string) (map[string]int, error)
	ListForStore(ctx context.Context, storeID string) ([]RatingView, error)
	// Stats returns the count and arithmetic mean of a store's ratings.
	Stats(ctx context.Context, storeID string) (int64, float64, error)
	StoreIDsForUser(ctx context.Context, userID string) ([]string, error)
	DeleteForUser(ctx context.Context, userID string) error
	DeleteForStore(ctx context.Context, storeID string) error
	Count(ctx context.Context) (int64, error)
}

// Repos groups repositories bound to one connection or transaction.
type Repos interface {
	Users() UserRepository
	Roles() RoleRepository
	Stores() StoreRepository
	Ratings() RatingRepository
}

type UnitOfWork interface {
	Repos() Repos
	// Transaction runs fn atomically; a returned error rolls everything back.
	Transaction(ctx context.Context, fn func(r Repos) error) error
}
