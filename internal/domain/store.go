package domain

import "time"

// Store carries denormalized rating aggregates. AverageRating and
// TotalRatings are written only by the aggregation path.
type Store struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:60;not null;index" json:"name"`
	Email         string    `gorm:"size:191;not null" json:"email"`
	Address       string    `gorm:"size:400;not null" json:"address"`
	OwnerID       string    `gorm:"size:64;not null;uniqueIndex" json:"owner_id"`
	AverageRating float64   `gorm:"type:decimal(2,1);not null;default:0" json:"average_rating"`
	TotalRatings  int64     `gorm:"not null;default:0" json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Store) TableName() string { return "stores" }

type StoreFilter struct {
	NameContains    string
	AddressContains string
}

// StoreProfile holds the editable columns; nil fields are left untouched.
type StoreProfile struct {
	Name    *string
	Email   *string
	Address *string
}

func (p StoreProfile) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Address == nil
}

// Aggregate is the derived rating summary of one store.
type Aggregate struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}
