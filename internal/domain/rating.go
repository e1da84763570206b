package domain

import "time"

// Rating is unique per (UserID, StoreID); re-rating overwrites Value.
type Rating struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:uq_ratings_user_store,priority:1" json:"user_id"`
	StoreID   string    `gorm:"size:36;not null;uniqueIndex:uq_ratings_user_store,priority:2;index" json:"store_id"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Rating) TableName() string { return "ratings" }

// RatingView is a rating joined with its author, as shown to store owners.
type RatingView struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
