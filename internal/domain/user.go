package domain

import "time"

// User is the profile row of an identity issued by the identity provider.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	FullName  string    `gorm:"size:60;not null;index" json:"full_name"`
	Email     string    `gorm:"size:191;not null;index" json:"email"`
	Address   string    `gorm:"size:400" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserWithRole is a listing row; Role is empty when none was assigned.
type UserWithRole struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserFilter struct {
	NameContains    string
	EmailContains   string
	AddressContains string
	Role            Role
}
