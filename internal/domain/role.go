package domain

import "time"

// Role is the single role a user holds.
type Role string

const (
	RoleAdmin  Role = "system_administrator"
	RoleNormal Role = "normal_user"
	RoleOwner  Role = "store_owner"
)

// RoleOneOf lists every role in validator "oneof" form.
const RoleOneOf = "system_administrator normal_user store_owner"

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormal, RoleOwner:
		return true
	}
	return false
}

type RoleAssignment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex" json:"user_id"`
	Role      Role      `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RoleAssignment) TableName() string { return "roles" }
