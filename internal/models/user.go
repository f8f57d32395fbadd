package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ValidRole reports whether s is one of the roles the platform knows.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the credential store. Email is stored lowercase
// and unique; the role is fixed at registration (there is no
// promotion/demotion flow).
type User struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;type:text;not null" json:"name"`
	Email        string    `gorm:"column:email;type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role         UserRole  `gorm:"column:role;type:text;not null" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
