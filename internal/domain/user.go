package domain

import "time"

// UserRole enumerates campus roles.
type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleStaff   UserRole = "STAFF"
	UserRoleAdmin   UserRole = "ADMIN"
)

// UserStatus represents the single-active-user state of an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleStaff, UserRoleAdmin:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User is an account that can log in and request bookings.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
}
