package dto

import "time"

// LoginRequest payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LogoutRequest payload for POST /logout.
type LogoutRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse carries a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateUserRequest payload for new users.
type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required"`
	Phone    string  `json:"phone" validate:"required,max=20"`
	Role     string  `json:"role" validate:"required,oneof=STUDENT STAFF ADMIN"`
	Status   *string `json:"status" validate:"omitnil,oneof=ACTIVE INACTIVE"`
}

// UpdateUserRequest is a partial update; absent fields are kept.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Email    *string `json:"email" validate:"omitnil,email,max=254"`
	Password *string `json:"password" validate:"omitnil"`
	Phone    *string `json:"phone" validate:"omitnil,min=1,max=20"`
	Role     *string `json:"role" validate:"omitnil,oneof=STUDENT STAFF ADMIN"`
	Status   *string `json:"status" validate:"omitnil,oneof=ACTIVE INACTIVE"`
}

// UserResponse is the public profile of a user. The password hash is never
// serialized.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
