package domain

import (
	"errors"
	"time"
)

var (
	// ErrUsernameAlreadyExists indicates that the user with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
	// ErrCustomerRequired indicates a customer login without a customer id.
	ErrCustomerRequired = errors.New("customer id is required for customer users")
)

// User holds login data.
type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashed_password"`
	FullName       string    `json:"full_name"`
	Role           Role      `json:"role"`
	CustomerID     string    `json:"customer_id,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Username       string
	HashedPassword string
	FullName       string
	Role           Role
	CustomerID     string
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Role       Role      `json:"role"`
	CustomerID string    `json:"customer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterUserParams is the input data to enroll a login.
type RegisterUserParams struct {
	Username   string
	Password   string
	FullName   string
	Role       Role
	CustomerID string
}
