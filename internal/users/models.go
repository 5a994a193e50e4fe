package users

import "time"

// DateLayout is the wire format of date_of_birth
const DateLayout = "2006-01-02"

// User is a registered account with its profile fields
type User struct {
	ID           int64
	PublicID     string
	Name         string
	Email        string
	PasswordHash string
	DateOfBirth  *time.Time
	DisplayName  string
	ContactOne   string
	ContactTwo   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserRequest represents the request body for POST /users
type CreateUserRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,max=255"`
	Password    string `json:"password" binding:"required"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	ContactOne  string `json:"contact_one,omitempty"`
	ContactTwo  string `json:"contact_two,omitempty"`
}

// UpdateUserRequest represents the request body for PUT /users/:public_id.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" binding:"omitempty,min=1,max=255"`
	DisplayName *string `json:"display_name,omitempty"`
	ContactOne  *string `json:"contact_one,omitempty"`
	ContactTwo  *string `json:"contact_two,omitempty"`
}

// UserResponse is the public view of a User; credentials are never included
type UserResponse struct {
	PublicID    string    `json:"public_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	DisplayName string    `json:"display_name"`
	ContactOne  string    `json:"contact_one"`
	ContactTwo  string    `json:"contact_two"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts u to its public view
func ToResponse(u User) UserResponse {
	resp := UserResponse{
		PublicID:    u.PublicID,
		Name:        u.Name,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		ContactOne:  u.ContactOne,
		ContactTwo:  u.ContactTwo,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format(DateLayout)
	}
	return resp
}
