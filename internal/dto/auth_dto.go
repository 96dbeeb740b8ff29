package dto

import (
	"time"

	"github.com/simplylearn/api/internal/models"
)

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,max=320"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,max=32"`
}

// VerifyEmailRequest carries an OTP verification attempt.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a fresh verification code.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest patches account fields. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,max=320"`
	Password *string `json:"password" validate:"omitempty,min=8,max=128"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=512"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Bio        string    `json:"bio"`
	AvatarURL  string    `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResponse pairs an account view with a freshly issued session token.
// The token is also delivered as an httpOnly cookie; the body copy exists
// for non-browser clients.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:         model.ID,
		Name:       model.Name,
		Email:      model.Email,
		Role:       string(model.Role),
		IsVerified: model.IsVerified,
		Bio:        model.Bio,
		AvatarURL:  model.AvatarURL,
		CreatedAt:  model.CreatedAt,
	}
}
