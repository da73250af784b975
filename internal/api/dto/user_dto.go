package dto

import "github.com/spec-kit/auth-gateway/internal/domain"

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the response for register and login: the issued token
// plus a safe projection of the user. The password hash never appears here.
type AuthResponse struct {
	Token       string      `json:"token"`
	ID          string      `json:"_id"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        domain.Role `json:"role"`
}

// UserResponse is the safe projection of a user record.
type UserResponse struct {
	ID          string      `json:"_id"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        domain.Role `json:"role"`
}

// NewAuthResponse builds the auth payload from a user and token.
func NewAuthResponse(user *domain.User, token string) AuthResponse {
	return AuthResponse{
		Token:       token,
		ID:          user.ID,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}
}

// NewUserResponse builds the safe projection of a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}
}
