package dto

import "github.com/baechuer/account-service/internal/domain"

// TokenResponse follows the OAuth2 token response shape.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// AdminUserResponse adds account state visible only to admins.
// The password hash and the verification token itself are never exposed.
type AdminUserResponse struct {
	UserResponse
	PendingVerification bool `json:"pending_verification"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

func NewAdminUserResponses(users []domain.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUserResponse{
			UserResponse:        NewUserResponse(u),
			PendingVerification: !u.IsActive && u.VerificationToken != "",
		})
	}
	return out
}
