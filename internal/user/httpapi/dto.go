package httpapi

import "github.com/diwarasiga/moviehub/internal/auth"

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token"`
	User    auth.Identity `json:"user"`
}
