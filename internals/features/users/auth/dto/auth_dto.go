package dto

import "strings"

// TokenRequest is the body of POST /api/auth/token.
type TokenRequest struct {
	UserName string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (r *TokenRequest) Normalize() { r.UserName = strings.TrimSpace(r.UserName) }

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
}

// LoginForm is the HTML login form.
type LoginForm struct {
	UserName string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// RegisterForm is the HTML sign-up form.
type RegisterForm struct {
	UserName  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}
