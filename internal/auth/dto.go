package auth

import (
	"github.com/angelmondragon/labstock-backend/internal/otp"
	"github.com/angelmondragon/labstock-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint. One of
// Username or Mail identifies the account.
type LoginRequest struct {
	Username string `json:"username"`
	Mail     string `json:"mail"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the refresh token paired with the caller's access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is returned after a session rotation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SendOTPRequest asks for a one-time code. Purpose defaults to signup.
type SendOTPRequest struct {
	Mail    string      `json:"mail" validate:"required,email"`
	Purpose otp.Purpose `json:"purpose"`
}

// VerifyOTPRequest submits a one-time code.
type VerifyOTPRequest struct {
	Mail    string      `json:"mail" validate:"required,email"`
	OTP     string      `json:"otp" validate:"required"`
	Purpose otp.Purpose `json:"purpose"`
}

// SignupRequest registers a member whose mail has been verified.
type SignupRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Fullname   string `json:"fullname" validate:"required"`
	Mail       string `json:"mail" validate:"required,email"`
	Rollno     string `json:"rollno" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// VerifyEmailRequest checks that a mail belongs to an account.
type VerifyEmailRequest struct {
	Mail string `json:"mail" validate:"required,email"`
}

// ResetPasswordRequest sets a new password for a verified mail.
type ResetPasswordRequest struct {
	Mail        string `json:"mail" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required"`
}
