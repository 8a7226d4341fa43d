package domain

import (
	"errors"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessGuestLogin     = "guest session created"
	MessageSuccessConvertGuest   = "guest account converted successfully"
	MessageSuccessGetMe          = "user retrieved successfully"
	MessageSuccessUpdateUser     = "user updated successfully"
	MessageSuccessForgotPassword = "password reset email sent"
	MessageSuccessResetPassword  = "password reset successfully"
	MessageSuccessSaveNote       = "note saved successfully"
	MessageSuccessGetNote        = "note retrieved successfully"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "login failed"
	MessageFailedGuestLogin     = "failed to create guest session"
	MessageFailedConvertGuest   = "failed to convert guest account"
	MessageFailedGetMe          = "failed to retrieve user"
	MessageFailedUpdateUser     = "failed to update user"
	MessageFailedForgotPassword = "failed to send password reset email"
	MessageFailedResetPassword  = "failed to reset password"
	MessageFailedSaveNote       = "failed to save note"
	MessageFailedGetNote        = "failed to retrieve note"

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrCredentialsInvalid     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrAccountNotGuest        = errors.New("account is not a guest account")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	AuthResponse struct {
		Token    string `json:"token"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		IsGuest  bool   `json:"is_guest"`
	}

	ConvertGuestRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UpdateUserRequest struct {
		Username string `json:"username" validate:"omitempty"`
		Email    string `json:"email" validate:"omitempty,email"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UserResponse struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		IsGuest  bool   `json:"is_guest"`
	}

	SaveNoteRequest struct {
		Note string `json:"note" validate:"required"`
	}

	NoteResponse struct {
		Note string `json:"note"`
	}
)
