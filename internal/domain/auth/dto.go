package auth

import "github.com/rakmedia/hr-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	} else if validator.ExceedsLength(r.Username, 150) {
		errs.Add("username", "username must not exceed 150 characters")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if validator.ExceedsLength(r.Password, 255) {
		errs.Add("password", "password must not exceed 255 characters")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}

	return errs.Err()
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	return errs.Err()
}

type ResetPasswordRequest struct {
	UID             string `json:"uid"`
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UID) {
		errs.Add("uid", "uid is required")
	}
	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}

	if validator.IsEmpty(r.NewPassword) {
		errs.Add("new_password", "new_password is required")
	} else if len(r.NewPassword) < 8 {
		errs.Add("new_password", "new_password must be at least 8 characters long")
	} else if validator.ExceedsLength(r.NewPassword, 255) {
		errs.Add("new_password", "new_password must not exceed 255 characters")
	}

	if r.ConfirmPassword != r.NewPassword {
		errs.Add("confirm_password", "new_password and confirm_password do not match")
	}

	return errs.Err()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

// MeResponse describes the logged-in account.
type MeResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	IsStaff    bool   `json:"is_staff"`
	EmployeeID *int64 `json:"employee_id"`
}
