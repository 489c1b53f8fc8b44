package http

import (
	"log/slog"
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, &loginReq, "Login") {
		return
	}

	sessionTrackReq := auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokenResponse, err := a.authService.Login(r.Context(), loginReq, sessionTrackReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User logged in successfully", "username", loginReq.Username)
	response.SuccessWithMessage(w, "User logged in successfully", tokenResponse)
}

// RefreshToken implements AuthHandler. The cookie wins over the body.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	if cookie, err := r.Cookie(jwt.RefreshCookieName); err == nil && cookie.Value != "" {
		refreshTokenReq.RefreshToken = cookie.Value
	} else if !decodeJSON(w, r, &refreshTokenReq, "Refresh Token") {
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), refreshTokenReq)
	if err != nil {
		slog.Error("Refresh Token service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Token refreshed successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var refreshTokenReq auth.RefreshTokenRequest

	if cookie, err := r.Cookie(jwt.RefreshCookieName); err == nil && cookie.Value != "" {
		refreshTokenReq.RefreshToken = cookie.Value
	} else if !decodeJSON(w, r, &refreshTokenReq, "Logout") {
		return
	}

	if err := a.authService.Logout(r.Context(), refreshTokenReq.RefreshToken); err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

// ForgotPassword implements AuthHandler. The reply is the same whether or
// not the address is known.
func (a *AuthHandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var forgotPasswordReq auth.ForgotPasswordRequest
	if !decodeJSON(w, r, &forgotPasswordReq, "ForgotPassword") {
		return
	}

	if err := a.authService.ForgotPassword(r.Context(), forgotPasswordReq); err != nil {
		slog.Error("ForgotPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "If the address is registered, a password reset link has been sent", nil)
}

// ResetPassword implements AuthHandler.
func (a *AuthHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var resetPasswordReq auth.ResetPasswordRequest
	if !decodeJSON(w, r, &resetPasswordReq, "ResetPassword") {
		return
	}

	if err := a.authService.ResetPassword(r.Context(), resetPasswordReq); err != nil {
		slog.Error("ResetPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Password reset successfully")
	response.SuccessWithMessage(w, "Password has been reset successfully", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	me, err := a.authService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
	}
}
