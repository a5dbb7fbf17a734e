package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/pkg/httpx"
	"github.com/aussiebroadwan/pomodoro/pkg/pomodorosdk"
)

// SessionCookie is set by /login and cleared by /logout.
const SessionCookie = "session"

type AccountHandler struct {
	AccountService *service.AccountService
	ResetService   *service.ResetService
	SessionTTL     time.Duration
	SecureCookies  bool
}

// HandleRegister creates an account.
//
//	@Summary		Register
//	@Description	Creates an account. Passwords need at least 6 characters with a letter and a digit.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pomodorosdk.RegisterRequest		true	"Credentials"
//	@Success		201		{object}	pomodorosdk.RegisterResponse
//	@Failure		400		{object}	pomodorosdk.ErrorResponse	"Missing or invalid fields"
//	@Failure		409		{object}	pomodorosdk.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	pomodorosdk.ErrorResponse
//	@Router			/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req pomodorosdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	u, err := h.AccountService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, pomodorosdk.RegisterResponse{ID: u.ID, Email: u.Email})
}

// HandleLogin exchanges credentials for a session token.
//
//	@Summary		Login
//	@Description	Returns a bearer token and also sets it as an HttpOnly session cookie.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pomodorosdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	pomodorosdk.LoginResponse
//	@Failure		400		{object}	pomodorosdk.ErrorResponse	"Missing fields"
//	@Failure		401		{object}	pomodorosdk.ErrorResponse	"Invalid email or password"
//	@Router			/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req pomodorosdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	token, err := h.AccountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, pomodorosdk.LoginResponse{Token: token})
}

// HandleForgotPassword emails a reset link.
//
//	@Summary		Forgot password
//	@Description	Emails a single-use reset link valid for one hour.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pomodorosdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	pomodorosdk.MessageResponse
//	@Failure		400		{object}	pomodorosdk.ErrorResponse	"Missing email"
//	@Failure		404		{object}	pomodorosdk.ErrorResponse	"User not found"
//	@Failure		500		{object}	pomodorosdk.ErrorResponse	"Mail delivery failed"
//	@Router			/forgot-password [post].
func (h *AccountHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req pomodorosdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.AccountService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pomodorosdk.MessageResponse{Message: "Password reset email sent"})
}

// HandleResetPassword redeems a reset token.
//
//	@Summary		Reset password
//	@Description	Sets a new password and consumes the token. Each token works once.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pomodorosdk.ResetPasswordRequest	true	"Token and new password"
//	@Success		200		{object}	pomodorosdk.MessageResponse
//	@Failure		400		{object}	pomodorosdk.ErrorResponse	"Missing fields, or invalid or expired token"
//	@Router			/reset-password [post].
func (h *AccountHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req pomodorosdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.ResetService.Redeem(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pomodorosdk.MessageResponse{Message: "Password has been reset"})
}

// HandleDeleteMe deletes the caller's account with all of its tasks and
// reset tokens.
//
//	@Summary		Delete account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	pomodorosdk.MessageResponse
//	@Failure		401	{object}	pomodorosdk.ErrorResponse	"No token"
//	@Failure		403	{object}	pomodorosdk.ErrorResponse	"Invalid or expired token"
//	@Failure		404	{object}	pomodorosdk.ErrorResponse	"User not found"
//	@Failure		500	{object}	pomodorosdk.ErrorResponse
//	@Router			/users/me [delete].
func (h *AccountHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}

	if err := h.AccountService.DeleteAccount(r.Context(), id.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pomodorosdk.MessageResponse{Message: "Account deleted successfully"})
}

// HandleLogout clears the session cookie. Bearer tokens stay valid until
// they expire; clients drop them on their side.
//
//	@Summary	Logout
//	@Tags		Accounts
//	@Produce	plain
//	@Success	200	{string}	string	"Logged out successfully"
//	@Router		/logout [post].
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteText(w, http.StatusOK, "Logged out successfully")
}
