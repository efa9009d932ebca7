package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"chapter/internal/access"
	"chapter/internal/auth"
	"chapter/internal/domain/users"
)

const sessionCookie = "access_token"

// ErrorBadRequestResponse represents the standard error format for bad request API responses.
//
//	@name			ErrorBadRequestResponse
//	@description	Standard error response format returned by all bad request API endpoints
type ErrorBadRequestResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"It show error from err.Error()"`
	Status  int    `json:"status" example:"400"`
}

// ErrorInternalServerResponse represents the standard error format for internal server API responses.
//
//	@name			ErrorInternalServerResponse
//	@description	Standard error response format returned by all internal server error API endpoints
type ErrorInternalServerResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"the server encountered a problem"`
	Status  int    `json:"status" example:"500"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=3,max=72"`
}

type LoginResponse struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

var errInvalidCredentials = errors.New("invalid email or password")

// loginHandler godoc
//
//	@Summary		Log in
//	@Description	Checks email and password and sets the HttpOnly access_token cookie
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"User credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		401		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/authentication/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.store.Users.GetByEmail(r.Context(), strings.TrimSpace(payload.Email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			app.unauthorizedErrorResponse(w, r, errInvalidCredentials)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if err := user.Password.Compare(payload.Password); err != nil {
		app.unauthorizedErrorResponse(w, r, errInvalidCredentials)
		return
	}
	if !user.IsActive {
		app.forbiddenResponse(w, r)
		return
	}

	token, exp, err := app.authenticator.GenerateToken(user.ID, user.Role)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.setAuthCookie(w, token)

	app.logger.Infow("user logged in", "user_id", user.ID, "role", user.Role.String())

	_ = app.jsonResponse(w, http.StatusOK, LoginResponse{
		UserID:    strconv.FormatInt(user.ID, 10),
		Role:      user.Role.String(),
		ExpiresAt: exp.Unix(),
	})
}

// logoutHandler godoc
//
//	@Summary		Log out
//	@Description	Clears the session cookie
//	@Tags			authentication
//	@Success		204
//	@Router			/authentication/logout [post]
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.clearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// resolveSession turns the session cookie into a session. The role is read
// from the database so role changes and deactivation apply immediately.
// A missing, invalid or stale cookie yields a nil session and no error.
func (app *application) resolveSession(ctx context.Context, r *http.Request) (*access.Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := app.authenticator.ValidateToken(cookie.Value)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, nil
	}

	user, err := app.store.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}

	sess := &access.Session{UserID: user.ID, Role: user.Role}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}
