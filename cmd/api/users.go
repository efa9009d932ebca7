package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chapter/internal/access"
	"chapter/internal/domain/users"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
)

var errSelfChange = errors.New("you cannot change your own account here")

type updateUserRolePayload struct {
	Role string `json:"role" validate:"required,oneof=admin content user"`
}

type setUserActivePayload struct {
	Active *bool `json:"active" validate:"required"`
}

// adminListUsersHandler godoc
//
//	@Summary		List users
//	@Description	Returns paginated users. Optional role filter and name/email search.
//	@Tags			admin-users
//	@Produce		json
//	@Param			role	query		string			false	"Filter by role"	Enums(admin, content, user)
//	@Param			q		query		string			false	"Search name or email"
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"users list with pagination and filters"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/admin/users [get]
func (app *application) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())
	filter := users.ListFilter{Search: strings.TrimSpace(r.URL.Query().Get("q"))}

	roleStr := strings.TrimSpace(r.URL.Query().Get("role"))
	if roleStr != "" {
		role, err := access.ParseRole(roleStr)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid role filter: %s", roleStr))
			return
		}
		filter.Role = &role
	}

	items, total, err := app.store.Users.List(ctx, filter, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"users":      items,
		"pagination": pg,
		"filters": map[string]any{
			"role": roleStr,
			"q":    filter.Search,
		},
	})
}

// adminGetUserHandler godoc
//
//	@Summary		Get user
//	@Tags			admin-users
//	@Produce		json
//	@Param			userID	path		int64	true	"User ID"
//	@Success		200		{object}	users.User
//	@Failure		400		{object}	error	"Bad Request: invalid userID"
//	@Failure		404		{object}	error	"Not Found: user not found"
//	@Router			/admin/users/{userID} [get]
func (app *application) adminGetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := params.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := app.store.Users.GetByID(ctx, userID)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, u)
}

// adminUpdateUserRoleHandler godoc
//
//	@Summary		Change a user's role
//	@Description	The last active admin cannot be demoted and admins cannot change their own role.
//	@Tags			admin-users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int64					true	"User ID"
//	@Param			payload	body		updateUserRolePayload	true	"New role"
//	@Success		200		{object}	users.User
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Failure		409		{object}	error	"Last admin"
//	@Router			/admin/users/{userID}/role [patch]
func (app *application) adminUpdateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.otherUserID(w, r)
	if !ok {
		return
	}

	var payload updateUserRolePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	role, err := access.ParseRole(payload.Role)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := app.store.Users.UpdateRole(ctx, userID, role)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("user role changed", "user_id", u.ID, "role", u.Role.String())
	app.jsonResponse(w, http.StatusOK, u)
}

// adminSetUserActiveHandler godoc
//
//	@Summary		Activate or deactivate a user
//	@Description	Deactivated users lose their session on the next request.
//	@Tags			admin-users
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int64					true	"User ID"
//	@Param			payload	body		setUserActivePayload	true	"Active flag"
//	@Success		200		{object}	users.User
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Failure		409		{object}	error	"Last admin"
//	@Router			/admin/users/{userID}/active [patch]
func (app *application) adminSetUserActiveHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.otherUserID(w, r)
	if !ok {
		return
	}

	var payload setUserActivePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := app.store.Users.SetActive(ctx, userID, *payload.Active)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, u)
}

// adminDeleteUserHandler godoc
//
//	@Summary		Delete user
//	@Tags			admin-users
//	@Param			userID	path	int64	true	"User ID"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	error	"Not Found"
//	@Failure		409	{object}	error	"Last admin"
//	@Router			/admin/users/{userID} [delete]
func (app *application) adminDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.otherUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Users.Delete(ctx, userID); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// otherUserID parses {userID} and refuses the caller's own id.
func (app *application) otherUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := params.ParseID(chi.URLParam(r, "userID"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return 0, false
	}
	if sess := access.SessionFromContext(r.Context()); sess != nil && sess.UserID == userID {
		app.badRequestResponse(w, r, errSelfChange)
		return 0, false
	}
	return userID, true
}
