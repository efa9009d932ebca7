package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chapter/internal/access"
	"chapter/internal/domain/invitations"
	"chapter/internal/domain/storage"
	"chapter/internal/domain/users"
	"chapter/internal/mailer"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
)

type createInvitationPayload struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Role  string `json:"role" validate:"required,oneof=admin content user"`
}

type acceptInvitationPayload struct {
	Token     string `json:"token" validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// listInvitationsHandler godoc
//
//	@Summary		List invitations
//	@Description	Newest first. ?pending=true hides accepted and expired invitations.
//	@Tags			admin-invitations
//	@Produce		json
//	@Param			pending	query		bool			false	"Only pending invitations"
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"invitations with pagination"
//	@Router			/admin/invitations [get]
func (app *application) listInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())
	pendingOnly := params.ParseBool(r.URL.Query(), "pending", false)

	items, total, err := app.store.Invitations.List(ctx, pendingOnly, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	now := app.now()
	type row struct {
		invitations.Invitation
		Status invitations.Status `json:"status"`
	}
	out := make([]row, 0, len(items))
	for _, inv := range items {
		out = append(out, row{Invitation: inv, Status: inv.StatusAt(now)})
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"invitations": out,
		"pagination":  pg,
	})
}

// createInvitationHandler godoc
//
//	@Summary		Invite a user
//	@Description	Emails a one-time accept link. Fails when the address already has an account or a pending invitation.
//	@Tags			admin-invitations
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		createInvitationPayload	true	"Invitee"
//	@Success		201		{object}	invitations.Invitation
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Already a user or already invited"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/admin/invitations [post]
func (app *application) createInvitationHandler(w http.ResponseWriter, r *http.Request) {
	var payload createInvitationPayload
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
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	ctx := r.Context()

	_, err = app.store.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		app.conflictResponse(w, r, users.ErrDuplicateEmail)
		return
	case !errors.Is(err, users.ErrNotFound):
		app.internalServerError(w, r, err)
		return
	}

	inviter := "An administrator"
	inv := &invitations.Invitation{
		Email:     email,
		Role:      role,
		ExpiresAt: app.now().Add(app.config.mail.exp),
	}
	if sess := access.SessionFromContext(ctx); sess != nil {
		inv.InvitedBy = &sess.UserID
		if u, err := app.store.Users.GetByID(ctx, sess.UserID); err == nil {
			inviter = u.FullName()
		}
	}

	plainToken, hashToken := invitations.NewToken()
	if err := app.store.Invitations.Create(ctx, inv, hashToken); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	acceptURL := fmt.Sprintf("%s/invite?token=%s", app.config.frontendURL, url.QueryEscape(plainToken))

	vars := struct {
		ChapterName string
		InvitedBy   string
		Role        string
		AcceptURL   string
		ExpiresAt   string
	}{
		ChapterName: app.config.chapterName,
		InvitedBy:   inviter,
		Role:        role.String(),
		AcceptURL:   acceptURL,
		ExpiresAt:   inv.ExpiresAt.Format("2 Jan 2006 15:04 MST"),
	}

	status, err := app.mailer.Send(mailer.InvitationTemplate, email, email, vars)
	if err != nil {
		app.logger.Errorw("error sending invitation email", "email", email, "error", err.Error())

		// rollback invitation if email fails
		if err := app.store.Invitations.Delete(ctx, inv.ID); err != nil {
			app.logger.Errorw("error deleting invitation", "invitation_id", inv.ID, "error", err.Error())
		}

		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("invitation email sent", "invitation_id", inv.ID, "attempts", status)

	app.jsonResponse(w, http.StatusCreated, inv)
}

// revokeInvitationHandler godoc
//
//	@Summary		Revoke invitation
//	@Description	Deletes an invitation that has not been accepted.
//	@Tags			admin-invitations
//	@Param			invitationID	path	int	true	"Invitation ID"
//	@Success		204
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/invitations/{invitationID} [delete]
func (app *application) revokeInvitationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "invitationID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Invitations.Delete(ctx, id); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// acceptInvitationHandler godoc
//
//	@Summary		Accept invitation
//	@Description	Creates the account with the invited role and consumes the token.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		acceptInvitationPayload	true	"Token and profile"
//	@Success		201		{object}	users.User
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Unknown token"
//	@Failure		409		{object}	error	"Already accepted"
//	@Failure		410		{object}	error	"Expired"
//	@Router			/invitations/accept [post]
func (app *application) acceptInvitationHandler(w http.ResponseWriter, r *http.Request) {
	var payload acceptInvitationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &users.User{
		FirstName: strings.TrimSpace(payload.FirstName),
		LastName:  strings.TrimSpace(payload.LastName),
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := app.store.WithTx(ctx, func(tx *storage.Container) error {
		inv, err := tx.Invitations.GetPendingByTokenHash(ctx, invitations.HashToken(payload.Token))
		if err != nil {
			return err
		}
		user.Email = inv.Email
		user.Role = inv.Role
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Invitations.MarkAccepted(ctx, inv.ID)
	})
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("invitation accepted", "user_id", user.ID, "role", user.Role.String())
	app.jsonResponse(w, http.StatusCreated, user)
}
