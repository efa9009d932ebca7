package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chapter/internal/domain/hero"
	"chapter/internal/domain/storage"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
)

type reorderHeroPayload struct {
	Orders []hero.DisplayOrderUpdate `json:"orders" validate:"required,min=1,max=100,dive"`
}

// getLiveHeroHandler godoc
//
//	@Summary		Current hero announcement
//	@Description	Returns the first active announcement whose window contains now, by display order. Data is null when none is live.
//	@Tags			public
//	@Produce		json
//	@Success		200	{object}	hero.Announcement
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Router			/hero [get]
func (app *application) getLiveHeroHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := app.store.Hero.GetLive(ctx, app.now())
	if err != nil && !errors.Is(err, hero.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, a)
}

// listHeroHandler godoc
//
//	@Summary		List hero announcements
//	@Tags			admin-hero
//	@Produce		json
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"announcements with pagination"
//	@Failure		500		{object}	error			"Internal Server Error"
//	@Router			/admin/dashboard/hero [get]
func (app *application) listHeroHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())

	items, total, err := app.store.Hero.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"announcements": items,
		"pagination":    pg,
	})
}

// getHeroHandler godoc
//
//	@Summary		Get hero announcement
//	@Tags			admin-hero
//	@Produce		json
//	@Param			heroID	path		int	true	"Announcement ID"
//	@Success		200		{object}	hero.Announcement
//	@Failure		400		{object}	error	"Bad Request: Invalid ID"
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/dashboard/hero/{heroID} [get]
func (app *application) getHeroHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "heroID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := app.store.Hero.GetByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, a)
}

// createHeroHandler godoc
//
//	@Summary		Create hero announcement
//	@Tags			admin-hero
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		hero.CreateRequest	true	"Announcement"
//	@Success		201		{object}	hero.Announcement
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Router			/admin/dashboard/hero [post]
func (app *application) createHeroHandler(w http.ResponseWriter, r *http.Request) {
	var payload hero.CreateRequest
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

	a, err := app.store.Hero.Create(ctx, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, a)
}

// updateHeroHandler godoc
//
//	@Summary		Update hero announcement
//	@Description	Only the fields present in the body change.
//	@Tags			admin-hero
//	@Accept			json
//	@Produce		json
//	@Param			heroID	path		int					true	"Announcement ID"
//	@Param			payload	body		hero.UpdateRequest	true	"Fields to change"
//	@Success		200		{object}	hero.Announcement
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/dashboard/hero/{heroID} [patch]
func (app *application) updateHeroHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "heroID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload hero.UpdateRequest
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

	a, err := app.store.Hero.Update(ctx, id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, a)
}

// deleteHeroHandler godoc
//
//	@Summary		Delete hero announcement
//	@Tags			admin-hero
//	@Param			heroID	path	int	true	"Announcement ID"
//	@Success		204
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/dashboard/hero/{heroID} [delete]
func (app *application) deleteHeroHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "heroID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Hero.Delete(ctx, id); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toggleHeroHandler godoc
//
//	@Summary		Toggle hero announcement
//	@Description	Flips the active flag.
//	@Tags			admin-hero
//	@Produce		json
//	@Param			heroID	path		int	true	"Announcement ID"
//	@Success		200		{object}	hero.Announcement
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/dashboard/hero/{heroID}/toggle [patch]
func (app *application) toggleHeroHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "heroID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := app.store.Hero.Toggle(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, a)
}

// reorderHeroHandler godoc
//
//	@Summary		Reorder hero announcements
//	@Description	Sets display_order for several announcements in one transaction.
//	@Tags			admin-hero
//	@Accept			json
//	@Param			payload	body	reorderHeroPayload	true	"New positions"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/dashboard/hero/order [put]
func (app *application) reorderHeroHandler(w http.ResponseWriter, r *http.Request) {
	var payload reorderHeroPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := app.store.WithTx(ctx, func(tx *storage.Container) error {
		return tx.Hero.Reorder(ctx, payload.Orders)
	})
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
