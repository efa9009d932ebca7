package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"chapter/internal/domain/orgunits"
	"chapter/internal/domain/posts"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
)

// listPublicOrgUnitsHandler godoc
//
//	@Summary		Organisation units
//	@Description	Committees, chapters and teams ordered by display order.
//	@Tags			public
//	@Produce		json
//	@Success		200	{object}	map[string]any	"units"
//	@Router			/organization-units [get]
func (app *application) listPublicOrgUnitsHandler(w http.ResponseWriter, r *http.Request) {
	app.listOrgUnitsHandler(w, r)
}

// listOrgUnitsHandler godoc
//
//	@Summary		List organisation units
//	@Tags			admin-org-units
//	@Produce		json
//	@Success		200	{object}	map[string]any	"units"
//	@Router			/admin/organization-units [get]
func (app *application) listOrgUnitsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	units, err := app.store.OrgUnits.List(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"units": units,
	})
}

// getOrgUnitHandler godoc
//
//	@Summary		Get organisation unit
//	@Tags			admin-org-units
//	@Produce		json
//	@Param			unitID	path		int	true	"Unit ID"
//	@Success		200		{object}	orgunits.OrgUnit
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/organization-units/{unitID} [get]
func (app *application) getOrgUnitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "unitID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := app.store.OrgUnits.GetByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, u)
}

// createOrgUnitHandler godoc
//
//	@Summary		Create organisation unit
//	@Tags			admin-org-units
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		orgunits.CreateOrgUnitRequest	true	"Unit"
//	@Success		201		{object}	orgunits.OrgUnit
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Slug already used"
//	@Router			/admin/organization-units [post]
func (app *application) createOrgUnitHandler(w http.ResponseWriter, r *http.Request) {
	var payload orgunits.CreateOrgUnitRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	u := &orgunits.OrgUnit{
		Name:         strings.TrimSpace(payload.Name),
		Slug:         posts.Slugify(payload.Slug),
		Kind:         payload.Kind,
		Description:  payload.Description,
		ParentID:     payload.ParentID,
		LeadName:     payload.LeadName,
		ContactEmail: payload.ContactEmail,
		DisplayOrder: payload.DisplayOrder,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.OrgUnits.Create(ctx, u); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, u)
}

// updateOrgUnitHandler godoc
//
//	@Summary		Update organisation unit
//	@Description	Only the fields present in the body change. clear_parent detaches the unit from its parent.
//	@Tags			admin-org-units
//	@Accept			json
//	@Produce		json
//	@Param			unitID	path		int								true	"Unit ID"
//	@Param			payload	body		orgunits.UpdateOrgUnitRequest	true	"Fields to change"
//	@Success		200		{object}	orgunits.OrgUnit
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/organization-units/{unitID} [patch]
func (app *application) updateOrgUnitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "unitID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload orgunits.UpdateOrgUnitRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.ParentID != nil && *payload.ParentID == id {
		app.badRequestResponse(w, r, orgunits.ErrInvalidParent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := app.store.OrgUnits.Update(ctx, id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, u)
}

// deleteOrgUnitHandler godoc
//
//	@Summary		Delete organisation unit
//	@Description	Child units are detached and events lose their unit.
//	@Tags			admin-org-units
//	@Param			unitID	path	int	true	"Unit ID"
//	@Success		204
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/organization-units/{unitID} [delete]
func (app *application) deleteOrgUnitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "unitID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.OrgUnits.Delete(ctx, id); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
