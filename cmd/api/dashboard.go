package main

import (
	"context"
	"net/http"
	"time"
)

// dashboardHandler godoc
//
//	@Summary		Dashboard overview
//	@Description	Totals for the admin dashboard: users, posts, events, org units, invitations, hero announcements, uploads.
//	@Tags			admin-dashboard
//	@Produce		json
//	@Success		200	{object}	dashboard.Overview
//	@Failure		500	{object}	error
//	@Router			/admin/dashboard [get]
func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	out, err := app.store.Dashboard.GetOverview(ctx, app.now())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, out)
}
