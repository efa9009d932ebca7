package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"chapter/internal/domain/events"
	"chapter/internal/domain/posts"
	"chapter/internal/notifications"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
)

// eventResponse adds the shareable public key to an event.
type eventResponse struct {
	events.Event
	PublicKey string `json:"public_key"`
}

func (app *application) eventResponses(list []events.Event) ([]eventResponse, error) {
	out := make([]eventResponse, 0, len(list))
	for _, e := range list {
		resp, err := app.eventResponse(&e)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (app *application) eventResponse(e *events.Event) (eventResponse, error) {
	key, err := app.keys.Encode(e.ID)
	if err != nil {
		return eventResponse{}, err
	}
	return eventResponse{Event: *e, PublicKey: key}, nil
}

// listUpcomingEventsHandler godoc
//
//	@Summary		Upcoming events
//	@Description	Published events that have not ended yet, soonest first.
//	@Tags			public
//	@Produce		json
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"events with pagination"
//	@Router			/events [get]
func (app *application) listUpcomingEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())

	items, total, err := app.store.Events.ListUpcoming(ctx, app.now(), pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	out, err := app.eventResponses(items)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"events":     out,
		"pagination": pg,
	})
}

// getPublicEventHandler godoc
//
//	@Summary		Get a published event
//	@Tags			public
//	@Produce		json
//	@Param			eventKey	path		string	true	"Public event key"
//	@Success		200			{object}	eventResponse
//	@Failure		404			{object}	error	"Not Found"
//	@Router			/events/{eventKey} [get]
func (app *application) getPublicEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.keys.Decode(chi.URLParam(r, "eventKey"))
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	e, err := app.store.Events.GetPublishedByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.writeEvent(w, r, http.StatusOK, e)
}

func (app *application) writeEvent(w http.ResponseWriter, r *http.Request, status int, e *events.Event) {
	resp, err := app.eventResponse(e)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, status, resp)
}

// listEventsHandler godoc
//
//	@Summary		List events
//	@Description	All events including unpublished ones, latest start first.
//	@Tags			admin-events
//	@Produce		json
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"events with pagination"
//	@Router			/admin/events [get]
func (app *application) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())

	items, total, err := app.store.Events.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	out, err := app.eventResponses(items)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"events":     out,
		"pagination": pg,
	})
}

// getEventHandler godoc
//
//	@Summary		Get event
//	@Tags			admin-events
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	eventResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/events/{eventID} [get]
func (app *application) getEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "eventID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	e, err := app.store.Events.GetByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.writeEvent(w, r, http.StatusOK, e)
}

// createEventHandler godoc
//
//	@Summary		Create event
//	@Description	New events are unpublished. ends_at must be after starts_at.
//	@Tags			admin-events
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		events.CreateEventRequest	true	"Event"
//	@Success		201		{object}	eventResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Slug already used"
//	@Router			/admin/events [post]
func (app *application) createEventHandler(w http.ResponseWriter, r *http.Request) {
	var payload events.CreateEventRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	e := &events.Event{
		Title:           strings.TrimSpace(payload.Title),
		Slug:            posts.Slugify(payload.Slug),
		Description:     payload.Description,
		Location:        payload.Location,
		StartsAt:        payload.StartsAt,
		EndsAt:          payload.EndsAt,
		OrgUnitID:       payload.OrgUnitID,
		CoverImageURL:   payload.CoverImageURL,
		RegistrationURL: payload.RegistrationURL,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Events.Create(ctx, e); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.writeEvent(w, r, http.StatusCreated, e)
}

// updateEventHandler godoc
//
//	@Summary		Update event
//	@Description	Only the fields present in the body change.
//	@Tags			admin-events
//	@Accept			json
//	@Produce		json
//	@Param			eventID	path		int							true	"Event ID"
//	@Param			payload	body		events.UpdateEventRequest	true	"Fields to change"
//	@Success		200		{object}	eventResponse
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/events/{eventID} [patch]
func (app *application) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "eventID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload events.UpdateEventRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.Slug != nil {
		slug := posts.Slugify(*payload.Slug)
		if slug == "" {
			app.badRequestResponse(w, r, errors.New("slug must contain letters or digits"))
			return
		}
		payload.Slug = &slug
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	e, err := app.store.Events.Update(ctx, id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.writeEvent(w, r, http.StatusOK, e)
}

// publishEventHandler godoc
//
//	@Summary		Publish event
//	@Description	Publishing an unpublished event announces it to registered devices.
//	@Tags			admin-events
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	eventResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/events/{eventID}/publish [post]
func (app *application) publishEventHandler(w http.ResponseWriter, r *http.Request) {
	app.setEventPublished(w, r, true)
}

// unpublishEventHandler godoc
//
//	@Summary		Unpublish event
//	@Tags			admin-events
//	@Produce		json
//	@Param			eventID	path		int	true	"Event ID"
//	@Success		200		{object}	eventResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/events/{eventID}/unpublish [post]
func (app *application) unpublishEventHandler(w http.ResponseWriter, r *http.Request) {
	app.setEventPublished(w, r, false)
}

func (app *application) setEventPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, err := params.ParseID(chi.URLParam(r, "eventID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	before, err := app.store.Events.GetByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	e, err := app.store.Events.SetPublished(ctx, id, published)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	resp, err := app.eventResponse(e)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if published && !before.Published {
		app.announceEvent(resp)
	}

	app.jsonResponse(w, http.StatusOK, resp)
}

// announceEvent pushes the event in the background; failures are logged.
func (app *application) announceEvent(e eventResponse) {
	if app.push == nil {
		return
	}
	ann := notifications.EventAnnouncement{
		Title:     e.Title,
		StartsAt:  e.StartsAt.Format("Mon 2 Jan, 15:04"),
		Location:  e.Location,
		PublicKey: e.PublicKey,
	}
	app.background(func(ctx context.Context) {
		sent, err := notifications.AnnounceEvent(ctx, app.push, app.store.PushTokens, app.logger, ann)
		if err != nil {
			app.logger.Errorw("event announcement failed", "event_id", e.ID, "error", err.Error())
			return
		}
		app.logger.Infow("event announced", "event_id", e.ID, "sent", sent)
	})
}

// deleteEventHandler godoc
//
//	@Summary		Delete event
//	@Tags			admin-events
//	@Param			eventID	path	int	true	"Event ID"
//	@Success		204
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/events/{eventID} [delete]
func (app *application) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "eventID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Events.Delete(ctx, id); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
