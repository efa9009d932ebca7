package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"chapter/internal/domain/events"
	"chapter/internal/domain/hero"
	"chapter/internal/domain/invitations"
	"chapter/internal/domain/orgunits"
	"chapter/internal/domain/posts"
	"chapter/internal/domain/uploads"
	"chapter/internal/domain/users"
	"chapter/internal/media"
	"chapter/internal/params"
	"chapter/internal/shortkey"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) goneResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("gone response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusGone, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	secs := int(retryAfter.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+strconv.Itoa(secs)+"s")
}

// storeErrorResponse maps domain sentinel errors onto HTTP statuses.
func (app *application) storeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, invitations.ErrNotFound),
		errors.Is(err, posts.ErrNotFound),
		errors.Is(err, events.ErrNotFound),
		errors.Is(err, orgunits.ErrNotFound),
		errors.Is(err, hero.ErrNotFound),
		errors.Is(err, uploads.ErrNotFound),
		errors.Is(err, shortkey.ErrInvalidKey):
		app.notFoundResponse(w, r, err)

	case errors.Is(err, users.ErrDuplicateEmail),
		errors.Is(err, users.ErrLastAdmin),
		errors.Is(err, invitations.ErrPendingExists),
		errors.Is(err, invitations.ErrAlreadyAccepted),
		errors.Is(err, posts.ErrDuplicateSlug),
		errors.Is(err, events.ErrDuplicateSlug),
		errors.Is(err, orgunits.ErrDuplicateSlug):
		app.conflictResponse(w, r, err)

	case errors.Is(err, invitations.ErrExpired):
		app.goneResponse(w, r, err)

	case errors.Is(err, events.ErrInvalidWindow),
		errors.Is(err, events.ErrUnknownOrgUnit),
		errors.Is(err, hero.ErrInvalidWindow),
		errors.Is(err, orgunits.ErrInvalidParent),
		errors.Is(err, orgunits.ErrInvalidKind),
		errors.Is(err, media.ErrUnsupportedType),
		errors.Is(err, params.ErrInvalidID):
		app.badRequestResponse(w, r, err)

	default:
		app.internalServerError(w, r, err)
	}
}
