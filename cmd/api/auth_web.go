package main

import (
	"net/http"

	"chapter/internal/access"
	"chapter/internal/session"
)

// setAuthCookie stores the session token in an HttpOnly cookie.
func (app *application) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   app.config.auth.cookieDomain,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.exp.Seconds()),
	})
}

func (app *application) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   app.config.auth.cookieDomain,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// sessionHandler godoc
//
//	@Summary		Session introspection
//	@Description	Returns the session carried by the caller's cookie. Requires the internal shared secret.
//	@Tags			authentication
//	@Produce		json
//	@Param			X-Internal-Secret	header		string	true	"shared secret"
//	@Success		200					{object}	session.Payload
//	@Failure		401					{object}	error
//	@Failure		403					{object}	error
//	@Router			/authentication/session [get]
func (app *application) sessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := app.resolveSession(r.Context(), r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if sess == nil {
		app.unauthorizedErrorResponse(w, r, access.ErrNoSession)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, session.NewPayload(sess))
}

type redirectPage struct {
	Page    string `json:"page"`
	Message string `json:"message"`
	Next    string `json:"next,omitempty"`
}

// loginPageHandler is the target of the gate's login redirect. The web
// frontend renders the actual form.
func (app *application) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	_ = app.jsonResponse(w, http.StatusOK, redirectPage{
		Page:    "login",
		Message: "please log in to continue",
		Next:    r.URL.Query().Get("next"),
	})
}

func (app *application) needAccessHandler(w http.ResponseWriter, r *http.Request) {
	_ = app.jsonResponse(w, http.StatusForbidden, redirectPage{
		Page:    "need-access",
		Message: "your role does not have access to that page",
	})
}
