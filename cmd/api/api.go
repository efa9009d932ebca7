package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"chapter/docs" // registers the swagger docs
	"chapter/internal/access"
	"chapter/internal/auth"
	"chapter/internal/domain/storage"
	"chapter/internal/mailer"
	"chapter/internal/media"
	"chapter/internal/notifications"
	"chapter/internal/ratelimiter"
	"chapter/internal/shortkey"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	media         media.Store
	mailer        mailer.Client
	push          notifications.PushSender
	authenticator auth.Authenticator
	gate          *access.Gate
	keys          *shortkey.Codec
	rateLimiter   ratelimiter.Limiter
	now           func() time.Time
	wg            sync.WaitGroup
}

type config struct {
	addr          string
	db            dbConfig
	env           string
	apiURL        string
	frontendURL   string
	chapterName   string
	mail          mailConfig
	auth          authConfig
	access        accessConfig
	cloudinaryURL string
	push          pushConfig
	shortKey      shortKeyConfig
	rateLimiter   ratelimiter.Config
}

type authConfig struct {
	basic        basicConfig
	token        tokenConfig
	cookieDomain string
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
	aud    string
}

type basicConfig struct {
	user string
	pass string
}

type accessConfig struct {
	sessionURL     string
	internalSecret string
	sessionTimeout time.Duration
}

type mailConfig struct {
	exp       time.Duration // invitation lifetime
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type pushConfig struct {
	expoAccessToken string
}

type shortKeyConfig struct {
	salt      string
	minLength int
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
	migrate     bool
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	// redirect targets of the access gate
	r.Get(access.LoginPath, app.loginPageHandler)
	r.Get(access.NeedAccessPath, app.needAccessHandler)

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// introspection for the access gate, called once per admin request
		r.With(app.InternalSecretMiddleware).Get("/authentication/session", app.sessionHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)

			r.Route("/authentication", func(r chi.Router) {
				r.Post("/login", app.loginHandler)
				r.Post("/logout", app.logoutHandler)
			})
			r.Post("/invitations/accept", app.acceptInvitationHandler)

			r.Get("/posts", app.listPublishedPostsHandler)
			r.Get("/posts/{slug}", app.getPublishedPostHandler)
			r.Get("/events", app.listUpcomingEventsHandler)
			r.Get("/events/{eventKey}", app.getPublicEventHandler)
			r.Get("/organization-units", app.listPublicOrgUnitsHandler)
			r.Get("/hero", app.getLiveHeroHandler)
		})

		r.Route("/push-tokens", func(r chi.Router) {
			r.Use(app.RequireSessionMiddleware)
			r.Put("/", app.savePushTokenHandler)
			r.Delete("/", app.removePushTokenHandler)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(app.AccessGateMiddleware)

		r.Get("/dashboard", app.dashboardHandler)
		r.Route("/dashboard/hero", func(r chi.Router) {
			r.Get("/", app.listHeroHandler)
			r.Post("/", app.createHeroHandler)
			r.Put("/order", app.reorderHeroHandler)
			r.Route("/{heroID}", func(r chi.Router) {
				r.Get("/", app.getHeroHandler)
				r.Patch("/", app.updateHeroHandler)
				r.Delete("/", app.deleteHeroHandler)
				r.Patch("/toggle", app.toggleHeroHandler)
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", app.listPostsHandler)
			r.Post("/", app.createPostHandler)
			r.Route("/{postID}", func(r chi.Router) {
				r.Get("/", app.getPostHandler)
				r.Patch("/", app.updatePostHandler)
				r.Delete("/", app.deletePostHandler)
				r.Post("/publish", app.publishPostHandler)
				r.Post("/unpublish", app.unpublishPostHandler)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", app.listEventsHandler)
			r.Post("/", app.createEventHandler)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", app.getEventHandler)
				r.Patch("/", app.updateEventHandler)
				r.Delete("/", app.deleteEventHandler)
				r.Post("/publish", app.publishEventHandler)
				r.Post("/unpublish", app.unpublishEventHandler)
			})
		})

		r.Route("/organization-units", func(r chi.Router) {
			r.Get("/", app.listOrgUnitsHandler)
			r.Post("/", app.createOrgUnitHandler)
			r.Route("/{unitID}", func(r chi.Router) {
				r.Get("/", app.getOrgUnitHandler)
				r.Patch("/", app.updateOrgUnitHandler)
				r.Delete("/", app.deleteOrgUnitHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.adminListUsersHandler)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", app.adminGetUserHandler)
				r.Delete("/", app.adminDeleteUserHandler)
				r.Patch("/role", app.adminUpdateUserRoleHandler)
				r.Patch("/active", app.adminSetUserActiveHandler)
			})
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", app.listInvitationsHandler)
			r.Post("/", app.createInvitationHandler)
			r.Delete("/{invitationID}", app.revokeInvitationHandler)
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Get("/", app.listUploadsHandler)
			r.Post("/", app.createUploadHandler)
			r.Delete("/{uploadID}", app.deleteUploadHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	ctx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	app.startBackgroundJobs(ctx)

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		stopJobs()
		err := srv.Shutdown(ctx)
		app.logger.Infow("waiting for background tasks")
		app.wg.Wait()
		shutdown <- err
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
