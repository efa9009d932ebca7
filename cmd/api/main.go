package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"chapter/internal/access"
	"chapter/internal/auth"
	"chapter/internal/db"
	"chapter/internal/domain/storage"
	"chapter/internal/mailer"
	"chapter/internal/media"
	"chapter/internal/notifications"
	"chapter/internal/ratelimiter"
	"chapter/internal/session"
	"chapter/internal/shortkey"

	"github.com/9ssi7/exponent"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	// Default values
	defaultRequests := 200
	defaultTimeFrame := 5 * time.Second
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil && parsedVal > 0 {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	timeFrame := envDuration("RATELIMITER_TIMEFRAME", defaultTimeFrame)

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            timeFrame,
		Enabled:              enabled,
	}
}

func envString(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %d\n", key, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %t\n", key, def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		fmt.Printf("Invalid %s, defaulting to %s\n", key, def)
		return def
	}
	return d
}

func loadConfig() config {
	addr := envString("ADDR", ":8080")

	return config{
		addr:        addr,
		env:         envString("ENV", "development"),
		frontendURL: envString("FRONTEND_URL", "http://localhost:3000"),
		apiURL:      envString("EXTERNAL_URL", "localhost"+addr),
		chapterName: envString("CHAPTER_NAME", "Chapter"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(envInt("DB_MAX_OPEN_CONNS", 30)),
			maxIdleTime: envString("DB_MAX_IDLE_TIME", "15m"),
			migrate:     envBool("DB_MIGRATE", false),
		},
		mail: mailConfig{
			exp:       envDuration("INVITATION_TTL", time.Hour*24*3), // 3 days
			fromEmail: envString("MAIL_FROM", "no-reply@localhost"),
			smtp: smtpConfig{
				host:     envString("SMTP_HOST", "localhost"),
				port:     envInt("SMTP_PORT", 587),
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    envDuration("AUTH_TOKEN_EXP", time.Hour*24*3), // 3 days
				iss:    "chapter",
				aud:    "chapter",
			},
			cookieDomain: os.Getenv("AUTH_COOKIE_DOMAIN"),
		},
		access: accessConfig{
			sessionURL:     os.Getenv("AUTH_SESSION_URL"),
			internalSecret: os.Getenv("INTERNAL_SESSION_SECRET"),
			sessionTimeout: envDuration("ACCESS_SESSION_TIMEOUT", access.DefaultSessionTimeout),
		},
		cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		push: pushConfig{
			expoAccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		},
		shortKey: shortKeyConfig{
			salt:      envString("SHORTKEY_SALT", "chapter"),
			minLength: envInt("SHORTKEY_MIN_LENGTH", 6),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

// NewLogger creates a zap logger: coloured console output in development,
// JSON in production.
func NewLogger(env string) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

var version = "0.3.0"

//	@title			Chapter API
//	@description	Content, events and access control for a chapter website.

//	@contact.name	API Support
//	@contact.email	support@chapter.example

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath	/v1

//	@securityDefinitions.basic	BasicAuth

func main() {
	if err := godotenv.Load(); err != nil && os.Getenv("ENV") == "production" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := loadConfig()

	logger, err := NewLogger(cfg.env)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if cfg.auth.token.secret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET must be set")
	}

	// Database
	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	if cfg.db.migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(ctx, pool)
		cancel()
		if err != nil {
			logger.Fatal(err)
		}
		logger.Info("database schema applied")
	}

	store := storage.NewContainer(pool)

	cld, err := media.NewCloudinary(cfg.cloudinaryURL)
	if err != nil {
		logger.Fatal(err)
	}

	smtp, err := mailer.NewSMTPClient(
		cfg.mail.smtp.host,
		cfg.mail.smtp.port,
		cfg.mail.smtp.username,
		cfg.mail.smtp.password,
		cfg.mail.fromEmail,
	)
	if err != nil {
		logger.Fatal(err)
	}

	var push notifications.PushSender
	if cfg.push.expoAccessToken != "" {
		push = notifications.NewExpoAdapter(exponent.NewClient(exponent.WithAccessToken(cfg.push.expoAccessToken)))
	} else {
		logger.Warn("EXPO_ACCESS_TOKEN not set, event announcements are disabled")
	}

	keys, err := shortkey.New(cfg.shortKey.salt, cfg.shortKey.minLength)
	if err != nil {
		logger.Fatal(err)
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)
	defer rateLimiter.Stop()

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.aud,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		media:         cld,
		mailer:        smtp,
		push:          push,
		authenticator: jwtAuthenticator,
		keys:          keys,
		rateLimiter:   rateLimiter,
		now:           time.Now,
	}

	// The gate asks the auth service for the session. Without one configured
	// the cookie is checked in-process.
	var resolver access.SessionResolver = access.SessionResolverFunc(app.resolveSession)
	if cfg.access.sessionURL != "" {
		resolver = session.NewHTTPResolver(cfg.access.sessionURL, cfg.access.internalSecret, nil)
		logger.Infow("access gate uses remote session endpoint", "url", cfg.access.sessionURL)
	}
	app.gate = access.NewGate(
		access.MustPolicyTable(access.DefaultPolicies()...),
		resolver,
		access.WithSessionTimeout(cfg.access.sessionTimeout),
	)

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		st := pool.Stat()
		return map[string]any{
			"total_conns":    st.TotalConns(),
			"acquired_conns": st.AcquiredConns(),
			"idle_conns":     st.IdleConns(),
			"max_conns":      st.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
