package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	jwttoken "lexscreen/internal/jwt_token"
	"lexscreen/internal/platform/config"
	"lexscreen/internal/platform/httpserver"
	"lexscreen/internal/platform/logger"
	"lexscreen/internal/platform/metrics"
	"lexscreen/internal/platform/middleware"
	"lexscreen/internal/platform/ratelimit"
	"lexscreen/internal/screening/handler"
	screeningmetrics "lexscreen/internal/screening/metrics"
	"lexscreen/internal/screening/notify"
	"lexscreen/internal/screening/present"
	"lexscreen/internal/screening/rules"
	"lexscreen/internal/screening/service"
	"lexscreen/pkg/platform/httputil"
	"lexscreen/pkg/platform/middleware/admin"
	"lexscreen/pkg/platform/middleware/metadata"
	"lexscreen/pkg/platform/middleware/requesttime"
)

const (
	tokenIssuer   = "lexscreen"
	tokenAudience = "lexscreen-wizard"
)

// main loads configuration and hands off to run so deferred cleanup executes
// before the process exits.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("lexscreen stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("lexscreen stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.UsesDevSecret() {
		log.Warn("RESUME_TOKEN_SECRET not set, using development secret")
	}
	if cfg.Server.AdminToken == "" {
		log.Warn("ADMIN_API_TOKEN not set, staff endpoints reject every request")
	}

	reg := metrics.NewRegistry()
	httpMetrics := metrics.New(reg)
	screening := screeningmetrics.New(reg)

	classifier, err := newClassifier(cfg.Screening)
	if err != nil {
		return err
	}

	deps, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	dispatcher := notify.NewDispatcher(deps.sender,
		notify.WithQueueSize(cfg.Screening.NotifyQueueSize),
		notify.WithLogger(log),
		notify.WithMetrics(screening),
	)
	svc, err := service.New(classifier, deps.records, deps.progress,
		service.WithLogger(log),
		service.WithMetrics(screening),
		service.WithNotifier(dispatcher),
		service.WithTracer(otel.Tracer("lexscreen/screening")),
	)
	if err != nil {
		return err
	}

	tokens := jwttoken.NewJWTService(cfg.Server.ResumeTokenSecret, tokenIssuer, tokenAudience, cfg.Server.ResumeTokenTTL)
	h := handler.New(svc, tokens, present.New(present.MustLoadCatalogue()), log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(httpMetrics.Middleware)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Health(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	limiter := ratelimit.NewMiddleware(deps.limits, cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit("public"))
		h.Register(r, middleware.RequireResumeToken(tokens, log))
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.Server.AdminToken, log))
		h.RegisterAdmin(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting lexscreen", "addr", cfg.Server.Addr, "backends", deps.describe())
		return httpserver.Serve(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		sweepRateLimits(gctx, deps.local, cfg.RateLimit.Window)
		return nil
	})
	return g.Wait()
}

func sweepRateLimits(ctx context.Context, mem *ratelimit.Memory, window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mem.Sweep(window)
		}
	}
}

func newClassifier(cfg config.Screening) (*rules.Classifier, error) {
	if cfg.RuleOverridesFile == "" {
		return rules.New()
	}
	o, err := rules.LoadOverrides(cfg.RuleOverridesFile)
	if err != nil {
		return nil, err
	}
	return rules.New(rules.WithOverrides(o))
}
