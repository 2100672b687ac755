package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/childsupport/internal/cache"
	"github.com/Simplici0/childsupport/internal/config"
	"github.com/Simplici0/childsupport/internal/logging"
	"github.com/Simplici0/childsupport/internal/schedule"
	"github.com/Simplici0/childsupport/internal/support"
)

var log = logging.For("server")

func main() {
	cfg := config.Load()
	if err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}

	store, closeStore := openStore(cfg)
	defer closeStore()

	sched := schedule.Default()
	srv, err := newServer(sched, cache.NewResults(store, cfg.CacheTTL), log)
	if err != nil {
		log.Fatalf("failed to prepare templates: %v", err)
	}

	limiter := newIPRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(limiter, cfg.TrustProxy),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": httpServer.Addr, "env": cfg.Env, "schedule": sched.Year}).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Errorf("server stopped: %v", err)
		return
	case <-quit:
		log.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

func openStore(cfg config.Config) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), func() {}
	}

	rdb := cache.NewRedis(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx); err != nil {
		log.Warnf("redis unavailable, falling back to in-memory cache: %v", err)
		_ = rdb.Close()
		return cache.NewMemory(), func() {}
	}
	return rdb, func() { _ = rdb.Close() }
}

// routes builds the router. With trustProxy unset the rate limiter keys on
// the socket address, so forwarding headers cannot pick the bucket.
func (s *server) routes(limiter *ipRateLimiter, trustProxy bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/schedule", s.handleSchedule)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/calculate", s.handleCalculateForm)
		r.Post("/api/calculate", s.handleCalculateJSON)
	})

	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
		}).Debug("request")
	})
}

// calculate serves from the result cache when possible. Cache failures are
// logged and never fail the request.
func (s *server) calculate(ctx context.Context, in support.Input) (support.Result, error) {
	if cached, ok, err := s.results.Get(ctx, in); err != nil {
		s.log.Warnf("read cached result: %v", err)
	} else if ok {
		return cached, nil
	}

	result, err := s.calc.Calculate(in)
	if err != nil {
		return support.Result{}, err
	}

	if err := s.results.Set(ctx, in, result); err != nil {
		s.log.Warnf("cache result: %v", err)
	}
	return result, nil
}
