package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/crypto/bcrypt"

	"community_server/server/community/api"
	"community_server/server/community/media"
	"community_server/server/community/repository"
	"community_server/server/community/service"
	"community_server/server/community/session"
	commonauth "community_server/server/common/auth"
	"community_server/server/common/infra/cache"
	"community_server/server/common/infra/mq"
	"community_server/server/common/infra/object"
	commonlog "community_server/server/common/log"
	"community_server/server/common/middleware"
	"community_server/server/common/telemetry"
)

type Server struct {
	HTTPServer *http.Server
	closers    []func(context.Context) error
}

// NewServer wires the store, services and optional backends. Redis, MinIO,
// AMQP and OTLP are only contacted when configured.
func NewServer(ctx context.Context, cfg *Config) (*Server, error) {
	s := &Server{}
	ok := false
	defer func() {
		if !ok {
			_ = s.closeAll(context.Background())
		}
	}()

	shutdownTracing, err := telemetry.Init(ctx, cfg.OTEL.Endpoint, cfg.OTEL.ServiceName, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	s.closers = append(s.closers, shutdownTracing)

	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client := cache.NewClient(cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		if err := cache.Ping(ctx, client); err != nil {
			return nil, err
		}
		sessionStore = session.NewRedisStore(client)
		commonlog.Infof("session store: redis %s", cfg.Redis.Addr)
	}

	var objects media.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		client, err := object.NewClient(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		if err := object.EnsureBucket(ctx, client, cfg.MinIO.Bucket, true); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", cfg.MinIO.Bucket, err)
		}
		objects = media.NewMinIOStore(client, cfg.MinIO.Bucket, minioPublicBase(cfg.MinIO))
		commonlog.Infof("avatar storage: minio %s/%s", cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
	}

	var publisher service.Publisher = service.NopPublisher{}
	if cfg.AMQP.URL != "" {
		conn, err := mq.NewConnection(cfg.AMQP.URL)
		if err != nil {
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error { return conn.Close() })
		amqpPublisher, err := service.NewAMQPPublisher(conn)
		if err != nil {
			return nil, fmt.Errorf("declare exchange: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error {
			amqpPublisher.Close()
			return nil
		})
		publisher = amqpPublisher
	}

	store := repository.NewStore()
	if cfg.App.SeedDemoData {
		if err := service.Seed(ctx, store, bcrypt.DefaultCost); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	users := service.NewUserService(store, media.NewAvatarProcessor(objects), publisher)
	signer := commonauth.NewService(cfg.Session.Secret, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	h := api.NewHandler(api.Services{
		Users:         users,
		Events:        service.NewEventService(store),
		Chat:          service.NewChatService(store, publisher),
		Tickets:       service.NewTicketService(store, publisher),
		Announcements: service.NewAnnouncementService(store, publisher),
		Site:          service.NewSiteService(store),
	}, session.NewManager(sessionStore, signer), api.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewHTTPMetrics(registry)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(metrics.Handler())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	h.RegisterRoutes(r)

	s.HTTPServer = &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      otelhttp.NewHandler(r, cfg.OTEL.ServiceName),
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	ok = true
	return s, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTPServer.Shutdown(ctx)
	return errors.Join(err, s.closeAll(ctx))
}

func (s *Server) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func minioPublicBase(cfg MinIO) string {
	if cfg.PublicBaseURL != "" {
		return cfg.PublicBaseURL
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + strings.TrimSuffix(cfg.Endpoint, "/")
}
