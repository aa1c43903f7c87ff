package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/techfix-solutions/desk-service/internal/config"
	"github.com/techfix-solutions/desk-service/internal/database"
	"github.com/techfix-solutions/desk-service/internal/events"
	"github.com/techfix-solutions/desk-service/internal/handler"
	"github.com/techfix-solutions/desk-service/internal/notify"
	"github.com/techfix-solutions/desk-service/internal/presence"
	"github.com/techfix-solutions/desk-service/internal/router"
	"github.com/techfix-solutions/desk-service/internal/service"
	"github.com/techfix-solutions/desk-service/internal/store"
)

// API is the desk service in api mode: one HTTP server carrying the
// JSON endpoints, the public widget surfaces and the SSE streams.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *events.Producer
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	hub := store.NewHub()
	ticketSvc := service.NewTicketService(db, hub)
	chatSvc := service.NewChatService(db, hub)
	inboxSvc := service.NewInboxService(db, hub)
	reviewSvc := service.NewReviewService(db, hub)
	userSvc := service.NewUserService(db, hub)
	tracker := presence.NewTracker(chatSvc)

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicDesk)
	notifier := notify.NewClient(cfg.WebhookURL)

	h := router.Handlers{
		Tickets:   handler.NewTicketHandler(ticketSvc, userSvc, producer),
		Chat:      handler.NewChatHandler(chatSvc, userSvc, producer),
		Widget:    handler.NewWidgetHandler(tracker, chatSvc, reviewSvc, userSvc, hub, producer),
		Inbox:     handler.NewInboxHandler(inboxSvc, notifier, producer),
		Dashboard: handler.NewDashboardHandler(inboxSvc, ticketSvc, chatSvc),
		Reviews:   handler.NewReviewHandler(reviewSvc),
		Streams:   handler.NewStreamHandler(hub, ticketSvc, chatSvc, userSvc),
		Roles:     userSvc,
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: the SSE streams stay open until the client
		// disconnects.
		IdleTimeout: 60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  API v1:        %s/api/v1/", base)
	log.Printf("  Widget:        %s/widget/", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("events: close: %v", err)
	}
	return nil
}
