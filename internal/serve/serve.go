package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/apptracker"
	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/metrics"
	"github.com/landreg/registry-backend/internal/serve/auth"
	"github.com/landreg/registry-backend/internal/serve/httperror"
	"github.com/landreg/registry-backend/internal/serve/httphandler"
	"github.com/landreg/registry-backend/internal/serve/middleware"
	"github.com/landreg/registry-backend/internal/services"
	"github.com/landreg/registry-backend/internal/workflow"
)

const (
	serverShutdownTimeout = 10 * time.Second
	// openRequestsRefreshInterval paces the per-status open request gauge.
	openRequestsRefreshInterval = 30 * time.Second
	defaultNotificationWorkers  = 4
)

type Configs struct {
	Port                int
	DatabaseURL         string
	JWTSecret           string
	TokenLifetime       time.Duration
	LogLevel            logrus.Level
	NotificationWorkers int
	AppTracker          apptracker.AppTracker
}

type handlerDeps struct {
	DBConnectionPool db.ConnectionPool
	Models           *data.Models
	MetricsService   metrics.MetricsService
	AppTracker       apptracker.AppTracker
	JWTManager       *auth.JWTManager

	// Services
	RequestService      services.RequestService
	CertificateService  services.CertificateService
	ParcelService       services.ParcelService
	DocumentService     services.DocumentService
	NotificationService services.NotificationService
}

func Serve(cfg Configs) error {
	deps, err := initHandlerDeps(cfg)
	if err != nil {
		return fmt.Errorf("setting up handler dependencies: %w", err)
	}
	defer deps.DBConnectionPool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go refreshOpenRequestsMetric(ctx, deps.RequestService)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		applog.Infof("Starting registry backend server on port %d", cfg.Port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("running registry backend server: %w", err)
	case <-ctx.Done():
	}

	applog.Info("Stopping registry backend server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down registry backend server: %w", err)
	}

	// Flush queued notifications before the process exits.
	deps.NotificationService.Shutdown()

	return nil
}

func initHandlerDeps(cfg Configs) (handlerDeps, error) {
	ctx := context.Background()

	dbConnectionPool, err := db.OpenDBConnectionPool(cfg.DatabaseURL)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("connecting to the database: %w", err)
	}
	sqlxDB, err := dbConnectionPool.SqlxDB(ctx)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("getting sqlx db: %w", err)
	}
	metricsService := metrics.NewMetricsService(sqlxDB)

	models, err := data.NewModels(dbConnectionPool, metricsService)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("creating models for Serve: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenLifetime)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating JWT manager: %w", err)
	}

	engine := workflow.NewEngine()

	notificationWorkers := cfg.NotificationWorkers
	if notificationWorkers <= 0 {
		notificationWorkers = defaultNotificationWorkers
	}
	notificationService, err := services.NewNotificationService(models.Notifications, metricsService, cfg.AppTracker, notificationWorkers)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating notification service: %w", err)
	}

	requestService, err := services.NewRequestService(engine, models.TransactionRequests, models.Documents, notificationService, metricsService)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating request service: %w", err)
	}

	certificateService, err := services.NewCertificateService(engine, dbConnectionPool, models.TransactionRequests, models.LandParcels, models.Certificates, notificationService, metricsService, cfg.AppTracker)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating certificate service: %w", err)
	}

	parcelService, err := services.NewParcelService(dbConnectionPool, models.LandParcels)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating parcel service: %w", err)
	}

	documentService, err := services.NewDocumentService(models.Documents)
	if err != nil {
		return handlerDeps{}, fmt.Errorf("instantiating document service: %w", err)
	}

	return handlerDeps{
		DBConnectionPool:    dbConnectionPool,
		Models:              models,
		MetricsService:      metricsService,
		AppTracker:          cfg.AppTracker,
		JWTManager:          jwtManager,
		RequestService:      requestService,
		CertificateService:  certificateService,
		ParcelService:       parcelService,
		DocumentService:     documentService,
		NotificationService: notificationService,
	}, nil
}

func refreshOpenRequestsMetric(ctx context.Context, requestService services.RequestService) {
	ticker := time.NewTicker(openRequestsRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := requestService.RefreshOpenRequestsMetric(ctx); err != nil {
				applog.Ctx(ctx).Errorf("refreshing open requests metric: %v", err)
			}
		}
	}
}

func handler(deps handlerDeps) http.Handler {
	mux := chi.NewRouter()
	mux.NotFound(httperror.ErrorHandler{Error: httperror.NotFound}.ServeHTTP)
	mux.MethodNotAllowed(httperror.ErrorHandler{Error: httperror.MethodNotAllowed}.ServeHTTP)
	mux.Use(middleware.MetricsMiddleware(deps.MetricsService))
	mux.Use(middleware.RecoverHandler(deps.AppTracker))

	mux.Get("/health", httphandler.HealthHandler{DBConnectionPool: deps.DBConnectionPool}.GetHealth)
	mux.Get("/metrics", promhttp.HandlerFor(deps.MetricsService.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP)

	// Authenticated routes
	mux.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(deps.JWTManager))

		r.Route("/transaction-requests", func(r chi.Router) {
			requestsHandler := &httphandler.TransactionRequestsHandler{
				RequestService: deps.RequestService,
				AppTracker:     deps.AppTracker,
			}
			certificatesHandler := &httphandler.CertificatesHandler{
				CertificateService: deps.CertificateService,
				AppTracker:         deps.AppTracker,
			}

			r.Post("/", requestsHandler.CreateRequest)
			r.Get("/", requestsHandler.ListRequests)
			r.Get("/{id}", requestsHandler.GetRequest)
			r.Post("/{id}/actions", requestsHandler.PerformAction)
			r.Post("/{id}/certificates", certificatesHandler.IssueCertificates)
		})

		r.Route("/land-parcels", func(r chi.Router) {
			handler := &httphandler.LandParcelsHandler{
				ParcelService: deps.ParcelService,
				AppTracker:    deps.AppTracker,
			}

			r.Post("/", handler.RegisterParcel)
			r.Get("/", handler.ListParcels)
			r.Get("/{id}", handler.GetParcel)
		})

		r.Route("/certificates", func(r chi.Router) {
			handler := &httphandler.CertificatesHandler{
				CertificateService: deps.CertificateService,
				AppTracker:         deps.AppTracker,
			}

			r.Get("/", handler.ListCertificates)
			r.Get("/{id}", handler.GetCertificate)
		})

		r.Route("/documents", func(r chi.Router) {
			handler := &httphandler.DocumentsHandler{
				DocumentService: deps.DocumentService,
				AppTracker:      deps.AppTracker,
			}

			r.Post("/", handler.RegisterDocument)
			r.Get("/{id}", handler.GetDocument)
			r.Post("/{id}/verify", handler.VerifyDocument)
		})

		r.Route("/notifications", func(r chi.Router) {
			handler := &httphandler.NotificationsHandler{
				NotificationService: deps.NotificationService,
				AppTracker:          deps.AppTracker,
			}

			r.Get("/", handler.ListInbox)
			r.Post("/{id}/read", handler.MarkRead)
		})
	})

	return mux
}
