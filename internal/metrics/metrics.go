package metrics

import (
	"strconv"

	"github.com/alitto/pond/v2"
	"github.com/dlmiddlecote/sqlstats"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService interface {
	RegisterPoolMetrics(channel string, pool pond.Pool)
	GetRegistry() *prometheus.Registry
	IncNumRequests(endpoint, method string, statusCode int)
	ObserveRequestDuration(endpoint, method string, duration float64)
	ObserveDBQueryDuration(queryType, table string, duration float64)
	IncDBQuery(queryType, table string)
	IncDBQueryError(queryType, table, errorType string)
	// Workflow Metrics
	IncWorkflowTransition(requestType, action, toStatus string)
	IncWorkflowTransitionDenied(org, action, reason string)
	IncValidationFailure(requestType string)
	ObserveRequestResolutionDuration(requestType string, duration float64)
	IncOptimisticLockConflict(table string)
	// Registry Metrics
	IncCertificatesIssued(requestType string)
	SetOpenRequests(status string, count int)
	IncNotificationsDispatched(kind string)
	IncNotificationFailures(kind string)
}

// metricsService handles all metrics for the registry backend.
type metricsService struct {
	registry *prometheus.Registry
	db       *sqlx.DB

	// HTTP Request Metrics
	numRequestsTotal *prometheus.CounterVec
	requestsDuration *prometheus.SummaryVec

	// DB Query Metrics
	dbQueryDuration *prometheus.SummaryVec
	dbQueriesTotal  *prometheus.CounterVec
	dbQueryErrors   *prometheus.CounterVec

	// Workflow Metrics
	workflowTransitionsTotal  *prometheus.CounterVec
	workflowDeniedTotal       *prometheus.CounterVec
	validationFailuresTotal   *prometheus.CounterVec
	requestResolutionDuration *prometheus.HistogramVec
	optimisticLockConflicts   *prometheus.CounterVec

	// Registry Metrics
	certificatesIssuedTotal *prometheus.CounterVec
	openRequests            *prometheus.GaugeVec
	notificationsDispatched *prometheus.CounterVec
	notificationFailures    *prometheus.CounterVec
}

// NewMetricsService creates a new metrics service with all metrics registered
func NewMetricsService(db *sqlx.DB) MetricsService {
	m := &metricsService{
		registry: prometheus.NewRegistry(),
		db:       db,
	}

	// HTTP Request Metrics
	m.numRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.requestsDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "http_request_duration_seconds",
			Help:       "Duration of HTTP requests in seconds",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"endpoint", "method"},
	)

	// DB Query Metrics
	m.dbQueryDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "db_query_duration_seconds",
			Help:       "Duration of database queries",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"query_type", "table"},
	)
	m.dbQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)
	m.dbQueryErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"query_type", "table", "error_type"},
	)

	// Workflow Metrics
	m.workflowTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of successful workflow transitions",
		},
		[]string{"request_type", "action", "to_status"},
	)
	m.workflowDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_denied_total",
			Help: "Total number of denied workflow actions by organization and reason",
		},
		[]string{"org", "action", "reason"},
	)
	m.validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_validation_failures_total",
			Help: "Total number of payload validation failures by request type",
		},
		[]string{"request_type"},
	)
	m.requestResolutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workflow_request_resolution_duration_seconds",
			Help:    "Time from request creation to a terminal status",
			Buckets: []float64{60, 300, 1800, 3600, 14400, 43200, 86400, 259200, 604800, 1209600}, // 1min to 14d
		},
		[]string{"request_type"},
	)
	m.optimisticLockConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimistic_lock_conflicts_total",
			Help: "Total number of revision conflicts detected on update",
		},
		[]string{"table"},
	)

	// Registry Metrics
	m.certificatesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Total number of certificates issued by originating request type",
		},
		[]string{"request_type"},
	)
	m.openRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "open_requests",
			Help: "Number of transaction requests currently in a non-terminal status",
		},
		[]string{"status"},
	)
	m.notificationsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"kind"},
	)
	m.notificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total number of notification dispatch failures",
		},
		[]string{"kind"},
	)

	m.registerMetrics()
	return m
}

func (m *metricsService) registerMetrics() {
	collector := sqlstats.NewStatsCollector("registry-backend-db", m.db)
	m.registry.MustRegister(
		collector,
		m.numRequestsTotal,
		m.requestsDuration,
		m.dbQueryDuration,
		m.dbQueriesTotal,
		m.dbQueryErrors,
		m.workflowTransitionsTotal,
		m.workflowDeniedTotal,
		m.validationFailuresTotal,
		m.requestResolutionDuration,
		m.optimisticLockConflicts,
		m.certificatesIssuedTotal,
		m.openRequests,
		m.notificationsDispatched,
		m.notificationFailures,
	)
}

// RegisterPoolMetrics registers a worker pool for metrics collection
func (m *metricsService) RegisterPoolMetrics(channel string, pool pond.Pool) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "pool_workers_running",
			Help:        "Number of running worker goroutines",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 {
			return float64(pool.RunningWorkers())
		},
	))

	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "pool_tasks_submitted_total",
			Help:        "Number of tasks submitted",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 {
			return float64(pool.SubmittedTasks())
		},
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "pool_tasks_waiting",
			Help:        "Number of tasks currently waiting in the queue",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 {
			return float64(pool.WaitingTasks())
		},
	))

	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "pool_tasks_successful_total",
			Help:        "Number of tasks that completed successfully",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 {
			return float64(pool.SuccessfulTasks())
		},
	))

	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "pool_tasks_failed_total",
			Help:        "Number of tasks that completed with panic",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 {
			return float64(pool.FailedTasks())
		},
	))

	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name:        "pool_tasks_completed_total",
			Help:        "Number of tasks that completed either successfully or with panic",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 {
			return float64(pool.CompletedTasks())
		},
	))
}

// GetRegistry returns the prometheus registry
func (m *metricsService) GetRegistry() *prometheus.Registry {
	return m.registry
}

// HTTP Request Metrics
func (m *metricsService) IncNumRequests(endpoint, method string, statusCode int) {
	m.numRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

func (m *metricsService) ObserveRequestDuration(endpoint, method string, duration float64) {
	m.requestsDuration.WithLabelValues(endpoint, method).Observe(duration)
}

// DB Query Metrics
func (m *metricsService) ObserveDBQueryDuration(queryType, table string, duration float64) {
	m.dbQueryDuration.WithLabelValues(queryType, table).Observe(duration)
}

func (m *metricsService) IncDBQuery(queryType, table string) {
	m.dbQueriesTotal.WithLabelValues(queryType, table).Inc()
}

func (m *metricsService) IncDBQueryError(queryType, table, errorType string) {
	m.dbQueryErrors.WithLabelValues(queryType, table, errorType).Inc()
}

// Workflow Metrics
func (m *metricsService) IncWorkflowTransition(requestType, action, toStatus string) {
	m.workflowTransitionsTotal.WithLabelValues(requestType, action, toStatus).Inc()
}

func (m *metricsService) IncWorkflowTransitionDenied(org, action, reason string) {
	m.workflowDeniedTotal.WithLabelValues(org, action, reason).Inc()
}

func (m *metricsService) IncValidationFailure(requestType string) {
	m.validationFailuresTotal.WithLabelValues(requestType).Inc()
}

func (m *metricsService) ObserveRequestResolutionDuration(requestType string, duration float64) {
	m.requestResolutionDuration.WithLabelValues(requestType).Observe(duration)
}

func (m *metricsService) IncOptimisticLockConflict(table string) {
	m.optimisticLockConflicts.WithLabelValues(table).Inc()
}

// Registry Metrics
func (m *metricsService) IncCertificatesIssued(requestType string) {
	m.certificatesIssuedTotal.WithLabelValues(requestType).Inc()
}

func (m *metricsService) SetOpenRequests(status string, count int) {
	m.openRequests.WithLabelValues(status).Set(float64(count))
}

func (m *metricsService) IncNotificationsDispatched(kind string) {
	m.notificationsDispatched.WithLabelValues(kind).Inc()
}

func (m *metricsService) IncNotificationFailures(kind string) {
	m.notificationFailures.WithLabelValues(kind).Inc()
}
