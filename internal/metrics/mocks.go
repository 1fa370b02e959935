package metrics

import (
	"github.com/alitto/pond/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
)

// MockMetricsService is a mock implementation of MetricsService
type MockMetricsService struct {
	mock.Mock
}

var _ MetricsService = (*MockMetricsService)(nil)

// NewMockMetricsService creates a new mock metrics service
func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) RegisterPoolMetrics(channel string, pool pond.Pool) {
	m.Called(channel, pool)
}

func (m *MockMetricsService) GetRegistry() *prometheus.Registry {
	args := m.Called()
	return args.Get(0).(*prometheus.Registry)
}

func (m *MockMetricsService) IncNumRequests(endpoint, method string, statusCode int) {
	m.Called(endpoint, method, statusCode)
}

func (m *MockMetricsService) ObserveRequestDuration(endpoint, method string, duration float64) {
	m.Called(endpoint, method, duration)
}

func (m *MockMetricsService) ObserveDBQueryDuration(queryType, table string, duration float64) {
	m.Called(queryType, table, duration)
}

func (m *MockMetricsService) IncDBQuery(queryType, table string) {
	m.Called(queryType, table)
}

func (m *MockMetricsService) IncDBQueryError(queryType, table, errorType string) {
	m.Called(queryType, table, errorType)
}

func (m *MockMetricsService) IncWorkflowTransition(requestType, action, toStatus string) {
	m.Called(requestType, action, toStatus)
}

func (m *MockMetricsService) IncWorkflowTransitionDenied(org, action, reason string) {
	m.Called(org, action, reason)
}

func (m *MockMetricsService) IncValidationFailure(requestType string) {
	m.Called(requestType)
}

func (m *MockMetricsService) ObserveRequestResolutionDuration(requestType string, duration float64) {
	m.Called(requestType, duration)
}

func (m *MockMetricsService) IncOptimisticLockConflict(table string) {
	m.Called(table)
}

func (m *MockMetricsService) IncCertificatesIssued(requestType string) {
	m.Called(requestType)
}

func (m *MockMetricsService) SetOpenRequests(status string, count int) {
	m.Called(status, count)
}

func (m *MockMetricsService) IncNotificationsDispatched(kind string) {
	m.Called(kind)
}

func (m *MockMetricsService) IncNotificationFailures(kind string) {
	m.Called(kind)
}
