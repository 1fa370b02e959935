package entities

type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status   HealthStatus `json:"status"`
	Database HealthStatus `json:"database"`
}
