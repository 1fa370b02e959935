package httphandler

import (
	"net/http"

	"github.com/landreg/registry-backend/internal/applog"
	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
)

type HealthHandler struct {
	DBConnectionPool db.ConnectionPool
}

func (h HealthHandler) GetHealth(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	resp := entities.HealthResponse{Status: entities.Healthy, Database: entities.Healthy}
	status := http.StatusOK
	if err := h.DBConnectionPool.Ping(ctx); err != nil {
		applog.Ctx(ctx).Errorf("health check: pinging database: %v", err)
		resp.Status = entities.Unhealthy
		resp.Database = entities.Unhealthy
		status = http.StatusServiceUnavailable
	}

	renderJSON(rw, status, resp)
}
