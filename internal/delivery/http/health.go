package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	domainerrors "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/errors"
)

// HealthChecker defines interface for components that can report their health
type HealthChecker interface {
	// HealthCheck returns true if component is healthy, false otherwise
	HealthCheck(ctx context.Context) bool
}

// DigestChannels reports which delivery channels can currently send
type DigestChannels interface {
	EmailEnabled() bool
	BotCredentials(ctx context.Context) (dto.BotCredentials, error)
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name     string `json:"name"`
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Message  string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	database HealthChecker
	channels DigestChannels
	logger   zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database HealthChecker, channels DigestChannels, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		database: database,
		channels: channels,
		logger:   logger,
	}
}

// ServeHTTP implements http.Handler interface
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := h.checkComponents(ctx)
	status := determineOverallStatus(components)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}

	statusCode := http.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Interface("components", components).
		Msg("Health check completed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// headers are already sent, an encode failure can only be logged
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
	}
}

func (h *HealthHandler) checkComponents(ctx context.Context) []ComponentHealth {
	components := make([]ComponentHealth, 0, 3)

	dbHealthy := h.database.HealthCheck(ctx)
	db := ComponentHealth{Name: "database", Healthy: dbHealthy, Critical: true}
	if !dbHealthy {
		db.Message = "Database is not reachable"
	}
	components = append(components, db)

	email := ComponentHealth{Name: "email_channel", Healthy: h.channels.EmailEnabled()}
	if !email.Healthy {
		email.Message = domainerrors.ErrEmailDisabled.Error()
	}
	components = append(components, email)

	telegram := ComponentHealth{Name: "telegram_channel", Healthy: true}
	if _, err := h.channels.BotCredentials(ctx); err != nil {
		telegram.Healthy = false
		telegram.Message = err.Error()
	}
	components = append(components, telegram)

	return components
}

// determineOverallStatus is unhealthy when a critical component fails and
// degraded when any other does
func determineOverallStatus(components []ComponentHealth) HealthStatus {
	status := HealthStatusHealthy
	for _, c := range components {
		if c.Healthy {
			continue
		}
		if c.Critical {
			return HealthStatusUnhealthy
		}
		status = HealthStatusDegraded
	}
	return status
}
