package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/config"
	"github.com/linkmux/linkmux/internal/domain"
	"github.com/linkmux/linkmux/internal/service"
)

// Handler holds the HTTP handlers for the status server.
type Handler struct {
	dispatcher service.Dispatcher
	cfg        *config.Config
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(dispatcher service.Dispatcher, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

type requestCounters struct {
	Total       int64   `json:"total"`
	Successful  int64   `json:"successful"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

type statusResponse struct {
	Status    string                                   `json:"status"`
	StartTime time.Time                                `json:"start_time"`
	Uptime    string                                   `json:"uptime"`
	Services  map[domain.ProviderID]domain.ProviderHealth `json:"services"`
	Requests  requestCounters                          `json:"requests"`
}

// Status handles GET /api/status: live health probes plus counters.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.dispatcher.Stats()
	services := h.dispatcher.CheckAllHealth(r.Context())

	h.writeJSON(w, statusResponse{
		Status:    "online",
		StartTime: snap.StartTime,
		Uptime:    snap.Uptime.Round(time.Second).String(),
		Services:  services,
		Requests: requestCounters{
			Total:       snap.Total,
			Successful:  snap.Successful,
			Failed:      snap.Failed,
			SuccessRate: snap.SuccessRate(),
		},
	})
}

type healthResponse struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	ServicesConfigured int       `json:"services_configured"`
}

// Health handles GET /api/health: a cheap liveness check that contacts no
// provider.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	configured := 0
	for _, id := range domain.AllProviderIDs {
		if !id.Info().RequiresKey || h.cfg.Credential(id) != "" {
			configured++
		}
	}

	h.writeJSON(w, healthResponse{
		Status:             "healthy",
		Timestamp:          time.Now(),
		ServicesConfigured: configured,
	})
}

type statsResponse struct {
	StartTime   time.Time                                   `json:"start_time"`
	Uptime      string                                      `json:"uptime"`
	Total       int64                                       `json:"total_requests"`
	Successful  int64                                       `json:"successful_shortens"`
	Failed      int64                                       `json:"failed_shortens"`
	SuccessRate float64                                     `json:"success_rate"`
	APIStatus   map[domain.ProviderID]domain.ProviderHealth `json:"api_status"`
}

// Stats handles GET /api/stats: the counter snapshot with the last recorded
// health, without issuing fresh probes.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	snap := h.dispatcher.Stats()

	h.writeJSON(w, statsResponse{
		StartTime:   snap.StartTime,
		Uptime:      snap.Uptime.Round(time.Second).String(),
		Total:       snap.Total,
		Successful:  snap.Successful,
		Failed:      snap.Failed,
		SuccessRate: snap.SuccessRate(),
		APIStatus:   snap.APIStatus,
	})
}

// History handles GET /api/history?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.dispatcher.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to read history", zap.Error(err))
		http.Error(w, "failed to read history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	h.writeJSON(w, entries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
