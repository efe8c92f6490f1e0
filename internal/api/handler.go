package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	appconfig "bond-terminal/config"
	"bond-terminal/internal/app"
	"bond-terminal/models"
	"bond-terminal/services"

	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *appconfig.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *appconfig.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
	}

	gatewayStatus := "available"
	if !h.app.Gateway().IsAvailable(r.Context()) {
		gatewayStatus = "unavailable"
		status["status"] = "degraded"
	}
	status["gateway"] = gatewayStatus

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus
	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleInsight generates trading commentary for a bond
func (h *Handler) HandleInsight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bond models.Bond `json:"bond"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Bond.Ticker == "" {
		h.jsonError(w, "bond is required", http.StatusBadRequest)
		return
	}

	insight := h.app.Gateway().TraderInsight(r.Context(), req.Bond)
	h.jsonResponse(w, map[string]string{"insight": insight})
}

// HandleIssuerNews generates recent issuer-specific news items
func (h *Handler) HandleIssuerNews(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Issuer    string `json:"issuer"`
		Guarantor string `json:"guarantor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Issuer == "" {
		h.jsonError(w, "issuer is required", http.StatusBadRequest)
		return
	}

	news := h.app.Gateway().IssuerNews(r.Context(), req.Issuer, req.Guarantor)
	h.jsonResponse(w, map[string]interface{}{"news": news})
}

// HandleMacro summarizes macro strategy from the supplied news items
func (h *Handler) HandleMacro(w http.ResponseWriter, r *http.Request) {
	var req struct {
		News []models.NewsItem `json:"news"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	macro := h.app.Gateway().MacroSummary(r.Context(), req.News)
	h.jsonResponse(w, map[string]string{"macro": macro})
}

// HandleBackground generates an issuer introduction
func (h *Handler) HandleBackground(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Issuer    string `json:"issuer"`
		Guarantor string `json:"guarantor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Issuer == "" {
		h.jsonError(w, "issuer is required", http.StatusBadRequest)
		return
	}

	background := h.app.Gateway().IssuerBackground(r.Context(), req.Issuer, req.Guarantor)
	h.jsonResponse(w, map[string]string{"background": background})
}

// HandleFinancial extracts a normalized financial snapshot for an issuer
func (h *Handler) HandleFinancial(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Issuer string `json:"issuer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Issuer == "" {
		h.jsonError(w, "issuer is required", http.StatusBadRequest)
		return
	}

	analysis := h.app.Gateway().FinancialAnalysis(r.Context(), req.Issuer)
	h.jsonResponse(w, map[string]interface{}{"analysis": analysis})
}

// HandleWatchlist returns the watchlist with markup-adjusted quotes and tenor
func (h *Handler) HandleWatchlist(w http.ResponseWriter, r *http.Request) {
	markup := 0.0
	if raw := r.URL.Query().Get("markup"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			h.jsonError(w, "markup must be a non-negative number", http.StatusBadRequest)
			return
		}
		markup = parsed
	}

	rows, err := h.app.WatchlistRows(markup)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"bonds":  rows,
		"count":  len(rows),
		"markup": markup,
	})
}

// HandleHistory returns the simulated 12-month price series for a bond
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	points, stats, err := h.app.Coordinator().History(id)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"points": points,
		"stats":  stats,
	})
}

// HandleRates returns the session reference rates
func (h *Handler) HandleRates(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Coordinator().Rates())
}

// HandleNewsFeed returns the current news feed
func (h *Handler) HandleNewsFeed(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Coordinator().News())
}

// HandleState returns the selection-derived view state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Coordinator().State())
}

// HandleSelect makes a bond the current selection
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		h.jsonError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.app.Coordinator().Select(r.Context(), req.ID); err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	h.jsonResponse(w, map[string]string{"status": "selected", "id": req.ID})
}

// HandleDeselect clears the current selection
func (h *Handler) HandleDeselect(w http.ResponseWriter, r *http.Request) {
	h.app.Coordinator().Deselect()
	h.jsonResponse(w, map[string]string{"status": "deselected"})
}

// HandleMeta returns the site metadata
func (h *Handler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]string{
		"title":       h.cfg.Site.Title,
		"description": h.cfg.Site.Description,
	})
}

// jsonResponse writes a JSON response
func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// jsonError writes a generic JSON error body
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
