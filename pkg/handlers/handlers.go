package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/internal/config"
	"github.com/jakechorley/shiftweek/pkg/core/roster"
	"github.com/jakechorley/shiftweek/pkg/core/services"
	"github.com/jakechorley/shiftweek/pkg/db"
)

// ScheduleStore defines the database operations needed by the HTTP layer
type ScheduleStore interface {
	InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, entries []db.ScheduleEntry) error
	GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error)
	GetScheduleEntries(ctx context.Context, runID string) ([]db.ScheduleEntry, error)
}

// Handler contains dependencies for the route handlers. Store may be nil
// when no database is configured; schedule generation still works but
// nothing is persisted and history is unavailable.
type Handler struct {
	Store  ScheduleStore
	Cfg    *config.Config
	Logger *zap.Logger
}

// Routes builds the gin engine with all routes and middleware attached
func (h *Handler) Routes() *gin.Engine {
	r := gin.New()
	r.Use(h.requestLogger(), gin.Recovery())

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/schedule", h.GenerateSchedule)
		api.POST("/validate", h.ValidatePreferences)
		api.GET("/history", h.History)
		api.GET("/history/:id", h.RunEntries)
	}

	return r
}

// requestLogger logs each request with method, path, status and latency
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.Logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Healthz reports liveness
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GenerateSchedule handles the JSON scheduling request. The request body
// is the raw preferences object; the response body is the canonical
// schedule JSON. Pass ?dry_run=true to skip persistence.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	raw, ok := h.decodePreferences(c)
	if !ok {
		return
	}

	dryRun := c.Query("dry_run") == "true"

	result, err := services.GenerateSchedule(c.Request.Context(), h.Store, h.Cfg, h.Logger, raw, dryRun)
	if err != nil {
		var verr *roster.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.Logger.Error("Failed to generate schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate schedule"})
		return
	}

	c.Header("X-Run-Id", result.RunID)
	c.Header("X-Week-Start", result.WeekStart.Format("2006-01-02"))
	c.Data(http.StatusOK, "application/json", result.ScheduleJSON)
}

// ValidatePreferences checks a raw preferences object without generating
// a schedule
func (h *Handler) ValidatePreferences(c *gin.Context) {
	raw, ok := h.decodePreferences(c)
	if !ok {
		return
	}

	table, err := roster.Normalize(raw)
	if err != nil {
		var verr *roster.ValidationError
		if errors.As(err, &verr) {
			body := gin.H{"valid": false, "error": verr.Message}
			if verr.Employee != "" {
				body["employee"] = verr.Employee
			}
			if verr.Day != "" {
				body["day"] = string(verr.Day)
			}
			c.JSON(http.StatusBadRequest, body)
			return
		}
		h.Logger.Error("Failed to validate preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":         true,
		"employeeCount": table.Len(),
	})
}

type historyEntry struct {
	RunID         string          `json:"runId"`
	WeekStart     string          `json:"weekStart"`
	EmployeeCount int             `json:"employeeCount"`
	Schedule      json.RawMessage `json:"schedule"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// History lists stored schedule runs, newest first
func (h *Handler) History(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	runs, err := services.ViewHistory(c.Request.Context(), h.Store, h.Logger)
	if err != nil {
		h.Logger.Error("Failed to fetch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, historyEntry{
			RunID:         run.ID,
			WeekStart:     run.WeekStart,
			EmployeeCount: run.EmployeeCount,
			Schedule:      json.RawMessage(run.Schedule),
			CreatedAt:     run.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"runs": entries})
}

type slotEntry struct {
	Day      string `json:"day"`
	Shift    string `json:"shift"`
	Slot     int    `json:"slot"`
	Employee string `json:"employee"`
}

// RunEntries lists the flattened assignment slots of one stored run
func (h *Handler) RunEntries(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	runID := c.Param("id")
	entries, err := services.ViewRunEntries(c.Request.Context(), h.Store, h.Logger, runID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.Logger.Error("Failed to fetch run entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run entries"})
		return
	}

	slots := make([]slotEntry, 0, len(entries))
	for _, e := range entries {
		slots = append(slots, slotEntry{Day: e.Day, Shift: e.Shift, Slot: e.Slot, Employee: e.Employee})
	}

	c.JSON(http.StatusOK, gin.H{"runId": runID, "entries": slots})
}

// decodePreferences reads and decodes the request body, writing the error
// response itself when decoding fails
func (h *Handler) decodePreferences(c *gin.Context) (*roster.RawPreferences, bool) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}

	var raw roster.RawPreferences
	if err := json.Unmarshal(data, &raw); err != nil {
		var verr *roster.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return nil, false
	}
	return &raw, true
}
