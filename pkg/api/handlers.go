package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/services"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/solver"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/workbook"
)

const defaultRunsLimit = 20

// SolveRequest is a scheduling config plus optional search limits.
// Limits above the server's budget are clamped to it.
type SolveRequest struct {
	model.SchedulingConfig
	MaxNodes    int64 `json:"max_nodes,omitempty"`
	TimeLimitMS int64 `json:"time_limit_ms,omitempty"`
}

// UnmarshalJSON decodes the config and the limits separately since the embedded
// config's own UnmarshalJSON would otherwise swallow the whole document
func (r *SolveRequest) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.SchedulingConfig); err != nil {
		return err
	}

	var limits struct {
		MaxNodes    int64 `json:"max_nodes"`
		TimeLimitMS int64 `json:"time_limit_ms"`
	}
	if err := json.Unmarshal(data, &limits); err != nil {
		return err
	}
	r.MaxNodes, r.TimeLimitMS = limits.MaxNodes, limits.TimeLimitMS
	return nil
}

// Solve handles POST /api/v1/solve
func (h *Handler) Solve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	budget := h.budgetFor(req.MaxNodes, req.TimeLimitMS)
	out, err := services.Solve(c.Request.Context(), h.store, h.sink, h.logger, &req.SchedulingConfig, budget)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Report)
}

// SolveWorkbook handles POST /api/v1/solve/xlsx with a multipart "workbook" file
// holding Employees and Shifts sheets. Limits come from the max_nodes and
// time_limit_ms query parameters.
func (h *Handler) SolveWorkbook(c *gin.Context) {
	maxNodes, ok := queryLimit(c, "max_nodes")
	if !ok {
		return
	}
	timeLimitMS, ok := queryLimit(c, "time_limit_ms")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	header, err := c.FormFile("workbook")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "workbook exceeds the upload limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "workbook file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open workbook"})
		return
	}
	defer file.Close()

	cfg, err := workbook.ReadXLSXFrom(file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out, err := services.Solve(c.Request.Context(), h.store, h.sink, h.logger, cfg, h.budgetFor(maxNodes, timeLimitMS))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Report)
}

// Validate handles POST /api/v1/validate. Invalid input answers 400 with the full report.
func (h *Handler) Validate(c *gin.Context) {
	var cfg model.SchedulingConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.writeBindError(c, err)
		return
	}

	rep := services.ValidateInput(&cfg)
	status := http.StatusOK
	if !rep.Valid {
		status = http.StatusBadRequest
	}
	c.JSON(status, rep)
}

// ListRuns handles GET /api/v1/runs?limit=n
func (h *Handler) ListRuns(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	limit := defaultRunsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := services.ListRuns(c.Request.Context(), h.store, h.logger, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun handles GET /api/v1/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	detail, err := services.GetRun(c.Request.Context(), h.store, h.logger, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run":         detail.Run,
		"assignments": detail.Assignment(),
		"shortages":   detail.Shortage(),
	})
}

func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is not configured"})
		return false
	}
	return true
}

// queryLimit reads an optional non-negative integer query parameter, answering 400 when malformed
func queryLimit(c *gin.Context, name string) (int64, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

// budgetFor lowers the server budget to the requested limits
func (h *Handler) budgetFor(maxNodes, timeLimitMS int64) solver.Budget {
	b := h.budget
	if maxNodes > 0 && (b.MaxNodes <= 0 || maxNodes < b.MaxNodes) {
		b.MaxNodes = maxNodes
	}
	if limit := time.Duration(timeLimitMS) * time.Millisecond; limit > 0 && (b.TimeLimit <= 0 || limit < b.TimeLimit) {
		b.TimeLimit = limit
	}
	return b
}

// writeBindError reports a body that could not be decoded, keeping the issues of a
// ValidationError raised while decoding
func (h *Handler) writeBindError(c *gin.Context, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "issues": verr.Issues})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "issues": verr.Issues})
	case errors.Is(err, db.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
