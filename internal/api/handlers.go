package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atlas-finance/atlas/internal/buildinfo"
	"github.com/atlas-finance/atlas/internal/classification"
	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/export"
	"github.com/atlas-finance/atlas/internal/model"
)

// maxBatch bounds POST /api/schedules/batch.
const maxBatch = 1000

// Request body limits.
const (
	maxScheduleBytes = 64 << 10
	maxBatchBytes    = 4 << 20
)

// Defaults fill what neither the request nor the asset class sets.
type Defaults struct {
	Method     model.Method
	StubPolicy depreciation.StubPolicy
}

// Handler serves the schedule API. It keeps no per-request state.
type Handler struct {
	classes  *classification.Service
	defaults Defaults
	logger   *zap.Logger
}

// NewHandler creates a Handler over a classification table.
func NewHandler(classes *classification.Service, defaults Defaults, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{classes: classes, defaults: defaults, logger: logger}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP", Version: buildinfo.Version})
}

// ListClasses returns the classification table.
func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	all := h.classes.All()
	resp := ClassListResponse{Classes: make([]export.ClassDTO, 0, len(all))}
	for _, c := range all {
		resp.Classes = append(resp.Classes, export.NewClass(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetClass returns one asset class.
func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	c, ok := h.classes.Get(code)
	if !ok {
		writeError(w, http.StatusNotFound, "Asset class not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, export.NewClass(c))
}

// CreateSchedule computes a schedule for one asset.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if !decodeBody(w, r, maxScheduleBytes, &req) {
		return
	}

	dto, err := h.schedule(req)
	if err != nil {
		status, resp := h.errorResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreateBatch computes schedules for several assets. A failing asset does not
// fail the batch; its error is reported in place.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, maxBatchBytes, &req) {
		return
	}
	if len(req.Assets) > maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, "Too many assets", nil)
		return
	}

	resp := BatchResponse{Schedules: make([]BatchItem, 0, len(req.Assets))}
	total := decimal.Zero
	for _, a := range req.Assets {
		dto, err := h.schedule(a)
		if err != nil {
			_, e := h.errorResponse(err)
			resp.Schedules = append(resp.Schedules, BatchItem{Error: &e})
			continue
		}
		t, _ := decimal.NewFromString(dto.Total)
		total = total.Add(t)
		resp.Schedules = append(resp.Schedules, BatchItem{Schedule: &dto})
	}
	resp.Total = total.StringFixed(2)
	writeJSON(w, http.StatusOK, resp)
}

// decodeBody reads at most limit bytes of JSON into v and writes the error
// response itself when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *Handler) schedule(req ScheduleRequest) (export.ScheduleDTO, error) {
	params, err := req.Parameters()
	if err != nil {
		return export.ScheduleDTO{}, err
	}

	params, accounts, err := classification.Resolve(h.classes, req.Class, params)
	if err != nil {
		return export.ScheduleDTO{}, err
	}
	if params.Method == "" {
		params.Method = h.defaults.Method
	}

	policy := depreciation.StubPolicy(req.StubPolicy)
	if policy == "" {
		policy = h.defaults.StubPolicy
	}

	res, err := depreciation.Generate(params, depreciation.Options{
		StubPolicy: policy,
		AssetCode:  req.AssetCode,
		Accounts:   accounts,
	})
	if err != nil {
		return export.ScheduleDTO{}, err
	}

	h.logger.Debug("schedule computed",
		zap.String("asset", req.AssetCode),
		zap.String("class", req.Class),
		zap.String("kind", string(res.Kind)),
		zap.Int("periods", len(res.Lines)),
	)
	return export.NewSchedule(req.AssetCode, res), nil
}

func (h *Handler) errorResponse(err error) (int, ErrorResponse) {
	var verr *depreciation.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid parameters", Code: verr.Field, Details: verr.Reason}
	case errors.Is(err, depreciation.ErrUnsupportedMethod):
		return http.StatusBadRequest, ErrorResponse{Error: "Unsupported method", Code: "method", Details: err.Error()}
	case errors.Is(err, classification.ErrUnknownClass):
		return http.StatusNotFound, ErrorResponse{Error: "Asset class not found", Code: "class", Details: err.Error()}
	default:
		h.logger.Error("schedule failed", zap.Error(err))
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
