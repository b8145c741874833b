package api

import (
	"time"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/export"
	"github.com/atlas-finance/atlas/internal/model"
)

// CostDTO is an itemized acquisition cost.
type CostDTO struct {
	Purchase     string `json:"purchase"`
	Transport    string `json:"transport,omitempty"`
	Installation string `json:"installation,omitempty"`
	Other        string `json:"other,omitempty"`
}

// ScheduleRequest is the body of POST /api/schedules. Either
// acquisition_cost or cost is given; empty fields fall back to the class.
type ScheduleRequest struct {
	AssetCode       string   `json:"asset_code,omitempty"`
	Class           string   `json:"class,omitempty"`
	AcquisitionCost string   `json:"acquisition_cost,omitempty"`
	Cost            *CostDTO `json:"cost,omitempty"`
	ResidualValue   string   `json:"residual_value,omitempty"`
	UsefulLifeYears int      `json:"useful_life_years,omitempty"`
	Method          string   `json:"method,omitempty"`
	StatedRate      string   `json:"stated_rate,omitempty"`
	StartDate       string   `json:"start_date,omitempty"`
	StubPolicy      string   `json:"stub_policy,omitempty"`
}

// BatchRequest is the body of POST /api/schedules/batch.
type BatchRequest struct {
	Assets []ScheduleRequest `json:"assets"`
}

// BatchResponse pairs each requested asset with its schedule or error.
type BatchResponse struct {
	Schedules []BatchItem `json:"schedules"`
	Total     string      `json:"total"`
}

// BatchItem is one asset of a batch.
type BatchItem struct {
	Schedule *export.ScheduleDTO `json:"schedule,omitempty"`
	Error    *ErrorResponse      `json:"error,omitempty"`
}

// ClassListResponse wraps the classification table.
type ClassListResponse struct {
	Classes []export.ClassDTO `json:"classes"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Parameters converts the request into engine parameters, without class
// defaults.
func (req ScheduleRequest) Parameters() (model.Parameters, error) {
	var p model.Parameters
	var err error

	if req.Cost != nil {
		var c model.CostBreakdown
		if c.Purchase, err = export.ParseAmount("cost.purchase", req.Cost.Purchase); err != nil {
			return p, err
		}
		if c.Transport, err = export.ParseAmount("cost.transport", req.Cost.Transport); err != nil {
			return p, err
		}
		if c.Installation, err = export.ParseAmount("cost.installation", req.Cost.Installation); err != nil {
			return p, err
		}
		if c.Other, err = export.ParseAmount("cost.other", req.Cost.Other); err != nil {
			return p, err
		}
		p.AcquisitionCost = c.Total()
	} else if p.AcquisitionCost, err = export.ParseAmount("acquisition_cost", req.AcquisitionCost); err != nil {
		return p, err
	}

	if p.ResidualValue, err = export.ParseAmount("residual_value", req.ResidualValue); err != nil {
		return p, err
	}
	if p.StatedRate, err = export.ParseAmount("stated_rate", req.StatedRate); err != nil {
		return p, err
	}
	p.UsefulLifeYears = req.UsefulLifeYears

	if req.Method != "" {
		m, err := model.ParseMethod(req.Method)
		if err != nil {
			return p, &depreciation.ValidationError{Field: "method", Reason: err.Error()}
		}
		p.Method = m
	}

	if req.StartDate != "" {
		start, err := time.Parse(model.DateFormat, req.StartDate)
		if err != nil {
			return p, &depreciation.ValidationError{Field: "start_date", Reason: "expected YYYY-MM-DD"}
		}
		p.StartDate = start
	}
	return p, nil
}
