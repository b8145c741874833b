package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlas-finance/atlas/internal/classification"
	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/export"
	"github.com/atlas-finance/atlas/internal/model"
)

func newTestServer(t *testing.T, defaults Defaults) *httptest.Server {
	t.Helper()
	classes := classification.NewService(classification.DefaultTable("syscohada"))
	logger := zap.NewNop()
	srv := httptest.NewServer(NewRouter(NewHandler(classes, defaults, logger), logger))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func expenses(dto export.ScheduleDTO) []string {
	out := make([]string, len(dto.Lines))
	for i, l := range dto.Lines {
		out[i] = l.Expense
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "UP", decode[HealthResponse](t, resp).Status)
}

func TestListClasses(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp, err := http.Get(srv.URL + "/api/classes")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[ClassListResponse](t, resp)
	require.Len(t, list.Classes, 10)
	assert.Equal(t, "2131", list.Classes[0].Code)
}

func TestGetClass(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp, err := http.Get(srv.URL + "/api/classes/2442")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	c := decode[export.ClassDTO](t, resp)
	assert.Equal(t, "declining_balance", c.Method)
	assert.Equal(t, "50", c.StatedRate)
	assert.Equal(t, 3, c.UsefulLifeYears)

	missing, err := http.Get(srv.URL + "/api/classes/9999")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateSchedule_ExplicitParameters(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp := postJSON(t, srv.URL+"/api/schedules", ScheduleRequest{
		AssetCode:       "VEH-01",
		AcquisitionCost: "12000",
		UsefulLifeYears: 4,
		Method:          "straight_line",
		StartDate:       "2024-07-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[export.ScheduleDTO](t, resp)
	assert.Equal(t, "schedule", dto.Kind)
	assert.Equal(t, []string{"1500.00", "3000.00", "3000.00", "4500.00"}, expenses(dto))
	assert.Equal(t, "12000.00", dto.Total)
	require.Len(t, dto.Postings, 4)
	assert.Equal(t, "DOT-VEH-01-2024-01", dto.Postings[0].Reference)
	assert.Equal(t, depreciation.DefaultAccounts.Expense, dto.Postings[0].DebitAccount)
}

func TestCreateSchedule_FromClass(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp := postJSON(t, srv.URL+"/api/schedules", ScheduleRequest{
		AssetCode: "PC-07",
		Class:     "2442",
		Cost:      &CostDTO{Purchase: "2400", Installation: "100"},
		StartDate: "2024-01-15",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[export.ScheduleDTO](t, resp)
	assert.Equal(t, "declining_balance", dto.Method)
	assert.Equal(t, "50", dto.Rate)
	assert.Equal(t, []string{"1250.00", "625.00", "625.00"}, expenses(dto))
	assert.Equal(t, "declining", dto.Lines[0].Regime)
	assert.Equal(t, "linear", dto.Lines[1].Regime)
	assert.Equal(t, "6813", dto.Postings[0].DebitAccount)
	assert.Equal(t, "2844", dto.Postings[0].CreditAccount)
}

func TestCreateSchedule_ProratedStub(t *testing.T) {
	srv := newTestServer(t, Defaults{StubPolicy: depreciation.StubProrated})

	resp := postJSON(t, srv.URL+"/api/schedules", ScheduleRequest{
		AcquisitionCost: "12000",
		Class:           "2451",
		StartDate:       "2024-07-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dto := decode[export.ScheduleDTO](t, resp)
	assert.Equal(t, []string{"1500.00", "3000.00", "3000.00", "3000.00", "1500.00"}, expenses(dto))

	// The request overrides the server default.
	resp = postJSON(t, srv.URL+"/api/schedules", ScheduleRequest{
		AcquisitionCost: "12000",
		Class:           "2451",
		StartDate:       "2024-07-01",
		StubPolicy:      "closing_complement",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[export.ScheduleDTO](t, resp).Lines, 4)
}

func TestCreateSchedule_DefaultMethod(t *testing.T) {
	srv := newTestServer(t, Defaults{Method: model.MethodStraightLine})

	resp := postJSON(t, srv.URL+"/api/schedules", ScheduleRequest{
		AcquisitionCost: "900",
		UsefulLifeYears: 3,
		StartDate:       "2024-01-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"300.00", "300.00", "300.00"}, expenses(decode[export.ScheduleDTO](t, resp)))
}

func TestCreateSchedule_Empty(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp := postJSON(t, srv.URL+"/api/schedules", ScheduleRequest{
		AssetCode:       "TER-01",
		Class:           "2211",
		AcquisitionCost: "25000000",
		StartDate:       "2023-01-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decode[export.ScheduleDTO](t, resp)
	assert.Equal(t, "empty", dto.Kind)
	assert.Equal(t, "non_depreciable", dto.Reason)
	assert.Empty(t, dto.Lines)
	assert.NotNil(t, dto.Lines)
	assert.Equal(t, "0.00", dto.Total)
}

func TestCreateSchedule_Errors(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	tests := []struct {
		name   string
		req    ScheduleRequest
		status int
		code   string
	}{
		{"negative cost", ScheduleRequest{AcquisitionCost: "-1", UsefulLifeYears: 3, Method: "straight_line", StartDate: "2024-01-01"}, http.StatusBadRequest, "acquisition_cost"},
		{"residual above cost", ScheduleRequest{AcquisitionCost: "100", ResidualValue: "200", UsefulLifeYears: 3, Method: "straight_line", StartDate: "2024-01-01"}, http.StatusBadRequest, "residual_value"},
		{"sub-cent cost", ScheduleRequest{AcquisitionCost: "100.005", UsefulLifeYears: 1, Method: "straight_line", StartDate: "2024-01-01"}, http.StatusBadRequest, "acquisition_cost"},
		{"bad asset code", ScheduleRequest{AssetCode: "MAT/001", AcquisitionCost: "100", UsefulLifeYears: 1, Method: "straight_line", StartDate: "2024-01-01"}, http.StatusBadRequest, "asset_code"},
		{"bad amount", ScheduleRequest{AcquisitionCost: "1 000", Method: "straight_line"}, http.StatusBadRequest, "acquisition_cost"},
		{"bad method", ScheduleRequest{AcquisitionCost: "100", Method: "sum_of_digits"}, http.StatusBadRequest, "method"},
		{"missing method", ScheduleRequest{AcquisitionCost: "100", UsefulLifeYears: 3}, http.StatusBadRequest, "method"},
		{"unsupported method", ScheduleRequest{AcquisitionCost: "100", UsefulLifeYears: 3, Method: "units_of_production"}, http.StatusBadRequest, "method"},
		{"bad date", ScheduleRequest{AcquisitionCost: "100", Method: "straight_line", StartDate: "01/07/2024"}, http.StatusBadRequest, "start_date"},
		{"bad stub policy", ScheduleRequest{AcquisitionCost: "100", UsefulLifeYears: 3, Method: "straight_line", StartDate: "2024-01-01", StubPolicy: "monthly"}, http.StatusBadRequest, "stub_policy"},
		{"unknown class", ScheduleRequest{AcquisitionCost: "100", Class: "9999"}, http.StatusNotFound, "class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/schedules", tt.req)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestCreateSchedule_InvalidBody(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp, err := http.Post(srv.URL+"/api/schedules", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func newTestHandler() *Handler {
	return NewHandler(classification.NewService(classification.DefaultTable("syscohada")), Defaults{}, zap.NewNop())
}

func TestCreateSchedule_BodyTooLarge(t *testing.T) {
	body := `{"asset_code":"` + strings.Repeat("A", maxScheduleBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedules", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestHandler().CreateSchedule(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateBatch_Limits(t *testing.T) {
	body := `{"assets":[{"asset_code":"` + strings.Repeat("A", maxBatchBytes) + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestHandler().CreateBatch(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	srv := newTestServer(t, Defaults{})
	assets := make([]ScheduleRequest, maxBatch+1)
	for i := range assets {
		assets[i] = ScheduleRequest{AcquisitionCost: "100"}
	}
	tooMany := postJSON(t, srv.URL+"/api/schedules/batch", BatchRequest{Assets: assets})
	assert.Equal(t, http.StatusRequestEntityTooLarge, tooMany.StatusCode)
	assert.Equal(t, "Too many assets", decode[ErrorResponse](t, tooMany).Error)
}

func TestCreateBatch(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	resp := postJSON(t, srv.URL+"/api/schedules/batch", BatchRequest{Assets: []ScheduleRequest{
		{AssetCode: "VEH-01", Class: "2451", AcquisitionCost: "12000", StartDate: "2024-07-01"},
		{AssetCode: "BAD-01", Class: "0000", AcquisitionCost: "12000"},
		{AssetCode: "PC-07", Class: "2442", AcquisitionCost: "2500", StartDate: "2024-01-15"},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	batch := decode[BatchResponse](t, resp)
	require.Len(t, batch.Schedules, 3)
	require.NotNil(t, batch.Schedules[0].Schedule)
	assert.Equal(t, "VEH-01", batch.Schedules[0].Schedule.AssetCode)
	require.NotNil(t, batch.Schedules[1].Error)
	assert.Equal(t, "class", batch.Schedules[1].Error.Code)
	require.NotNil(t, batch.Schedules[2].Schedule)
	assert.Equal(t, "14500.00", batch.Total)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Defaults{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/schedules", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
