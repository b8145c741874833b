package depreciation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-finance/atlas/internal/model"
)

func TestValidate_Derived(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	p := straight("12000", "2000", 5, time.Date(2024, 3, 15, 18, 30, 0, 0, loc))

	v, reason, err := Validate(p)
	require.NoError(t, err)
	assert.Equal(t, ReasonNone, reason)
	assert.True(t, v.Base.Equal(dec("10000")))
	assert.Equal(t, 5, v.Years)
	assert.Equal(t, 2024, v.StartYear)
	assert.Equal(t, 2, v.StartMonth)
	assert.Equal(t, date(2024, 3, 15), v.Params.StartDate)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Parameters)
		field  string
	}{
		{"negative cost", func(p *model.Parameters) { p.AcquisitionCost = dec("-1") }, "acquisition_cost"},
		{"negative residual", func(p *model.Parameters) { p.ResidualValue = dec("-0.01") }, "residual_value"},
		{"sub-cent cost", func(p *model.Parameters) { p.AcquisitionCost = dec("100.005") }, "acquisition_cost"},
		{"sub-cent residual", func(p *model.Parameters) { p.ResidualValue = dec("0.001") }, "residual_value"},
		{"residual above cost", func(p *model.Parameters) { p.ResidualValue = dec("12000.01") }, "residual_value"},
		{"negative life", func(p *model.Parameters) { p.UsefulLifeYears = -3 }, "useful_life_years"},
		{"negative rate", func(p *model.Parameters) { p.StatedRate = dec("-10") }, "stated_rate"},
		{"rate above 100", func(p *model.Parameters) { p.StatedRate = dec("100.5") }, "stated_rate"},
		{"unknown method", func(p *model.Parameters) { p.Method = "sum_of_years" }, "method"},
		{"empty method", func(p *model.Parameters) { p.Method = "" }, "method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := straight("12000", "0", 4, date(2024, 1, 1))
			tt.mutate(&p)

			_, err := Generate(p, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameters)
			assert.True(t, IsClientError(err))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_TrailingZerosAreCents(t *testing.T) {
	p := straight("100.000", "10.500", 1, date(2024, 1, 1))
	res, err := Generate(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"89.50"}, expenses(res.Lines))
}

func TestValidate_UnitsOfProduction(t *testing.T) {
	p := straight("12000", "0", 4, date(2024, 1, 1))
	p.Method = model.MethodUnitsOfProduction

	_, err := Generate(p, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.NotErrorIs(t, err, ErrInvalidParameters)
	assert.True(t, IsClientError(err))
}

func TestValidate_MissingStartChecksRangesFirst(t *testing.T) {
	p := straight("12000", "13000", 4, time.Time{})
	_, reason, err := Validate(p)
	require.Error(t, err)
	assert.Equal(t, ReasonNone, reason)
}

func TestParseStubPolicy(t *testing.T) {
	p, err := ParseStubPolicy("")
	require.NoError(t, err)
	assert.Equal(t, StubClosingComplement, p)

	p, err = ParseStubPolicy("prorated_stub")
	require.NoError(t, err)
	assert.Equal(t, StubProrated, p)

	_, err = ParseStubPolicy("monthly")
	assert.Error(t, err)
}
