package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPostingID(t *testing.T) {
	tests := []struct {
		asset        string
		year, period int
		want         string
	}{
		{"A001", 2024, 1, "DOT-A001-2024-01"},
		{"veh-12", 2030, 7, "DOT-veh-12-2030-07"},
		{"VEH-12", 2030, 7, "DOT-VEH-12-2030-07"},
		{"", 2024, 3, "DOT-2024-03"},
	}
	for _, tt := range tests {
		got := FormatPostingID(tt.asset, tt.year, tt.period)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatPostingID_DistinctCodes(t *testing.T) {
	codes := []string{"MAT-001", "MAT001", "a1", "A1", "A-1", "A--1", "A-1-2024"}
	seen := make(map[string]string, len(codes))
	for _, code := range codes {
		require.True(t, ValidAssetCode(code), code)
		ref := FormatPostingID(code, 2024, 1)
		if prev, dup := seen[ref]; dup {
			t.Fatalf("%q and %q both give %s", prev, code, ref)
		}
		seen[ref] = code

		got, year, period, err := ParsePostingID(ref)
		require.NoError(t, err)
		assert.Equal(t, code, got)
		assert.Equal(t, 2024, year)
		assert.Equal(t, 1, period)
	}
}

func TestValidAssetCode(t *testing.T) {
	for _, bad := range []string{"", "MAT/001", "PC 01", "é1", "A_1", "A.1"} {
		assert.False(t, ValidAssetCode(bad), bad)
	}
	assert.True(t, ValidAssetCode("VEH-01"))
}

func TestFormatLegID(t *testing.T) {
	tests := []struct {
		entryID string
		leg     int
		want    string
	}{
		{"DOT-A001-2024-01", 0, "DOT-A001-2024-01a"},
		{"DOT-A001-2024-01", 1, "DOT-A001-2024-01b"},
	}
	for _, tt := range tests {
		got := FormatLegID(tt.entryID, tt.leg)
		assert.Equal(t, tt.want, got)
	}
}

func TestParsePostingID(t *testing.T) {
	tests := []struct {
		input      string
		wantAsset  string
		wantYear   int
		wantPeriod int
	}{
		{"DOT-A001-2024-01", "A001", 2024, 1},
		{"DOT-VEH-12-2030-07", "VEH-12", 2030, 7},
		{"DOT-A001-2024-05b", "A001", 2024, 5},
	}
	for _, tt := range tests {
		asset, year, period, err := ParsePostingID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantAsset, asset)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantPeriod, period)
	}
}

func TestParsePostingID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"DOT-2024-01",
		"JNL-A001-2024-01",
		"DOT-A001-xxxx-01",
		"DOT-A001-2024-zz",
	}
	for _, input := range badInputs {
		_, _, _, err := ParsePostingID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestEntryGroup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"DOT-A001-2024-01a", "DOT-A001-2024-01"},
		{"DOT-A001-2024-01", "DOT-A001-2024-01"},
		{"", ""},
	}
	for _, tt := range tests {
		got := EntryGroup(tt.input)
		assert.Equal(t, tt.want, got)
	}
}
