package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-finance/atlas/internal/model"
)

func TestPost_NewYear(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts("6813", "2845"))

	res, err := svc.Post([]model.Posting{posting("DOT-VEH-01-2024-01", "1500.00")})
	require.NoError(t, err)
	assert.Equal(t, []string{"DOT-VEH-01-2024-01"}, res.Posted)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, []string{filepath.Join("journal", "2024", "dotations.csv")}, res.Files)

	_, err = os.Stat(filepath.Join(dir, "journal", "2024", "dotations.csv"))
	require.NoError(t, err)

	legs, err := svc.ReadYear(2024)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.True(t, legs[0].Debit.Equal(dec("1500")))
	assert.True(t, legs[1].Credit.Equal(dec("1500")))
}

func TestPost_SplitsByYear(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	p2 := posting("DOT-VEH-01-2025-02", "3000.00")
	p2.Date = date(2025, 12, 31)

	res, err := svc.Post([]model.Posting{posting("DOT-VEH-01-2024-01", "1500.00"), p2})
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)

	legs, err := svc.ReadYear(2025)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "DOT-VEH-01-2025-02a", legs[0].EntryID)
}

func TestPost_Idempotent(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)
	postings := []model.Posting{posting("DOT-A1-2024-01", "10.00")}

	_, err := svc.Post(postings)
	require.NoError(t, err)

	res, err := svc.Post(postings)
	require.NoError(t, err)
	assert.Empty(t, res.Posted)
	assert.Equal(t, []string{"DOT-A1-2024-01"}, res.Skipped)
	assert.Empty(t, res.Files)

	legs, err := svc.ReadYear(2024)
	require.NoError(t, err)
	assert.Len(t, legs, 2)
}

func TestPost_AppendsToExisting(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	_, err := svc.Post([]model.Posting{posting("DOT-A1-2024-01", "10.00")})
	require.NoError(t, err)
	_, err = svc.Post([]model.Posting{posting("DOT-B2-2024-01", "20.00")})
	require.NoError(t, err)

	legs, err := svc.ReadYear(2024)
	require.NoError(t, err)
	require.Len(t, legs, 4)
	assert.Equal(t, "DOT-B2-2024-01a", legs[2].EntryID)
}

func TestPost_ValidationFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, newMockAccounts("6813"))

	_, err := svc.Post([]model.Posting{posting("DOT-A1-2024-01", "10.00")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = os.Stat(filepath.Join(dir, "journal", "2024", "dotations.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestPost_DistinctCodesBothPosted(t *testing.T) {
	svc := NewService(t.TempDir(), nil)
	refs := []string{"DOT-MAT-001-2024-01", "DOT-MAT001-2024-01", "DOT-a1-2024-01", "DOT-A1-2024-01"}

	var postings []model.Posting
	for _, ref := range refs {
		postings = append(postings, posting(ref, "10.00"))
	}
	res, err := svc.Post(postings)
	require.NoError(t, err)
	assert.Equal(t, refs, res.Posted)
	assert.Empty(t, res.Skipped)

	legs, err := svc.ReadYear(2024)
	require.NoError(t, err)
	assert.Len(t, legs, 2*len(refs))
}

func TestPost_ReferenceTakenByDifferentLegs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Posting)
	}{
		{"amount", func(p *model.Posting) { p.Amount = dec("11.00") }},
		{"debit account", func(p *model.Posting) { p.DebitAccount = "6812" }},
		{"credit account", func(p *model.Posting) { p.CreditAccount = "2844" }},
		{"date", func(p *model.Posting) { p.Date = date(2024, 6, 30) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(t.TempDir(), nil)
			_, err := svc.Post([]model.Posting{posting("DOT-A1-2024-01", "10.00")})
			require.NoError(t, err)

			p := posting("DOT-A1-2024-01", "10.00")
			tt.mutate(&p)
			res, err := svc.Post([]model.Posting{p})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "different legs")
			assert.Empty(t, res.Posted)

			legs, err := svc.ReadYear(2024)
			require.NoError(t, err)
			assert.Len(t, legs, 2)
		})
	}
}

func TestPost_RepeatedReferenceInInput(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	_, err := svc.Post([]model.Posting{
		posting("DOT-A1-2024-01", "10.00"),
		posting("DOT-A1-2024-01", "20.00"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appears twice")

	_, err = os.Stat(filepath.Join(dir, "journal", "2024", "dotations.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestPost_IdenticalDescriptionChangeSkipped(t *testing.T) {
	svc := NewService(t.TempDir(), nil)
	_, err := svc.Post([]model.Posting{posting("DOT-A1-2024-01", "10.00")})
	require.NoError(t, err)

	p := posting("DOT-A1-2024-01", "10")
	p.Description = "reworded"
	res, err := svc.Post([]model.Posting{p})
	require.NoError(t, err)
	assert.Equal(t, []string{"DOT-A1-2024-01"}, res.Skipped)
}

func TestReadYear_Missing(t *testing.T) {
	legs, err := NewService(t.TempDir(), nil).ReadYear(2030)
	require.NoError(t, err)
	assert.Nil(t, legs)
}
