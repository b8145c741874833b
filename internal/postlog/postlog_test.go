package postlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		Command:    "schedule",
		Posted:     []string{"DOT-VEH-01-2024-01", "DOT-VEH-01-2025-02"},
		Skipped:    1,
		Files:      []string{"journal/2024/dotations.csv", "journal/2025/dotations.csv"},
		CommitHash: "abc1234",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])

	data, err := os.ReadFile(filepath.Join(dir, File))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n"))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Command = "batch"
	e2.Posted = nil
	e2.Files = nil
	e2.CommitHash = ""
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "schedule", entries[0].Command)
	assert.Equal(t, "batch", entries[1].Command)
	assert.Empty(t, entries[1].Posted)

	data, err := os.ReadFile(filepath.Join(dir, File))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"short row", []string{"2025-01-15T10:30:00Z"}},
		{"bad timestamp", []string{"yesterday", "batch", "", "0", "", ""}},
		{"bad skipped", []string{"2025-01-15T10:30:00Z", "batch", "", "none", "", ""}},
	}
	for _, tt := range tests {
		_, err := UnmarshalEntry(tt.row)
		assert.Error(t, err, tt.name)
	}
}

func TestReadEntries_FieldCount(t *testing.T) {
	_, err := ReadEntries(strings.NewReader(Header + "\n2025-01-15T10:30:00Z,batch\n"))
	assert.Error(t, err)
}
