package id

import (
	"fmt"
	"strconv"
	"strings"
)

// postingPrefix marks dotation entries in the journal.
const postingPrefix = "DOT"

// FormatPostingID returns a posting reference like "DOT-A001-2024-01". The
// code is kept verbatim, so distinct valid codes give distinct references. An
// empty code yields "DOT-2024-01", which ParsePostingID rejects.
func FormatPostingID(assetCode string, year, period int) string {
	if assetCode == "" {
		return fmt.Sprintf("%s-%04d-%02d", postingPrefix, year, period)
	}
	return fmt.Sprintf("%s-%s-%04d-%02d", postingPrefix, assetCode, year, period)
}

// ValidAssetCode reports whether code can be stamped into a posting
// reference: non-empty, letters, digits and dashes only.
func ValidAssetCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}

// FormatLegID returns a leg ID like "DOT-A001-2024-01a" (leg 0='a', 1='b', etc.).
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// ParsePostingID parses "DOT-A001-2024-01" into asset code, year and period.
// A trailing leg suffix is ignored.
func ParsePostingID(ref string) (assetCode string, year, period int, err error) {
	base := EntryGroup(ref)

	parts := strings.Split(base, "-")
	if len(parts) < 4 || parts[0] != postingPrefix {
		return "", 0, 0, fmt.Errorf("invalid posting ID format: %q", ref)
	}

	n := len(parts)
	year, err = strconv.Atoi(parts[n-2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in posting ID %q: %w", ref, err)
	}

	period, err = strconv.Atoi(parts[n-1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid period in posting ID %q: %w", ref, err)
	}

	return strings.Join(parts[1:n-2], "-"), year, period, nil
}

// EntryGroup strips the leg suffix from a leg ID.
// "DOT-A001-2024-01a" -> "DOT-A001-2024-01"
func EntryGroup(legID string) string {
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
