package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlas-finance/atlas/internal/id"
	"github.com/atlas-finance/atlas/internal/model"
)

// Dir is the journal directory relative to a repo root.
const Dir = "journal"

// Service writes dotation pre-fill entries into a repo's yearly journal files.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a journal Service. accounts may be nil.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// PostResult reports what Post wrote.
type PostResult struct {
	Posted  []string // references appended
	Skipped []string // references already in the journal
	Files   []string // files touched, relative to the repo root
}

// Post appends the postings' legs to journal/<year>/dotations.csv, one file
// per posting-date year. A posting whose legs are already in the journal is
// skipped, so re-running a batch is harmless. A reference that is already
// taken by different legs, or that repeats within postings, is an error.
// Nothing is written if any year fails.
func (s *Service) Post(postings []model.Posting) (PostResult, error) {
	var res PostResult

	seen := make(map[string]bool, len(postings))
	byYear := make(map[int][]model.Posting)
	for _, p := range postings {
		if seen[p.Reference] {
			return PostResult{}, fmt.Errorf("posting reference %s appears twice", p.Reference)
		}
		seen[p.Reference] = true
		byYear[p.Date.Year()] = append(byYear[p.Date.Year()], p)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	pending := make(map[int][]model.Leg, len(years))
	for _, year := range years {
		existing, err := s.ReadYear(year)
		if err != nil {
			return PostResult{}, err
		}
		known := make(map[string][]model.Leg, len(existing))
		for _, leg := range existing {
			group := id.EntryGroup(leg.EntryID)
			known[group] = append(known[group], leg)
		}

		var fresh []model.Posting
		for _, p := range byYear[year] {
			legs, ok := known[p.Reference]
			if !ok {
				fresh = append(fresh, p)
				continue
			}
			if !sameLegs(legs, p.Legs()) {
				return PostResult{}, fmt.Errorf("posting reference %s already in journal %d with different legs", p.Reference, year)
			}
			res.Skipped = append(res.Skipped, p.Reference)
		}
		if len(fresh) == 0 {
			continue
		}

		newLegs := PostingLegs(fresh)
		allLegs := append(existing, newLegs...)
		if verrs := ValidateLegs(allLegs, s.accounts); len(verrs) > 0 {
			msgs := make([]string, len(verrs))
			for i, ve := range verrs {
				msgs[i] = ve.Error()
			}
			return PostResult{}, fmt.Errorf("validation failed for %d: %s", year, strings.Join(msgs, "; "))
		}
		pending[year] = newLegs
		for _, p := range fresh {
			res.Posted = append(res.Posted, p.Reference)
		}
	}

	for _, year := range years {
		legs, ok := pending[year]
		if !ok {
			continue
		}
		if err := s.appendYear(year, legs); err != nil {
			return res, err
		}
		rel, _ := filepath.Rel(s.repoRoot, s.yearPath(year))
		res.Files = append(res.Files, rel)
	}
	return res, nil
}

// sameLegs compares the booked side of two leg sets, ignoring order and
// descriptions.
func sameLegs(have, want []model.Leg) bool {
	if len(have) != len(want) {
		return false
	}
	byID := make(map[string]model.Leg, len(have))
	for _, l := range have {
		byID[l.EntryID] = l
	}
	for _, w := range want {
		h, ok := byID[w.EntryID]
		if !ok ||
			h.AccountID != w.AccountID ||
			!h.Date.Equal(w.Date) ||
			!h.Debit.Equal(w.Debit) ||
			!h.Credit.Equal(w.Credit) {
			return false
		}
	}
	return true
}

// ReadYear reads all legs for a given year.
func (s *Service) ReadYear(year int) ([]model.Leg, error) {
	path := s.yearPath(year)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	legs, err := ReadLegs(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return legs, nil
}

func (s *Service) appendYear(year int, legs []model.Leg) error {
	journalPath := s.yearPath(year)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendLegs(f, legs); err != nil {
		return fmt.Errorf("appending legs: %w", err)
	}
	return nil
}

func (s *Service) yearPath(year int) string {
	return filepath.Join(s.repoRoot, Dir, fmt.Sprintf("%04d", year), "dotations.csv")
}
