package classification

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/model"
)

// ErrUnknownClass is returned when a category code is not in the table.
var ErrUnknownClass = errors.New("unknown asset class")

// DefaultFile is the classification table's path relative to a repo root.
var DefaultFile = filepath.Join("accounts", "asset-classes.csv")

// Lookup resolves a category code to its asset class.
type Lookup interface {
	Get(code string) (model.AssetClass, bool)
}

// Service provides in-memory lookup over the asset classes. It is read-only
// after construction and safe for concurrent use.
type Service struct {
	classes []model.AssetClass
	byCode  map[string]model.AssetClass
}

// NewService creates a Service from a slice of classes. Later duplicates win.
func NewService(classes []model.AssetClass) *Service {
	byCode := make(map[string]model.AssetClass, len(classes))
	for _, c := range classes {
		byCode[c.Code] = c
	}
	return &Service{classes: classes, byCode: byCode}
}

// Load reads the classification table from a repo root.
func Load(repoRoot string) (*Service, error) {
	return LoadFile(filepath.Join(repoRoot, DefaultFile))
}

// LoadFile reads a classification table from path.
func LoadFile(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening asset classes: %w", err)
	}
	defer f.Close()

	classes, err := ReadClasses(f)
	if err != nil {
		return nil, fmt.Errorf("reading asset classes: %w", err)
	}
	return NewService(classes), nil
}

// All returns all classes sorted by code.
func (s *Service) All() []model.AssetClass {
	out := make([]model.AssetClass, len(s.classes))
	copy(out, s.classes)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Get returns a class by code.
func (s *Service) Get(code string) (model.AssetClass, bool) {
	c, ok := s.byCode[code]
	return c, ok
}

// Exists reports whether a class code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// HasAccount reports whether code is one of the table's ledger accounts or a
// class-level prefix of one ("681" covers "6813").
func (s *Service) HasAccount(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range s.classes {
		for _, acct := range []string{c.AssetAccount, c.AccumulatedAccount, c.ExpenseAccount} {
			if strings.HasPrefix(acct, code) {
				return true
			}
		}
	}
	return false
}

// Save writes the table to <repoRoot>/accounts/asset-classes.csv.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, DefaultFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating asset classes file: %w", err)
	}
	defer f.Close()

	if err := WriteClasses(f, s.classes); err != nil {
		return fmt.Errorf("writing asset classes: %w", err)
	}
	return nil
}

// Apply fills the parameters a caller left unset from the class: useful
// life, method and stated rate. Explicit values are kept.
func Apply(c model.AssetClass, p model.Parameters) model.Parameters {
	if p.UsefulLifeYears == 0 {
		p.UsefulLifeYears = c.UsefulLifeYears
	}
	if p.Method == "" {
		p.Method = c.Method
	}
	if p.StatedRate.IsZero() {
		p.StatedRate = c.StatedRate
	}
	return p
}

// Accounts returns the posting accounts for assets of class c.
func Accounts(c model.AssetClass) depreciation.PostingAccounts {
	return depreciation.PostingAccounts{
		Expense:     c.ExpenseAccount,
		Accumulated: c.AccumulatedAccount,
	}
}

// Resolve looks code up and applies the class to p. An empty code returns p
// unchanged with default accounts.
func Resolve(l Lookup, code string, p model.Parameters) (model.Parameters, depreciation.PostingAccounts, error) {
	if code == "" {
		return p, depreciation.PostingAccounts{}, nil
	}
	c, ok := l.Get(code)
	if !ok {
		return p, depreciation.PostingAccounts{}, fmt.Errorf("%w: %s", ErrUnknownClass, code)
	}
	return Apply(c, p), Accounts(c), nil
}
