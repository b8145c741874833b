// Package register reads fixed-asset registers into model.Assets.
package register

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlas-finance/atlas/internal/model"
)

// Register layouts understood by DefaultRegistry.
const (
	FormatAtlas  = "atlas"
	FormatLedger = "ledger"
)

// Parser converts one register layout into Assets.
type Parser interface {
	Parse(r io.Reader) ([]model.Asset, error)
	Format() string
}

// Registry maps layout names to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// DefaultRegistry knows the atlas and ledger layouts.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&AtlasParser{})
	r.Register(&LedgerParser{})
	return r
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Formats lists the registered layout names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the parser for format.
func (r *Registry) Lookup(format string) (Parser, error) {
	p, ok := r.parsers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown register format %q (known: %s)", format, strings.Join(r.Formats(), ", "))
	}
	return p, nil
}

// ReadFile parses the register at path. An empty format is detected from
// the header line.
func (r *Registry) ReadFile(path, format string) ([]model.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening register: %w", err)
	}
	if format == "" {
		format = Detect(data)
	}
	p, err := r.Lookup(format)
	if err != nil {
		return nil, err
	}

	assets, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return assets, nil
}

// Detect guesses the layout from the first line: spreadsheet exports with a
// French locale separate fields with semicolons.
func Detect(data []byte) string {
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return FormatLedger
	}
	return FormatAtlas
}

// ErrAlreadyProcessed is returned by Archive when the processed directory
// already holds a file of the same name.
var ErrAlreadyProcessed = errors.New("register already processed")

// Inbox is the import/ directory of a repo: registers wait there until their
// postings reach the journal, then move to import/processed/.
type Inbox struct {
	Root string // repo root
}

func (in Inbox) dir() string       { return filepath.Join(in.Root, "import") }
func (in Inbox) processed() string { return filepath.Join(in.Root, "import", "processed") }

// Pending returns the paths of the CSV files waiting in the inbox, sorted by
// name. A missing inbox is empty.
func (in Inbox) Pending() ([]string, error) {
	entries, err := os.ReadDir(in.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(in.dir(), e.Name()))
	}
	return paths, nil
}

// Archive moves a pending register to import/processed/. It never
// overwrites an archived file.
func (in Inbox) Archive(path string) error {
	name := filepath.Base(path)
	if err := os.MkdirAll(in.processed(), 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(in.processed(), name)
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyProcessed, name)
	}
	if err := os.Rename(filepath.Join(in.dir(), name), dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return nil
}
