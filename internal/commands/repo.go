package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/atlas-finance/atlas/internal/classification"
	"github.com/atlas-finance/atlas/internal/config"
)

// repo is an atlas project directory. Both files are optional: a bare
// directory gets the default config and the built-in SYSCOHADA table.
type repo struct {
	root    string
	cfg     *config.Config
	classes *classification.Service
}

func openRepo(dir string) (*repo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default("", "")
	case err != nil:
		return nil, err
	}

	file := cfg.Classification.File
	if file == "" {
		file = classification.DefaultFile
	}
	classes, err := classification.LoadFile(filepath.Join(root, file))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		classes = classification.NewService(classification.DefaultTable("syscohada"))
	case err != nil:
		return nil, err
	}

	return &repo{root: root, cfg: cfg, classes: classes}, nil
}
