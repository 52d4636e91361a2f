package batch

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/model"
)

// Selection is the outcome of turning chooser paths into target files.
type Selection struct {
	Files      []model.TargetFile `yaml:"files" json:"files"`
	Skipped    []string           `yaml:"skipped,omitempty" json:"skipped,omitempty"`       // unsupported extension
	Missing    []string           `yaml:"missing,omitempty" json:"missing,omitempty"`       // stat failed
	Duplicates []string           `yaml:"duplicates,omitempty" json:"duplicates,omitempty"` // already selected
	Truncated  int                `yaml:"truncated,omitempty" json:"truncated,omitempty"`   // dropped by the session cap
}

// Select expands paths into target files in the order given. A directory
// contributes its direct children with an allowed extension, sorted by name.
// Files with other extensions are never selected. When cfg.MaxPerSession is
// positive the list is cut to that many files.
func Select(paths []string, cfg config.FilesConfig, logger *log.Logger) Selection {
	var sel Selection
	seen := make(map[string]bool)

	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
			path = abs
		}
		if seen[key] {
			logger.Info("skipping duplicate", "file", filepath.Base(path))
			sel.Duplicates = append(sel.Duplicates, path)
			return
		}
		seen[key] = true
		sel.Files = append(sel.Files, model.NewTargetFile(path))
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Warn("path not found", "path", p, "err", err)
			sel.Missing = append(sel.Missing, p)
			continue
		}
		if !info.IsDir() {
			if !cfg.Allowed(filepath.Ext(p)) {
				logger.Warn("unsupported file type, skipping", "file", filepath.Base(p), "allowed", cfg.Extensions)
				sel.Skipped = append(sel.Skipped, p)
				continue
			}
			add(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			logger.Warn("cannot read directory", "dir", p, "err", err)
			sel.Missing = append(sel.Missing, p)
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		n := 0
		for _, e := range entries {
			if !e.Type().IsRegular() || !cfg.Allowed(filepath.Ext(e.Name())) {
				continue
			}
			add(filepath.Join(p, e.Name()))
			n++
		}
		logger.Info("scanned directory", "dir", p, "files", n)
	}

	if limit := cfg.MaxPerSession; limit > 0 && len(sel.Files) > limit {
		logger.Warn("file count exceeds session limit, processing the first files only", "limit", limit, "selected", len(sel.Files))
		sel.Truncated = len(sel.Files) - limit
		sel.Files = sel.Files[:limit]
	}
	return sel
}
