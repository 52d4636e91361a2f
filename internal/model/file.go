package model

import (
	"path/filepath"
	"strings"
)

// TargetFile is a data file selected for processing.
type TargetFile struct {
	Path string `yaml:"path" json:"path"`
	Ext  string `yaml:"ext"  json:"ext"`
}

// NewTargetFile builds a TargetFile from a path, lower-casing the extension.
func NewTargetFile(path string) TargetFile {
	return TargetFile{Path: path, Ext: strings.ToLower(filepath.Ext(path))}
}

// Name returns the base name used in progress and report lines.
func (f TargetFile) Name() string {
	return filepath.Base(f.Path)
}
