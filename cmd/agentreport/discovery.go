package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md, .markdown or .json extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// ReportFile represents a single report to render.
type ReportFile struct {
	InputPath  string
	OutputPath string
}

// renderableExtension reports whether path carries a supported extension.
func renderableExtension(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".markdown", ".json":
		return true
	}
	return false
}

// discoverFiles finds all reports to render. A file input must carry a
// supported extension; a directory is walked recursively.
func discoverFiles(inputPath, outputDir string) ([]ReportFile, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !renderableExtension(inputPath) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []ReportFile{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []ReportFile
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !renderableExtension(path) {
			return nil
		}
		files = append(files, ReportFile{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
		})
		return nil
	})

	return files, err
}

// resolveOutputPath maps an input file to its .html output. With an
// output directory, the input's position relative to baseDir is kept so
// nested trees mirror into the output.
func resolveOutputPath(inputPath, outputDir, baseDir string) string {
	htmlName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".html"

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), htmlName)
	}

	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, inputPath); err == nil {
			relDir := filepath.Dir(rel)
			if relDir != "." {
				return filepath.Join(outputDir, relDir, htmlName)
			}
		}
	}
	return filepath.Join(outputDir, htmlName)
}
