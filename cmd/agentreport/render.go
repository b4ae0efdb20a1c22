package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	agentreport "github.com/alnah/go-agentreport"
	"github.com/alnah/go-agentreport/internal/assets"
	"github.com/alnah/go-agentreport/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write HTML file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// settleTimeout bounds the post-render settle phase: transformation
// passes plus pending image resolutions.
const settleTimeout = 2 * time.Minute

// run orchestrates the rendering process.
func run(args []string, flags *cliFlags) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	mergeFlags(flags, cfg)

	inputPath, err := resolveInputPath(args, cfg)
	if err != nil {
		return err
	}
	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		if !flags.quiet {
			fmt.Fprintln(os.Stderr, "No reports found.")
		}
		return nil
	}

	poolSize := agentreport.ResolvePoolSize(cfg.Render.Workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}

	var poolOpts []agentreport.RendererOption
	if cfg.Render.Timeout > 0 {
		poolOpts = append(poolOpts, agentreport.WithRenderTimeout(cfg.Render.Timeout))
	}
	pool := agentreport.NewRendererPool(poolSize, poolOpts...)

	css, err := resolveStyle(flags)
	if err != nil {
		return err
	}

	results := renderBatch(context.Background(), pool, files, watcherOptions(cfg, flags), css)
	return report(results, flags)
}

// mergeFlags folds CLI flags into the config; CLI wins.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}
	if flags.timeout > 0 {
		cfg.Render.Timeout = flags.timeout
	}
	if flags.imageEndpoint != "" {
		cfg.ImageSearch.Endpoint = flags.imageEndpoint
	}
	if flags.searchTimeout > 0 {
		cfg.ImageSearch.Timeout = flags.searchTimeout
	}
}

// resolveInputPath picks the input from positional args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", fmt.Errorf("%w: pass a file or directory, or set input.defaultDir", ErrNoInput)
}

// watcherOptions assembles the per-document watcher options from config.
func watcherOptions(cfg *config.Config, flags *cliFlags) []agentreport.WatcherOption {
	logLevel := slog.LevelWarn
	if flags.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	opts := []agentreport.WatcherOption{agentreport.WithLogger(logger)}
	if cfg.Watch.PollInterval > 0 {
		opts = append(opts, agentreport.WithPollInterval(cfg.Watch.PollInterval))
	}
	if cfg.ImageSearch.Endpoint != "" {
		opts = append(opts, agentreport.WithImageSearcher(agentreport.NewHTTPImageSearcher(cfg.ImageSearch.Endpoint)))
	}
	if cfg.ImageSearch.Timeout > 0 {
		opts = append(opts, agentreport.WithSearchTimeout(cfg.ImageSearch.Timeout))
	}
	return opts
}

// resolveStyle picks the page CSS: none, a custom file, a named embedded
// style, or the built-in default.
func resolveStyle(flags *cliFlags) (string, error) {
	switch {
	case flags.noStyle:
		return "", nil
	case strings.HasSuffix(flags.style, ".css"):
		return assets.LoadStyleFile(flags.style)
	case flags.style != "":
		return assets.LoadStyle(flags.style)
	}
	return assets.LoadStyle(assets.DefaultStyle)
}

// renderFile renders one report end to end: read, render, host, settle,
// write.
func renderFile(ctx context.Context, r *agentreport.Renderer, file ReportFile, watchOpts []agentreport.WatcherOption, css string) error {
	data, err := os.ReadFile(file.InputPath) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	var markup string
	if filepath.Ext(file.InputPath) == ".json" {
		task, err := agentreport.DecodeTaskResult(bytes.NewReader(data))
		if err != nil {
			return err
		}
		markup, err = r.RenderTask(ctx, task)
		if err != nil {
			return err
		}
	} else {
		markup, err = r.Render(ctx, string(data))
		if err != nil {
			return err
		}
	}

	doc := agentreport.NewDocument()
	if err := doc.AppendMarkup(markup); err != nil {
		return err
	}

	w := agentreport.NewWatcher(doc, watchOpts...)
	defer w.Close()

	settleCtx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()
	if err := w.ProcessOnce(settleCtx); err != nil {
		return fmt.Errorf("settling report: %w", err)
	}

	body, err := doc.HTML()
	if err != nil {
		return err
	}
	return writeHTMLPage(file, body, css)
}

// writeHTMLPage wraps the report body in a minimal page shell and writes
// it to the output path, creating parent directories as needed.
func writeHTMLPage(file ReportFile, body, css string) error {
	title := strings.TrimSuffix(filepath.Base(file.InputPath), filepath.Ext(file.InputPath))

	var style string
	if css != "" {
		style = "<style>\n" + css + "</style>\n"
	}
	page := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" +
		html.EscapeString(title) + "</title>\n" + style + "</head>\n<body>\n" + body + "\n</body>\n</html>\n"

	if dir := filepath.Dir(file.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(file.OutputPath, []byte(page), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// report prints per-file outcomes and aggregates failures.
func report(results []RenderResult, flags *cliFlags) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", res.InputPath, res.Err)
			errs = append(errs, fmt.Errorf("%s: %w", res.InputPath, res.Err))
			continue
		}
		if flags.verbose {
			fmt.Fprintf(os.Stderr, "OK   %s -> %s (%s)\n", res.InputPath, res.OutputPath, res.Duration.Round(time.Millisecond))
		} else if !flags.quiet {
			fmt.Fprintf(os.Stderr, "OK   %s\n", res.OutputPath)
		}
	}
	return errors.Join(errs...)
}
