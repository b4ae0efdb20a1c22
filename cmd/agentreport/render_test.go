package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	agentreport "github.com/alnah/go-agentreport"
	"github.com/alnah/go-agentreport/internal/config"
)

func TestRenderFileMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "report.md")
	writeFile(t, in, "## Price Comparison\n\nProviders: Expedia, Kayak\n")

	file := ReportFile{InputPath: in, OutputPath: filepath.Join(dir, "report.html")}
	if err := renderFile(context.Background(), agentreport.NewRenderer(), file, nil, ""); err != nil {
		t.Fatalf("renderFile() error = %v", err)
	}

	data, err := os.ReadFile(file.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>report</title>",
		`class="agent-report"`,
		`class="provider-tag"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderFileTaskResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("successful task", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(dir, "ok.json")
		writeFile(t, in, `{"success":true,"task_summary":"# Found Flights"}`)

		file := ReportFile{InputPath: in, OutputPath: filepath.Join(dir, "ok.html")}
		if err := renderFile(context.Background(), agentreport.NewRenderer(), file, nil, ""); err != nil {
			t.Fatalf("renderFile() error = %v", err)
		}

		data, _ := os.ReadFile(file.OutputPath)
		if !strings.Contains(string(data), ">Found Flights</h1>") {
			t.Errorf("output missing rendered summary:\n%s", data)
		}
	})

	t.Run("failed task renders error banner", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(dir, "fail.json")
		writeFile(t, in, `{"success":false,"error":"flight search unavailable"}`)

		file := ReportFile{InputPath: in, OutputPath: filepath.Join(dir, "fail.html")}
		if err := renderFile(context.Background(), agentreport.NewRenderer(), file, nil, ""); err != nil {
			t.Fatalf("renderFile() error = %v", err)
		}

		data, _ := os.ReadFile(file.OutputPath)
		out := string(data)
		if !strings.Contains(out, `class="report-error"`) {
			t.Errorf("output missing error banner:\n%s", out)
		}
		if !strings.Contains(out, "flight search unavailable") {
			t.Errorf("output missing error message:\n%s", out)
		}
	})
}

func TestRenderBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []ReportFile
	for _, name := range []string{"a", "b", "c"} {
		in := filepath.Join(dir, name+".md")
		writeFile(t, in, "# "+name)
		files = append(files, ReportFile{InputPath: in, OutputPath: filepath.Join(dir, name+".html")})
	}
	// One bad input exercises per-file failure isolation.
	files = append(files, ReportFile{
		InputPath:  filepath.Join(dir, "missing.md"),
		OutputPath: filepath.Join(dir, "missing.html"),
	})

	pool := agentreport.NewRendererPool(2)
	results := renderBatch(context.Background(), pool, files, nil, "")

	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if _, err := os.Stat(res.OutputPath); err != nil {
			t.Errorf("missing output file %s: %v", res.OutputPath, err)
		}
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Render.Workers = 2
	cfg.ImageSearch.Endpoint = "https://from-config.example"

	mergeFlags(&cliFlags{workers: 8, imageEndpoint: "https://from-flag.example"}, cfg)

	if cfg.Render.Workers != 8 {
		t.Errorf("Workers = %d, want flag value 8", cfg.Render.Workers)
	}
	if cfg.ImageSearch.Endpoint != "https://from-flag.example" {
		t.Errorf("Endpoint = %q, want flag value", cfg.ImageSearch.Endpoint)
	}

	// Absent flags leave config values alone.
	mergeFlags(&cliFlags{}, cfg)
	if cfg.Render.Workers != 8 {
		t.Errorf("Workers = %d after empty merge, want 8", cfg.Render.Workers)
	}
}

func TestResolveStyle(t *testing.T) {
	t.Parallel()

	t.Run("default embeds built-in stylesheet", func(t *testing.T) {
		t.Parallel()

		css, err := resolveStyle(&cliFlags{})
		if err != nil {
			t.Fatalf("resolveStyle() error = %v", err)
		}
		if !strings.Contains(css, ".agent-report") {
			t.Errorf("stylesheet missing report selector")
		}
	})

	t.Run("no-style disables css", func(t *testing.T) {
		t.Parallel()

		css, err := resolveStyle(&cliFlags{noStyle: true})
		if err != nil {
			t.Fatalf("resolveStyle() error = %v", err)
		}
		if css != "" {
			t.Errorf("css = %q, want empty", css)
		}
	})

	t.Run("custom css file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "mine.css")
		writeFile(t, path, "body { margin: 0; }")

		css, err := resolveStyle(&cliFlags{style: path})
		if err != nil {
			t.Fatalf("resolveStyle() error = %v", err)
		}
		if !strings.Contains(css, "margin: 0") {
			t.Errorf("css = %q", css)
		}
	})

	t.Run("unknown named style fails", func(t *testing.T) {
		t.Parallel()

		if _, err := resolveStyle(&cliFlags{style: "nope"}); err == nil {
			t.Error("resolveStyle() should fail for unknown style")
		}
	})
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	if _, err := resolveInputPath(nil, cfg); err == nil {
		t.Error("resolveInputPath() without input should fail")
	}

	cfg.Input.DefaultDir = "./reports"
	got, err := resolveInputPath(nil, cfg)
	if err != nil {
		t.Fatalf("resolveInputPath() error = %v", err)
	}
	if got != "./reports" {
		t.Errorf("resolveInputPath() = %q, want config default", got)
	}

	got, err = resolveInputPath([]string{"explicit.md"}, cfg)
	if err != nil {
		t.Fatalf("resolveInputPath() error = %v", err)
	}
	if got != "explicit.md" {
		t.Errorf("resolveInputPath() = %q, want positional arg", got)
	}
}
