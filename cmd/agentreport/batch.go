package main

import (
	"context"
	"sync"
	"time"

	agentreport "github.com/alnah/go-agentreport"
)

// RenderResult holds the outcome of a single report rendering.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() *agentreport.Renderer
	Release(*agentreport.Renderer)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*agentreport.RendererPool)(nil)

// renderBatch processes files concurrently using the renderer pool.
func renderBatch(ctx context.Context, pool Pool, files []ReportFile, watchOpts []agentreport.WatcherOption, css string) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]RenderResult, len(files))
	jobs := make(chan int, len(files))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r := pool.Acquire()
			defer pool.Release(r)

			for idx := range jobs {
				start := time.Now()
				err := renderFile(ctx, r, files[idx], watchOpts, css)
				results[idx] = RenderResult{
					InputPath:  files[idx].InputPath,
					OutputPath: files[idx].OutputPath,
					Err:        err,
					Duration:   time.Since(start),
				}
			}
		}()
	}

	for idx := range files {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
