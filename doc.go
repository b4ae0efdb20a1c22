// Package agentreport renders agent-generated travel reports into a
// styled, interactive HTML presentation.
//
// # Quick Start
//
// Render a raw task summary and let a watcher transform it:
//
//	r := agentreport.NewRenderer()
//	markup, err := r.Render(ctx, taskSummary)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc := agentreport.NewDocument()
//	w := agentreport.NewWatcher(doc)
//	defer w.Close()
//
//	if err := doc.AppendMarkup(markup); err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.ProcessOnce(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	final, err := doc.HTML()
//
// # Rendering Pipeline
//
// The transformation runs in these stages:
//
//  1. Markdown normalization (Sources anchor, paragraph/list/heading spacing)
//  2. Markdown to HTML conversion via Goldmark (GFM, {#id} attributes,
//     syntax highlighting)
//  3. HTML post-processing (escaped-markup repair, block spacing, color
//     fixes, report container wrap)
//  4. Section transformation on the live document tree (price comparison,
//     option highlights, option-card grids, booking-link grids,
//     screenshot viewers)
//  5. Inline [IMAGE: description] directives become uniquely identified
//     placeholders, resolved asynchronously through an ImageSearcher
//
// Stages 4 and 5 run inside a Watcher: a loop triggered by document
// change signals with a fixed-interval fallback poll. Every pass is
// idempotent, so the loop can fire arbitrarily often while content
// streams in.
//
// # Streaming Documents
//
// For continuously arriving content, run the watcher in the background:
//
//	w := agentreport.NewWatcher(doc,
//	    agentreport.WithImageSearcher(searcher),
//	    agentreport.WithPollInterval(500*time.Millisecond),
//	)
//	go w.Run()
//	defer w.Close()
//
//	// Any goroutine may append; the watcher picks it up.
//	doc.AppendMarkup(chunk)
//
// # Parallel Processing
//
// For batch rendering, use RendererPool to bound concurrent renderers:
//
//	pool := agentreport.NewRendererPool(4)
//	r := pool.Acquire()
//	defer pool.Release(r)
//	markup, err := r.Render(ctx, content)
package agentreport
