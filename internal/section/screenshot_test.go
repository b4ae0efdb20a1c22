package section

import (
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-agentreport/internal/dom"
)

// tinyPNG is a truncated base64 payload; the pipeline never decodes it.
const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func TestScreenshotSynthesizesContainer(t *testing.T) {
	t.Parallel()

	container := parseContainer(t, `<p><img src="`+tinyPNG+`" alt="Search results"/></p>`)
	applyAll(t, container, NewMarkers())

	viewers := byClass(container, screenshotContainerClass)
	if len(viewers) != 1 {
		t.Fatalf("got %d screenshot containers, want 1", len(viewers))
	}
	v := viewers[0]

	if len(byClass(v, screenshotHeaderClass)) != 1 {
		t.Error("missing or duplicated header")
	}
	if len(byClass(v, screenshotBodyClass)) != 1 {
		t.Error("missing or duplicated body")
	}
	if len(byClass(v, screenshotFooterClass)) != 1 {
		t.Error("missing or duplicated footer")
	}

	titles := byClass(v, screenshotTitleClass)
	if len(titles) != 1 || dom.Text(titles[0]) != "Search results" {
		t.Errorf("title = %v, want [Search results]", elementTexts(titles))
	}

	// The image moved inside; the wrapping <p> is gone.
	imgs := dom.FindAll(container, func(n *html.Node) bool { return dom.IsElement(n, atom.Img) })
	if len(imgs) != 1 {
		t.Fatalf("got %d images, want 1", len(imgs))
	}
	if !dom.Rooted(v, imgs[0]) {
		t.Error("image not relocated into the viewer")
	}
	for _, p := range dom.FindAll(container, func(n *html.Node) bool { return dom.IsElement(n, atom.P) }) {
		t.Errorf("stray paragraph %q left behind", dom.Text(p))
	}
}

// TestScreenshotIdempotent processes the same image twice and checks the
// tree holds exactly one container, one zoom button and one download
// button afterwards.
func TestScreenshotIdempotent(t *testing.T) {
	t.Parallel()

	container := parseContainer(t, `<img src="`+tinyPNG+`" alt="shot"/>`)
	marks := NewMarkers()

	applyAll(t, container, marks)
	applyAll(t, container, marks)

	if got := len(byClass(container, screenshotContainerClass)); got != 1 {
		t.Errorf("containers = %d, want 1", got)
	}
	if got := len(byClass(container, zoomButtonClass)); got != 1 {
		t.Errorf("zoom buttons = %d, want 1", got)
	}
	if got := len(byClass(container, downloadButtonClass)); got != 1 {
		t.Errorf("download buttons = %d, want 1", got)
	}
}

// TestScreenshotRestyle feeds a half-built viewer from a prior partial
// pass: the container exists but has duplicate buttons and no header.
func TestScreenshotRestyle(t *testing.T) {
	t.Parallel()

	markup := `<div class="` + screenshotContainerClass + `" data-caption="old shot">` +
		`<div class="` + screenshotBodyClass + `"><img id="shot-1" src="` + tinyPNG + `" alt="old shot"/></div>` +
		`<div class="` + screenshotFooterClass + `">` +
		`<button class="` + zoomButtonClass + `">Zoom</button>` +
		`<button class="` + zoomButtonClass + `">Zoom</button>` +
		`</div></div>`

	container := parseContainer(t, markup)
	applyAll(t, container, NewMarkers())

	if got := len(byClass(container, screenshotContainerClass)); got != 1 {
		t.Fatalf("containers = %d, want 1 (must not re-wrap)", got)
	}
	if got := len(byClass(container, screenshotHeaderClass)); got != 1 {
		t.Errorf("headers = %d, want 1 (restyle must synthesize)", got)
	}

	zooms := byClass(container, zoomButtonClass)
	if len(zooms) != 1 {
		t.Fatalf("zoom buttons = %d, want 1 after dedup", len(zooms))
	}
	if action, _ := dom.Attr(zooms[0], "data-action"); action != "zoom" {
		t.Errorf("zoom data-action = %q, want zoom", action)
	}
	if target, _ := dom.Attr(zooms[0], "data-target"); target != "shot-1" {
		t.Errorf("zoom data-target = %q, want shot-1", target)
	}

	if got := len(byClass(container, downloadButtonClass)); got != 1 {
		t.Errorf("download buttons = %d, want 1 after restyle", got)
	}
}

func TestStripOrphanCaptions(t *testing.T) {
	t.Parallel()

	t.Run("duplicate caption removed", func(t *testing.T) {
		t.Parallel()

		container := parseContainer(t,
			`<img src="`+tinyPNG+`" alt="Hotel lobby"/><p>Hotel lobby</p>`)
		applyAll(t, container, NewMarkers())

		for _, p := range dom.FindAll(container, func(n *html.Node) bool { return dom.IsElement(n, atom.P) }) {
			if dom.Text(p) == "Hotel lobby" {
				t.Error("orphan caption survived the pass")
			}
		}
	})

	t.Run("unrelated sibling kept", func(t *testing.T) {
		t.Parallel()

		container := parseContainer(t,
			`<img src="`+tinyPNG+`" alt="Hotel lobby"/><p>Next paragraph of the report.</p>`)
		applyAll(t, container, NewMarkers())

		var kept bool
		for _, p := range dom.FindAll(container, func(n *html.Node) bool { return dom.IsElement(n, atom.P) }) {
			if dom.Text(p) == "Next paragraph of the report." {
				kept = true
			}
		}
		if !kept {
			t.Error("unrelated paragraph was removed")
		}
	})
}

// TestTransformSectionRecoversPanic feeds a detached heading, which makes
// the swap panic, and checks the failure surfaces as an error instead.
func TestTransformSectionRecoversPanic(t *testing.T) {
	t.Parallel()

	heading := dom.Element("h2")
	dom.Append(heading, dom.TextNode("Price Comparison"))

	_, err := transformSection(heading, KindPriceComparison, NewMarkers())
	if err == nil {
		t.Fatal("expected recovered panic as error, got nil")
	}
}
