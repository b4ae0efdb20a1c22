package section

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-agentreport/internal/dom"
)

// Class names of the screenshot viewer parts. The container class doubles
// as the re-detection guard: a wrapped image is restyled, never re-wrapped.
const (
	screenshotContainerClass = "screenshot-container"
	screenshotHeaderClass    = "screenshot-header"
	screenshotBodyClass      = "screenshot-body"
	screenshotFooterClass    = "screenshot-footer"
	screenshotTitleClass     = "screenshot-title"
	zoomButtonClass          = "screenshot-zoom"
	downloadButtonClass      = "screenshot-download"
)

// defaultScreenshotTitle is used when the image carries no alt text.
const defaultScreenshotTitle = "Screenshot"

// applyScreenshots wraps every unprocessed base64 image in a screenshot
// viewer, or restyles an existing viewer in place, reporting how many
// images it touched. Each image gets its own recover scope.
func applyScreenshots(container *html.Node, marks *Markers) (int, []error) {
	var (
		changed int
		errs    []error
	)

	images := dom.FindAll(container, func(n *html.Node) bool {
		if !dom.IsElement(n, atom.Img) {
			return false
		}
		// Images produced by the placeholder resolver are plain inline
		// illustrations, not screenshots.
		if dom.HasClass(n, "resolved-image") {
			return false
		}
		src, _ := dom.Attr(n, "src")
		return strings.HasPrefix(src, "data:image")
	})

	for _, img := range images {
		if marks.Processed(img, KindScreenshot) {
			continue
		}
		if err := transformScreenshot(img, marks); err != nil {
			errs = append(errs, err)
			continue
		}
		changed++
	}
	return changed, errs
}

// transformScreenshot handles one base64 image inside a recover scope.
func transformScreenshot(img *html.Node, marks *Markers) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("screenshot transformer panicked: %v", r)
		}
	}()

	if wrapper := enclosingScreenshotContainer(img); wrapper != nil {
		restyleScreenshot(wrapper, img)
		marks.Mark(img, KindScreenshot)
		marks.Mark(wrapper, KindScreenshot)
		return nil
	}

	title, _ := dom.Attr(img, "alt")
	if strings.TrimSpace(title) == "" {
		title = defaultScreenshotTitle
	}

	// Goldmark wraps a lone image in a paragraph; swap at that level so
	// the viewer div does not end up nested inside a <p>.
	target := img
	if dom.IsElement(img.Parent, atom.P) && onlyChildElement(img.Parent) == img {
		target = img.Parent
	}

	shot := dom.Clone(img)
	imgID := "shot-" + uuid.NewString()
	dom.SetAttr(shot, "id", imgID)

	container := dom.Element("div", "class", screenshotContainerClass, "data-caption", title)
	dom.Append(container,
		buildScreenshotHeader(title),
		buildScreenshotBody(shot),
		buildScreenshotFooter(imgID),
	)

	dom.InsertBefore(container, target)
	dom.Detach(target)

	marks.Mark(shot, KindScreenshot)
	marks.Mark(container, KindScreenshot)
	return nil
}

// enclosingScreenshotContainer returns the nearest ancestor viewer, or nil.
func enclosingScreenshotContainer(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if dom.HasClass(p, screenshotContainerClass) {
			return p
		}
	}
	return nil
}

// restyleScreenshot repairs a partially processed viewer: missing parts
// are synthesized, duplicate buttons are dropped, and both buttons are
// rebound to the wrapped image.
func restyleScreenshot(container, img *html.Node) {
	imgID, ok := dom.Attr(img, "id")
	if !ok || imgID == "" {
		imgID = "shot-" + uuid.NewString()
		dom.SetAttr(img, "id", imgID)
	}

	title, _ := dom.Attr(container, "data-caption")
	if title == "" {
		if alt, _ := dom.Attr(img, "alt"); strings.TrimSpace(alt) != "" {
			title = alt
		} else {
			title = defaultScreenshotTitle
		}
		dom.SetAttr(container, "data-caption", title)
	}

	if firstByClass(container, screenshotHeaderClass) == nil {
		container.InsertBefore(buildScreenshotHeader(title), container.FirstChild)
	}
	if firstByClass(container, screenshotBodyClass) == nil {
		body := buildScreenshotBody(dom.Clone(img))
		dom.Detach(img)
		dom.Append(container, body)
	}

	footer := firstByClass(container, screenshotFooterClass)
	if footer == nil {
		dom.Append(container, buildScreenshotFooter(imgID))
		return
	}

	rebindButton(footer, zoomButtonClass, "zoom", imgID)
	rebindButton(footer, downloadButtonClass, "download", imgID)
}

// rebindButton keeps exactly one button of the given class in footer,
// bound to the target image. Extra copies from earlier partial passes
// are removed.
func rebindButton(footer *html.Node, class, action, imgID string) {
	buttons := dom.FindAll(footer, func(n *html.Node) bool {
		return dom.IsElement(n, atom.Button) && dom.HasClass(n, class)
	})

	if len(buttons) == 0 {
		dom.Append(footer, buildButton(class, action, imgID))
		return
	}
	for _, extra := range buttons[1:] {
		dom.Detach(extra)
	}
	dom.SetAttr(buttons[0], "data-action", action)
	dom.SetAttr(buttons[0], "data-target", imgID)
}

func buildScreenshotHeader(title string) *html.Node {
	header := dom.Element("div", "class", screenshotHeaderClass)
	span := dom.Element("span", "class", screenshotTitleClass)
	dom.Append(span, dom.TextNode(title))
	dom.Append(header, span)
	return header
}

func buildScreenshotBody(img *html.Node) *html.Node {
	body := dom.Element("div", "class", screenshotBodyClass)
	dom.Append(body, img)
	return body
}

func buildScreenshotFooter(imgID string) *html.Node {
	footer := dom.Element("div", "class", screenshotFooterClass)
	dom.Append(footer,
		buildButton(zoomButtonClass, "zoom", imgID),
		buildButton(downloadButtonClass, "download", imgID),
	)
	return footer
}

func buildButton(class, action, imgID string) *html.Node {
	b := dom.Element("button",
		"class", class,
		"type", "button",
		"data-action", action,
		"data-target", imgID,
	)
	dom.Append(b, dom.TextNode(buttonLabel(action)))
	return b
}

func buttonLabel(action string) string {
	switch action {
	case "zoom":
		return "Zoom"
	case "download":
		return "Download"
	}
	return action
}

// firstByClass returns the first descendant of root with the given class.
func firstByClass(root *html.Node, class string) *html.Node {
	var found *html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n != root && dom.HasClass(n, class) {
			found = n
			return false
		}
		return true
	})
	return found
}

// onlyChildElement returns the single element child of n, or nil when n
// has zero or several element children or any non-blank text.
func onlyChildElement(n *html.Node) *html.Node {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if only != nil {
				return nil
			}
			only = c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return only
}

// StripOrphanCaptions removes caption paragraphs left stranded next to a
// screenshot viewer by earlier partial processing, returning the number
// removed. A sibling counts as an orphan when its text duplicates the
// viewer's caption.
func StripOrphanCaptions(root *html.Node) int {
	containers := dom.FindAll(root, func(n *html.Node) bool {
		return dom.HasClass(n, screenshotContainerClass)
	})

	removed := 0
	for _, c := range containers {
		caption, _ := dom.Attr(c, "data-caption")
		if caption == "" {
			continue
		}
		next := dom.NextElement(c)
		if next == nil {
			continue
		}
		if (dom.IsElement(next, atom.P) || dom.IsElement(next, atom.Em)) && dom.Text(next) == caption {
			dom.Detach(next)
			removed++
		}
	}
	return removed
}
