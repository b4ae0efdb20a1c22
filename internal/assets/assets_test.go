package assets_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-agentreport/internal/assets"
)

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	t.Run("default style embedded", func(t *testing.T) {
		t.Parallel()

		css, err := assets.LoadStyle(assets.DefaultStyle)
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		for _, want := range []string{".agent-report", ".provider-tag", ".screenshot-container", ".image-failed"} {
			if !strings.Contains(css, want) {
				t.Errorf("stylesheet missing selector %q", want)
			}
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		if _, err := assets.LoadStyle("nope"); !errors.Is(err, assets.ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`} {
			if _, err := assets.LoadStyle(name); !errors.Is(err, assets.ErrInvalidAssetName) {
				t.Errorf("LoadStyle(%q) error = %v, want ErrInvalidAssetName", name, err)
			}
		}
	})
}

func TestLoadStyleFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.css")
	if err := os.WriteFile(path, []byte(".agent-report { color: red; }"), 0o600); err != nil {
		t.Fatal(err)
	}

	css, err := assets.LoadStyleFile(path)
	if err != nil {
		t.Fatalf("LoadStyleFile() error = %v", err)
	}
	if !strings.Contains(css, "color: red") {
		t.Errorf("LoadStyleFile() = %q", css)
	}

	if _, err := assets.LoadStyleFile(filepath.Join(t.TempDir(), "none.css")); !errors.Is(err, assets.ErrStyleNotFound) {
		t.Errorf("LoadStyleFile(missing) error = %v, want ErrStyleNotFound", err)
	}
}
