package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNavigation(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navigation.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadNavigation(t *testing.T) {
	path := writeNavigation(t, `[
		{"title": "About", "items": [
			{"title": "History", "content": "founded in 2008"}
		]},
		{"title": "Contacts", "items": []}
	]`)

	menu, err := LoadNavigation(path)
	if err != nil {
		t.Fatalf("LoadNavigation: %v", err)
	}
	if len(menu.Sections) != 2 {
		t.Fatalf("loaded %d sections, want 2", len(menu.Sections))
	}
	if content, ok := menu.Content("History"); !ok || content != "founded in 2008" {
		t.Errorf("Content(History) = %q, %v", content, ok)
	}
}

func TestLoadNavigationRejectsBlankEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing section title", `[{"title": "", "items": []}]`},
		{"missing item content", `[{"title": "A", "items": [{"title": "B", "content": ""}]}]`},
		{"missing item title", `[{"title": "A", "items": [{"title": "", "content": "x"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadNavigation(writeNavigation(t, tt.content)); err == nil {
				t.Error("malformed navigation loaded without error")
			}
		})
	}
}

func TestLoadNavigationMissingFile(t *testing.T) {
	if _, err := LoadNavigation(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file loaded without error")
	}
}
