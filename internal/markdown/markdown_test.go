package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	html, err := Render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("unexpected output: %s", html)
	}
}

func TestRender_StripsScripts(t *testing.T) {
	html, err := Render("hello <script>alert(1)</script> <img src=x onerror=alert(1)>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "onerror") {
		t.Errorf("dangerous markup survived: %s", html)
	}
}

func TestRender_GFMTables(t *testing.T) {
	html, err := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<table") {
		t.Errorf("table not rendered: %s", html)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		source := strings.TrimSpace(strings.Repeat("word ", tt.words))
		if got := ReadingTime(source); got != tt.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}
