package util

import (
	"path/filepath"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces  Around  ", "spaces-around"},
		{"Go 1.25 Released!", "go-125-released"},
		{"Привет мир", "privet-mir"},
		{"O'zbekiston haqida", "ozbekiston-haqida"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "go-125", "a"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-leading", "trailing-", "double--hyphen", "UPPER", "with space", "ünïcode"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got, err := SanitizeFilename("../../etc/passwd"); err != nil || got != "passwd" {
		t.Errorf("SanitizeFilename traversal = (%q, %v)", got, err)
	}
	if got, err := SanitizeFilename("photo.jpg"); err != nil || got != "photo.jpg" {
		t.Errorf("SanitizeFilename plain = (%q, %v)", got, err)
	}
	for _, bad := range []string{"", ".", ".."} {
		if _, err := SanitizeFilename(bad); err == nil {
			t.Errorf("SanitizeFilename(%q) succeeded, want error", bad)
		}
	}
}

func TestValidatePathWithinBase(t *testing.T) {
	base := t.TempDir()

	if err := ValidatePathWithinBase(base, filepath.Join(base, "img", "a.jpg")); err != nil {
		t.Errorf("nested path rejected: %v", err)
	}
	if err := ValidatePathWithinBase(base, base); err != nil {
		t.Errorf("base itself rejected: %v", err)
	}
	if err := ValidatePathWithinBase(base, filepath.Join(base, "..", "outside.txt")); err == nil {
		t.Error("escaping path accepted")
	}
	if err := ValidatePathWithinBase(base, base+"-evil/file"); err == nil {
		t.Error("sibling prefix path accepted")
	}
}

func TestParseUserAgent(t *testing.T) {
	chrome := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	info := ParseUserAgent(chrome)
	if info.Browser != "Chrome" {
		t.Errorf("Browser = %q, want Chrome", info.Browser)
	}
	if info.Device != "desktop" {
		t.Errorf("Device = %q, want desktop", info.Device)
	}

	iphone := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	if got := ParseUserAgent(iphone).Device; got != "mobile" {
		t.Errorf("iPhone device = %q, want mobile", got)
	}

	if got := ParseUserAgent(""); got != (ClientInfo{}) {
		t.Errorf("empty UA = %+v, want zero value", got)
	}
}
