package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Armyworms on my maize plot"); got != "Armyworms on my maize plot" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(input); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	if got := htmlsanitize.Sanitize(input); got == input {
		t.Error("expected onclick attribute to be removed")
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	if got := htmlsanitize.Sanitize(input); got == input {
		t.Error("expected javascript: href to be removed")
	}
}

func TestSanitize_AllowsSafeLinks(t *testing.T) {
	input := `<a href="https://example.com">Link</a>`
	got := htmlsanitize.Sanitize(input)
	// bluemonday adds rel="nofollow", so only check the URL survives
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("expected safe link preserved, got %q", got)
	}
}

func TestSanitize_AllowsLists(t *testing.T) {
	input := "<ul><li>Spray in the morning</li><li>Repeat after 7 days</li></ul>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected list preserved, got %q", got)
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	input := `<p>Content</p><iframe src="https://evil.com"></iframe>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "iframe") {
		t.Error("expected iframe to be removed")
	}
	if !strings.Contains(got, "Content") {
		t.Error("expected safe content to be preserved")
	}
}

func TestSanitize_RemovesFormElements(t *testing.T) {
	input := `<form action="/submit"><input type="text" name="data"><button>Submit</button></form>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "<form") || strings.Contains(got, "<input") {
		t.Error("expected form elements to be removed")
	}
}

func TestText_StripsAllMarkup(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain title", "Plain title"},
		{"<b>Bold title</b>", "Bold title"},
		{"<script>alert('x')</script>Late blight", "Late blight"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := htmlsanitize.Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
