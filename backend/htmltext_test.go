package backend

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseHTMLText_Basic(t *testing.T) {
	h, err := parseHTMLText(`<div><h1>Hello World</h1><p>Welcome to our site.</p></div>`)
	if err != nil {
		t.Fatalf("parseHTMLText failed: %v", err)
	}

	want := []string{"Hello World", "Welcome to our site."}
	if !reflect.DeepEqual(h.Texts(), want) {
		t.Errorf("Texts() = %v, want %v", h.Texts(), want)
	}
	if h.PlainText() != "Hello World Welcome to our site." {
		t.Errorf("PlainText() = %q", h.PlainText())
	}
}

func TestParseHTMLText_IgnoredTags(t *testing.T) {
	h, err := parseHTMLText(`<div>
		<p>Translate me</p>
		<script>doNotTranslate();</script>
		<style>.class { color: red; }</style>
		<code>const x = 1;</code>
		<pre>preformatted</pre>
		<textarea>form input</textarea>
	</div>`)
	if err != nil {
		t.Fatalf("parseHTMLText failed: %v", err)
	}

	if !reflect.DeepEqual(h.Texts(), []string{"Translate me"}) {
		t.Errorf("Texts() = %v, want only 'Translate me'", h.Texts())
	}
}

func TestParseHTMLText_DataNoTranslate(t *testing.T) {
	h, err := parseHTMLText(`<div><p data-no-translate>Keep this</p><p>Translate this</p></div>`)
	if err != nil {
		t.Fatalf("parseHTMLText failed: %v", err)
	}

	if !reflect.DeepEqual(h.Texts(), []string{"Translate this"}) {
		t.Errorf("Texts() = %v", h.Texts())
	}
}

func TestHTMLText_ApplyDeduplicated(t *testing.T) {
	h, err := parseHTMLText(`<ul><li>Hello</li><li> Hello </li></ul>`)
	if err != nil {
		t.Fatalf("parseHTMLText failed: %v", err)
	}

	if len(h.Texts()) != 1 {
		t.Fatalf("Expected 1 unique text, got %v", h.Texts())
	}

	out, err := h.Apply(map[string]string{"Hello": "Hola"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if out != `<ul><li>Hola</li><li> Hola </li></ul>` {
		t.Errorf("Apply() = %q", out)
	}
}

func TestHTMLText_ApplyFullDocument(t *testing.T) {
	h, err := parseHTMLText(`<html><head><title>Hi</title></head><body><p>Hello</p></body></html>`)
	if err != nil {
		t.Fatalf("parseHTMLText failed: %v", err)
	}

	out, err := h.Apply(map[string]string{"Hello": "Hola", "Hi": "Hola"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !strings.HasPrefix(out, "<html>") || !strings.Contains(out, "<title>Hola</title>") || !strings.Contains(out, "<p>Hola</p>") {
		t.Errorf("Apply() = %q", out)
	}
}

func TestPreserveWhitespace(t *testing.T) {
	tests := []struct {
		original   string
		translated string
		expected   string
	}{
		{"Hello", "Hola", "Hola"},
		{"  Hello  ", "Hola", "  Hola  "},
		{"\n\tHello\n", "Hola", "\n\tHola\n"},
	}

	for _, tt := range tests {
		if got := preserveWhitespace(tt.original, tt.translated); got != tt.expected {
			t.Errorf("preserveWhitespace(%q, %q) = %q, want %q", tt.original, tt.translated, got, tt.expected)
		}
	}
}
