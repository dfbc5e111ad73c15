package cloudtranslate

import "testing"

func TestIsValidLanguageCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"en", true},
		{"de", true},
		{"en-ZA", true},
		{"en-GB", true},
		{"ENG", false},
		{"english", false},
		{"e1", false},
		{"en_ZA", false},
		{"en-za", false},
		{"EN", false},
		{"", false},
		{"en-GB ", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsValidLanguageCode(tt.code); got != tt.expected {
				t.Errorf("IsValidLanguageCode(%q) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected bool
	}{
		{"text", true},
		{"html", true},
		{"", false},
		{"TEXT", false},
		{"markdown", false},
	}

	for _, tt := range tests {
		if got := IsValidFormat(tt.format); got != tt.expected {
			t.Errorf("IsValidFormat(%q) = %v, want %v", tt.format, got, tt.expected)
		}
	}
}

func TestIsValidModel(t *testing.T) {
	tests := []struct {
		model    string
		expected bool
	}{
		{"", true},
		{"nmt", true},
		{"base", true},
		{"blank", false},
		{"NMT", false},
	}

	for _, tt := range tests {
		if got := IsValidModel(tt.model); got != tt.expected {
			t.Errorf("IsValidModel(%q) = %v, want %v", tt.model, got, tt.expected)
		}
	}
}

func TestIsValidEncoding(t *testing.T) {
	for _, enc := range []string{"UTF8", "UTF16", "UTF32", "NONE"} {
		if !IsValidEncoding(enc) {
			t.Errorf("IsValidEncoding(%q) should be true", enc)
		}
	}
	if IsValidEncoding("utf8") {
		t.Error("IsValidEncoding(utf8) should be false")
	}
}
