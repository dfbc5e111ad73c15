package cloudtranslate

import "regexp"

var (
	validFormats = map[string]bool{
		FormatText: true,
		FormatHTML: true,
	}

	validModels = map[string]bool{
		ModelDefault: true,
		ModelNMT:     true,
		ModelBase:    true,
	}

	validEncodings = map[string]bool{
		EncodingUTF8:  true,
		EncodingUTF16: true,
		EncodingUTF32: true,
		EncodingNone:  true,
	}

	// ISO 639-1, e.g. "en"
	isoLanguagePattern = regexp.MustCompile(`^[a-z]{2}$`)
	// BCP-47 with a region, e.g. "en-ZA"
	bcp47LanguagePattern = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)
)

// IsValidFormat reports whether value is a supported text format.
func IsValidFormat(value string) bool {
	return validFormats[value]
}

// IsValidModel reports whether value is a supported translation model.
func IsValidModel(value string) bool {
	return validModels[value]
}

// IsValidEncoding reports whether value is a supported encoding.
func IsValidEncoding(value string) bool {
	return validEncodings[value]
}

// IsValidLanguageCode reports whether value looks like a language code.
// Accepts ISO 639-1 ("en", "es") and BCP-47 region variants ("en-ZA", "en-GB").
// The check is syntactic only; codes are not looked up in any registry.
func IsValidLanguageCode(value string) bool {
	return isoLanguagePattern.MatchString(value) || bcp47LanguagePattern.MatchString(value)
}
