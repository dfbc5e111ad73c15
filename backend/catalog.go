package backend

import (
	"sort"
	"strings"

	"github.com/ZaguanLabs/cloudtranslate"
)

// LanguageNames maps the language codes offered by the OpenAI backend to
// English display names.
var LanguageNames = map[string]string{
	// Tier 1 (High Quality)
	"en":    "English",
	"en-GB": "English (United Kingdom)",
	"de":    "German",
	"es":    "Spanish",
	"es-MX": "Spanish (Mexico)",
	"fr":    "French",
	"it":    "Italian",
	"ja":    "Japanese",
	"pt":    "Portuguese",
	"pt-BR": "Portuguese (Brazil)",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",

	// Tier 2 (Good Quality)
	"af": "Afrikaans",
	"ar": "Arabic",
	"bn": "Bengali",
	"cs": "Czech",
	"da": "Danish",
	"el": "Greek",
	"fi": "Finnish",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"ko": "Korean",
	"nl": "Dutch",
	"nb": "Norwegian Bokmål",
	"pl": "Polish",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",

	// Tier 3 (Functional)
	"bg": "Bulgarian",
	"ca": "Catalan",
	"fa": "Persian",
	"hr": "Croatian",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"ms": "Malay",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sw": "Swahili",
	"tl": "Tagalog",
	"ur": "Urdu",
	"zu": "Zulu",
}

// LanguageName returns the English name for a language code. Regional codes
// fall back to their base language, unknown codes to the code itself.
func LanguageName(code string) string {
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	if base, _, found := strings.Cut(code, "-"); found {
		if name, ok := LanguageNames[base]; ok {
			return name
		}
	}
	return code
}

// catalog returns the offered languages sorted by code.
func catalog() []cloudtranslate.Language {
	codes := make([]string, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	langs := make([]cloudtranslate.Language, len(codes))
	for i, code := range codes {
		langs[i] = cloudtranslate.Language{Code: code, Name: LanguageNames[code]}
	}
	return langs
}
