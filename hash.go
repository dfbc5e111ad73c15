package cloudtranslate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// KeyPrefix namespaces every cache key written by the Translator.
const KeyPrefix = "__google_cloud_translate__"

// HashText computes the SHA-256 hash of text. Whitespace is significant.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// HashTexts computes a hash over an ordered list of texts.
func HashTexts(texts []string) string {
	// Marshalling a []string cannot fail.
	data, _ := json.Marshal(texts)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// CacheKey builds a cache key from an operation name and its normalized parameters.
func CacheKey(op string, parts ...string) string {
	return KeyPrefix + op + "_" + strings.Join(parts, "_")
}

func languagesKey() string {
	return CacheKey("languages")
}

func localizedLanguagesKey(target string) string {
	return CacheKey("localised_languages", target)
}

func detectKey(text, format string) string {
	return CacheKey("detect_language", HashText(text), "type", format)
}

func detectBatchKey(texts []string, format string) string {
	return CacheKey("detect_language_batch", HashTexts(texts), "type", format)
}

func translateKey(text string, opts TranslateOptions) string {
	return CacheKey("translate", HashText(text), opts.Source, opts.Target, opts.Format, opts.ModelName())
}

func translateBatchKey(texts []string, opts TranslateOptions) string {
	return CacheKey("translate_batch", HashTexts(texts), opts.Source, opts.Target, opts.Format, opts.ModelName())
}
