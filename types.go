package cloudtranslate

// Text formats accepted by the backend.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Translation models. ModelDefault lets the backend choose.
const (
	ModelDefault = ""
	ModelNMT     = "nmt"
	ModelBase    = "base"
)

// Encodings accepted in configuration.
const (
	EncodingUTF8  = "UTF8"
	EncodingUTF16 = "UTF16"
	EncodingUTF32 = "UTF32"
	EncodingNone  = "NONE"
)

// Language describes a language supported by the backend.
type Language struct {
	Code string `json:"code"` // ISO 639-1 or BCP-47 code
	Name string `json:"name"` // Display name, localized when requested for a target
}

// Detection is the result of a language detection call.
type Detection struct {
	Input      string  `json:"input"`
	Language   string  `json:"languageCode"`
	Confidence float64 `json:"confidence"`
	IsReliable bool    `json:"isReliable"`
}

// Translation is the result of a translation call.
type Translation struct {
	Input  string `json:"input"`
	Text   string `json:"text"`
	Source string `json:"source"` // Source language as reported by the backend
	Model  string `json:"model,omitempty"`
}

// TranslateOptions are passed to the backend on translate calls.
//
// Model distinguishes "unset" (nil) from "set to the empty string". Single
// translations always send the configured model, batch translations send nil
// when no model is configured. This mirrors the request shapes the backend
// expects for the two calls.
type TranslateOptions struct {
	Source string
	Target string
	Format string
	Model  *string
}

// ModelName returns the model or "" when unset.
func (o TranslateOptions) ModelName() string {
	if o.Model == nil {
		return ""
	}
	return *o.Model
}

// DetectOptions are passed to the backend on detection calls.
type DetectOptions struct {
	Format string
}
