package cloudtranslate

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Recognized option keys.
const (
	OptProjectID       = "projectId"
	OptKey             = "key"
	OptFormat          = "format"
	OptEncoding        = "encoding"
	OptSource          = "source"
	OptTarget          = "target"
	OptModel           = "model"
	OptCache           = "cache"
	OptCheapskate      = "cheapskate"
	OptCheapskateCount = "cheapskateCount"
	OptKeyFile         = "keyFile"
	OptKeyFilePath     = "keyFilePath"
	OptRetries         = "retries"
	OptScopes          = "scopes"
)

// Defaults applied by Configure.
const (
	DefaultFormat          = FormatText
	DefaultEncoding        = EncodingUTF8
	DefaultLanguage        = "en"
	DefaultCheapskateCount = 160
	DefaultRetries         = 3
)

// Options is the user-supplied configuration mapping. Unrecognized keys are ignored.
type Options map[string]any

// BackendConfig is the configuration handed to a BackendFactory.
// Optional fields are omitted entirely when unset.
type BackendConfig map[string]any

// Settings is the validated, defaulted configuration of a Translator.
type Settings struct {
	ProjectID          string
	APIKey             string // Empty means no key
	Format             string
	Encoding           string
	Source             string
	Target             string
	Model              string
	CacheEnabled       bool
	CheapskateEnabled  bool
	CheapskateMaxChars int
	Retries            int
	KeyFile            string
	KeyFilePath        string
	Scopes             []string
}

// Configure resolves options into validated Settings.
func Configure(options Options) (*Settings, error) {
	projectID := optString(options, OptProjectID)
	if projectID == "" {
		return nil, &ConfigError{Field: OptProjectID, Message: "missing project id"}
	}

	s := &Settings{
		ProjectID:          projectID,
		APIKey:             optString(options, OptKey),
		Format:             DefaultFormat,
		Encoding:           DefaultEncoding,
		Source:             DefaultLanguage,
		Target:             DefaultLanguage,
		Model:              ModelDefault,
		CacheEnabled:       true,
		CheapskateEnabled:  true,
		CheapskateMaxChars: DefaultCheapskateCount,
		Retries:            DefaultRetries,
	}

	// An empty format falls back to the default rather than failing.
	if v := optString(options, OptFormat); v != "" {
		if !IsValidFormat(v) {
			return nil, invalidOption(OptFormat)
		}
		s.Format = v
	}

	if v := optString(options, OptEncoding); v != "" {
		if !IsValidEncoding(v) {
			return nil, invalidOption(OptEncoding)
		}
		s.Encoding = v
	}

	if has(options, OptSource) {
		v := optString(options, OptSource)
		if !IsValidLanguageCode(v) {
			return nil, invalidOption(OptSource)
		}
		s.Source = v
	}

	if has(options, OptTarget) {
		v := optString(options, OptTarget)
		if !IsValidLanguageCode(v) {
			return nil, invalidOption(OptTarget)
		}
		s.Target = v
	}

	if has(options, OptModel) {
		v := optString(options, OptModel)
		if !IsValidModel(v) {
			return nil, invalidOption(OptModel)
		}
		s.Model = v
	}

	if has(options, OptCache) {
		s.CacheEnabled = truthy(options[OptCache])
	}

	if has(options, OptCheapskate) {
		s.CheapskateEnabled = truthy(options[OptCheapskate])
	}

	if has(options, OptCheapskateCount) {
		n, err := cast.ToIntE(options[OptCheapskateCount])
		if err != nil {
			return nil, invalidOption(OptCheapskateCount)
		}
		s.CheapskateMaxChars = n
	}

	if has(options, OptRetries) {
		n, err := cast.ToIntE(options[OptRetries])
		if err != nil {
			return nil, invalidOption(OptRetries)
		}
		if n != 0 {
			s.Retries = n
		}
	}

	s.KeyFile = optString(options, OptKeyFile)
	s.KeyFilePath = optString(options, OptKeyFilePath)

	if has(options, OptScopes) {
		scopes, err := cast.ToStringSliceE(options[OptScopes])
		if err != nil {
			return nil, invalidOption(OptScopes)
		}
		if len(scopes) > 0 {
			s.Scopes = scopes
		}
	}

	return s, nil
}

// ExportBackendConfig returns the configuration for constructing the backend.
// projectId and key are always present; keyFile, keyFilePath, retries and
// scopes only when set.
func (s *Settings) ExportBackendConfig() BackendConfig {
	cfg := BackendConfig{
		OptProjectID: s.ProjectID,
		OptKey:       s.APIKey,
	}

	if s.KeyFile != "" {
		cfg[OptKeyFile] = s.KeyFile
	}
	if s.KeyFilePath != "" {
		cfg[OptKeyFilePath] = s.KeyFilePath
	}
	if s.Retries != 0 {
		cfg[OptRetries] = s.Retries
	}
	if len(s.Scopes) > 0 {
		scopes := make([]string, len(s.Scopes))
		copy(scopes, s.Scopes)
		cfg[OptScopes] = scopes
	}

	return cfg
}

// OptionsFromViper builds Options from the keys set in v (flags, env, config file).
func OptionsFromViper(v *viper.Viper) Options {
	keys := []string{
		OptProjectID, OptKey, OptFormat, OptEncoding, OptSource, OptTarget,
		OptModel, OptCache, OptCheapskate, OptCheapskateCount, OptKeyFile,
		OptKeyFilePath, OptRetries, OptScopes,
	}

	opts := Options{}
	for _, key := range keys {
		if v.IsSet(key) {
			opts[key] = v.Get(key)
		}
	}
	return opts
}

func invalidOption(field string) *ConfigError {
	return &ConfigError{Field: field, Message: "invalid " + field}
}

func has(options Options, key string) bool {
	v, ok := options[key]
	return ok && v != nil
}

func optString(options Options, key string) string {
	if !has(options, key) {
		return ""
	}
	return cast.ToString(options[key])
}

// truthy coerces loosely typed input to a bool. Strings other than the usual
// false spellings count as true.
func truthy(v any) bool {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "0", "false", "off", "no":
			return false
		}
		return true
	}
	if b, err := cast.ToBoolE(v); err == nil {
		return b
	}
	return v != nil
}
