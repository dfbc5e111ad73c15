// Command cloudtranslate translates text and looks up languages through a
// cached translation backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/cloudtranslate"
	"github.com/ZaguanLabs/cloudtranslate/backend"
	"github.com/ZaguanLabs/cloudtranslate/cache"
	"github.com/ZaguanLabs/cloudtranslate/internal/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Keys for settings that are not translator options.
const (
	keyBackend         = "backend"
	keyCacheStore      = "cacheStore"
	keyRedisURL        = "redisUrl"
	keyCacheFile       = "cacheFile"
	keyEnvironment     = "environment"
	keyLogLevel        = "logLevel"
	keyOpenAIModel     = "openaiModel"
	keyRateLimit       = "rateLimit"
	keyBreakerFailures = "breakerFailures"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state of one command invocation.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	configFile string
	envFile    string
	jsonOutput bool
	noCache    bool
	noCheap    bool

	log        zerolog.Logger
	translator *cloudtranslate.Translator
	store      cache.Store
	closers    []func() error
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr, log: zerolog.Nop()}
	defer a.close()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(context.Background())
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           cloudtranslate.Name,
		Short:         cloudtranslate.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("project-id", "", "Cloud project id")
	flags.String("key", "", "Backend API key")
	flags.String("format", cloudtranslate.DefaultFormat, "Text format (text or html)")
	flags.String("encoding", cloudtranslate.DefaultEncoding, "Text encoding (UTF8, UTF16, UTF32 or NONE)")
	flags.String("source", cloudtranslate.DefaultLanguage, "Source language code")
	flags.String("target", cloudtranslate.DefaultLanguage, "Target language code")
	flags.String("model", cloudtranslate.ModelDefault, "Translation model (nmt or base)")
	flags.Int("cheapskate-count", cloudtranslate.DefaultCheapskateCount, "Maximum bytes per text in cheapskate mode")
	flags.String("key-file-path", "", "Path to a service account JSON file")
	flags.Int("retries", cloudtranslate.DefaultRetries, "Retries for transient backend errors")
	flags.StringSlice("scopes", nil, "OAuth scopes for service account credentials")
	flags.BoolVar(&a.noCache, "no-cache", false, "Do not read cached responses")
	flags.BoolVar(&a.noCheap, "no-cheapskate", false, "Disable the text length limit")

	flags.String("backend", "google", "Translation backend (google, openai or mock)")
	flags.String("openai-model", "", "Chat model for the openai backend")
	flags.String("cache-store", "memory", "Response cache (memory, ristretto or redis)")
	flags.String("redis-url", "", "Redis URL for the redis cache store")
	flags.String("cache-file", "", "Load the memory cache from this file and save it after the run")
	flags.Int("rate-limit", 0, "Maximum backend requests per minute (0 = unlimited)")
	flags.Int("breaker-failures", 0, "Consecutive failures that open the circuit breaker (0 = off)")
	flags.String("environment", "local", "Log environment (local = console output)")
	flags.String("log-level", "warn", "Log level")

	flags.StringVar(&a.configFile, "config", "", "Config file")
	flags.StringVar(&a.envFile, "env", ".env", "Env file")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output results as JSON")

	bindings := map[string]string{
		cloudtranslate.OptProjectID:       "project-id",
		cloudtranslate.OptKey:             "key",
		cloudtranslate.OptFormat:          "format",
		cloudtranslate.OptEncoding:        "encoding",
		cloudtranslate.OptSource:          "source",
		cloudtranslate.OptTarget:          "target",
		cloudtranslate.OptModel:           "model",
		cloudtranslate.OptCheapskateCount: "cheapskate-count",
		cloudtranslate.OptKeyFilePath:     "key-file-path",
		cloudtranslate.OptRetries:         "retries",
		cloudtranslate.OptScopes:          "scopes",
		keyBackend:                        "backend",
		keyOpenAIModel:                    "openai-model",
		keyCacheStore:                     "cache-store",
		keyRedisURL:                       "redis-url",
		keyCacheFile:                      "cache-file",
		keyRateLimit:                      "rate-limit",
		keyBreakerFailures:                "breaker-failures",
		keyEnvironment:                    "environment",
		keyLogLevel:                       "log-level",
	}
	for key, flag := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.languagesCommand(),
		a.localizedCommand(),
		a.detectCommand(),
		a.translateCommand(),
		a.targetsCommand(),
		a.sourcesCommand(),
		a.versionCommand(),
	)

	return root
}

// setup loads configuration and builds the translator. It runs before every
// command that talks to a backend.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loadEnv(cmd); err != nil {
		return err
	}

	a.v.SetEnvPrefix("CLOUDTRANSLATE")
	a.v.AutomaticEnv()

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	log, err := logging.NewTo(a.stderr, a.v.GetString(keyEnvironment), a.v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	a.log = log

	options := cloudtranslate.OptionsFromViper(a.v)
	if a.noCache {
		options[cloudtranslate.OptCache] = false
	}
	if a.noCheap {
		options[cloudtranslate.OptCheapskate] = false
	}

	factory, err := a.backendFactory()
	if err != nil {
		return err
	}

	store, err := a.cacheStore(cmd.Context())
	if err != nil {
		return err
	}
	a.store = store

	if err := a.importCache(); err != nil {
		return err
	}

	t, err := cloudtranslate.New(cmd.Context(), options, factory,
		cloudtranslate.WithCache(store),
		cloudtranslate.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.translator = t
	a.closers = append(a.closers, t.Close)

	a.log.Debug().
		Str("backend", a.v.GetString(keyBackend)).
		Str("target", t.Settings().Target).
		Msg("translator ready")
	return nil
}

// loadEnv loads the env file. A missing default file is ignored.
func (a *app) loadEnv(cmd *cobra.Command) error {
	err := godotenv.Load(a.envFile)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env") {
		return nil
	}
	return fmt.Errorf("loading env file: %w", err)
}

func (a *app) backendFactory() (cloudtranslate.BackendFactory, error) {
	var factory cloudtranslate.BackendFactory

	switch name := strings.ToLower(a.v.GetString(keyBackend)); name {
	case "google":
		factory = backend.NewGoogle
	case "openai":
		cfg := backend.OpenAIConfig{Model: a.v.GetString(keyOpenAIModel)}
		if a.v.GetString(cloudtranslate.OptKey) == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		factory = backend.OpenAIFactory(cfg)
	case "mock":
		factory = backend.MockFactory(backend.NewMock())
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}

	var mws []backend.Middleware
	if n := a.v.GetInt(keyBreakerFailures); n > 0 {
		mws = append(mws, backend.CircuitBreaker(backend.BreakerConfig{FailureThreshold: uint32(n)}))
	}
	if rpm := a.v.GetInt(keyRateLimit); rpm > 0 {
		mws = append(mws, backend.RateLimited(backend.RateLimitConfig{RequestsPerMinute: rpm}))
	}
	if len(mws) > 0 {
		factory = backend.WithMiddleware(factory, mws...)
	}

	return factory, nil
}

func (a *app) cacheStore(ctx context.Context) (cache.Store, error) {
	switch name := strings.ToLower(a.v.GetString(keyCacheStore)); name {
	case "memory":
		return cache.NewInMemoryCache(), nil
	case "ristretto":
		c, err := cache.NewRistrettoCache(cache.RistrettoConfig{})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { c.Close(); return nil })
		return c, nil
	case "redis":
		url := a.v.GetString(keyRedisURL)
		if url == "" {
			return nil, fmt.Errorf("--redis-url is required for the redis cache store")
		}
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: url})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c.Close)
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache store %q", name)
	}
}

// importCache loads the cache file into the store if it exists.
func (a *app) importCache() error {
	path := a.v.GetString(keyCacheFile)
	if path == "" {
		return nil
	}
	if _, ok := a.store.(*cache.InMemoryCache); !ok {
		return fmt.Errorf("--cache-file requires the memory cache store")
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	result, err := cache.NewImporter(a.store).ImportFromFile(path)
	if err != nil {
		return fmt.Errorf("importing cache: %w", err)
	}
	a.log.Debug().Int("imported", result.Imported).Int("failed", result.Failed).Str("file", path).Msg("cache loaded")
	return nil
}

// exportCache writes the memory cache back to the cache file.
func (a *app) exportCache() error {
	path := a.v.GetString(keyCacheFile)
	memory, ok := a.store.(*cache.InMemoryCache)
	if path == "" || !ok {
		return nil
	}

	metadata := map[string]string{
		"backend": a.v.GetString(keyBackend),
		"version": cloudtranslate.FullVersion(),
		"saved":   time.Now().UTC().Format(time.RFC3339),
	}
	if err := cache.NewExporter(memory).ExportToFile(path, metadata); err != nil {
		return fmt.Errorf("exporting cache: %w", err)
	}
	a.log.Debug().Int("entries", memory.Len()).Str("file", path).Msg("cache saved")
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}
