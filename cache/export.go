package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportVersion is the version of the export file format.
const ExportVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry.
type ExportEntry struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"` // 0 means no expiry
}

// Exporter writes the contents of an in-memory cache as JSON.
type Exporter struct {
	cache *InMemoryCache
}

// NewExporter creates a new cache exporter.
func NewExporter(cache *InMemoryCache) *Exporter {
	return &Exporter{cache: cache}
}

// Export writes the cache contents to w.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	data := e.cache.Entries()
	entries := make([]ExportEntry, 0, len(data))
	for key, entry := range data {
		entries = append(entries, ExportEntry{
			Key:        key,
			Value:      entry.Value,
			TTLSeconds: int64(entry.TTL / time.Second),
		})
	}

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the cache to a file.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(f, metadata)
}

// Importer loads exported entries into any Store.
type Importer struct {
	cache Store
}

// NewImporter creates a new cache importer.
func NewImporter(cache Store) *Importer {
	return &Importer{cache: cache}
}

// Import reads cache entries from r and loads them into the cache.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		ttl := time.Duration(entry.TTLSeconds) * time.Second
		if err := i.cache.Put(entry.Key, entry.Value, ttl); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
