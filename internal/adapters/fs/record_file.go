// Package fs loads and stores timeline records as JSON, YAML or TOML files.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/runlane/internal/domain"
)

// Format identifies a record file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q (want .json, .yaml, .yml or .toml)", domain.ErrUnsupportedFormat, path)
}

// recordDocument is the wrapped form {"runs": [...]}, the only form TOML allows.
type recordDocument struct {
	Runs []domain.RecordMeta `json:"runs" yaml:"runs" toml:"runs"`
}

// RecordFile implements ports.RecordSource backed by a file on disk.
type RecordFile struct {
	path string
}

// NewRecordFile creates a RecordFile for path.
func NewRecordFile(path string) *RecordFile {
	return &RecordFile{path: path}
}

// Path returns the backing file path.
func (f *RecordFile) Path() string {
	return f.path
}

// Load reads and decodes every record in the file. Records without an id
// are assigned a random UUID.
func (f *RecordFile) Load(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := FormatForPath(f.path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	metas, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}

	records := make([]domain.Record, 0, len(metas))
	for i, m := range metas {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		r, err := m.ToRecord()
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", f.path, i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Save writes records atomically (temp file, then rename) in the file's format.
func (f *RecordFile) Save(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	format, err := FormatForPath(f.path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	metas := make([]domain.RecordMeta, len(records))
	for i, r := range records {
		metas[i] = r.ToMeta()
	}
	data, err := Encode(format, metas)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Decode parses data as either a bare list of records or a {runs: [...]}
// document. TOML only supports the document form.
func Decode(format Format, data []byte) ([]domain.RecordMeta, error) {
	var doc recordDocument
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err := json.Unmarshal(trimmed, &doc.Runs)
			return doc.Runs, err
		}
		err := json.Unmarshal(trimmed, &doc)
		return doc.Runs, err
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		if node.Content[0].Kind == yaml.SequenceNode {
			err := node.Content[0].Decode(&doc.Runs)
			return doc.Runs, err
		}
		err := node.Content[0].Decode(&doc)
		return doc.Runs, err
	case FormatTOML:
		err := toml.Unmarshal(data, &doc)
		return doc.Runs, err
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
}

// Encode serializes records in the {runs: [...]} document form.
func Encode(format Format, metas []domain.RecordMeta) ([]byte, error) {
	doc := recordDocument{Runs: metas}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		return toml.Marshal(doc)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
}
