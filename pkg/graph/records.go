package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/skilltree/pkg/tree"
)

// Record file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RecordSet is the object form of a records file.
type RecordSet struct {
	Records []tree.Record `json:"records" yaml:"records" bson:"records"`
}

// FormatFromPath returns the record format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported record file extension %q", filepath.Ext(path))
	}
}

// ReadRecordsFile reads records from a JSON or YAML file.
func ReadRecordsFile(path string) ([]tree.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalRecords(data, format)
}

// ReadRecords decodes records from r in the given format.
func ReadRecords(r io.Reader, format string) ([]tree.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return UnmarshalRecords(data, format)
}

// UnmarshalRecords decodes either a bare list of records or a [RecordSet].
// Empty input yields no records and no error.
func UnmarshalRecords(data []byte, format string) ([]tree.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch format {
	case FormatJSON:
		if data[0] == '[' {
			var list []tree.Record
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, fmt.Errorf("decode records: %w", err)
			}
			return list, nil
		}
		var set RecordSet
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return set.Records, nil

	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		if node.Content[0].Kind == yaml.SequenceNode {
			var list []tree.Record
			if err := node.Decode(&list); err != nil {
				return nil, fmt.Errorf("decode records: %w", err)
			}
			return list, nil
		}
		var set RecordSet
		if err := node.Decode(&set); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return set.Records, nil

	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
}

// MarshalRecords encodes records as a [RecordSet] in the given format.
func MarshalRecords(records []tree.Record, format string) ([]byte, error) {
	set := RecordSet{Records: records}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(set, "", "  ")
	case FormatYAML:
		return yaml.Marshal(set)
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
}

// WriteRecordsFile writes records to path, picking the format from the
// file extension.
func WriteRecordsFile(records []tree.Record, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := MarshalRecords(records, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
