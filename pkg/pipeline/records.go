package pipeline

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/tree"
)

// LoadRecords returns the records named by opts: inline Records win over
// the Input file. Neither being set is an EMPTY_INPUT error.
func LoadRecords(opts Options) ([]tree.Record, error) {
	if len(opts.Records) > 0 {
		return opts.Records, nil
	}
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no records given")
	}
	if _, err := os.Stat(opts.Input); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "records file not found: %s", opts.Input)
	}
	records, err := graph.ReadRecordsFile(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read records")
	}
	return records, nil
}

// HashRecords returns the content hash used in layout cache keys.
func HashRecords(records []tree.Record) string {
	data, _ := json.Marshal(records)
	return cache.Hash(data)
}
