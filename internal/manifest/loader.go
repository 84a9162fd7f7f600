package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is the output of a successful load: everything model
// construction needs, with the weight buffer fully resident. The
// buffer is handed over to the model builder and must not be reused
// by the caller afterwards.
type Artifact struct {
	Topology Topology
	Weights  []WeightSpec
	Buffer   []byte
}

// Load reads and validates the manifest at manifestPath, then reads
// every referenced shard from shardDir and concatenates them in
// manifest order into a single contiguous buffer. Concatenation order
// is load-bearing: weight byte ranges assume exactly this order.
//
// The whole weight set is read into memory before returning; there is
// no streaming path. A total byte length that disagrees with the sum
// of the weight specs is a fatal *ManifestError.
func Load(manifestPath, shardDir string) (*Artifact, error) {
	m, err := parse(manifestPath)
	if err != nil {
		return nil, err
	}

	expected, err := m.TotalWeightBytes()
	if err != nil {
		return nil, &ManifestError{Path: manifestPath, Err: err}
	}

	buffer := make([]byte, 0, expected)
	for _, shard := range m.Shards {
		data, err := os.ReadFile(filepath.Join(shardDir, shard))
		if err != nil {
			return nil, &ShardError{Shard: shard, Err: err}
		}
		buffer = append(buffer, data...)
	}

	if int64(len(buffer)) != expected {
		return nil, &ManifestError{
			Path: manifestPath,
			Err:  fmt.Errorf("shards hold %d bytes but weight specs require %d", len(buffer), expected),
		}
	}

	return &Artifact{
		Topology: m.Topology,
		Weights:  m.Weights,
		Buffer:   buffer,
	}, nil
}

// parse reads the manifest file, validates it against the schema and
// unmarshals it.
func parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ManifestError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := schema.Validate(raw); err != nil {
		return nil, &ManifestError{Path: path, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}

	return &m, nil
}
