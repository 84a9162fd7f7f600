package manifest

import "fmt"

// ManifestError indicates a missing, unreadable or malformed manifest.
// Fatal at startup: the process must not serve predictions.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// ShardError indicates a missing or unreadable weight shard file.
// Fatal at startup, same as ManifestError.
type ShardError struct {
	Shard string
	Err   error
}

func (e *ShardError) Error() string {
	return fmt.Sprintf("shard %s: %v", e.Shard, e.Err)
}

func (e *ShardError) Unwrap() error {
	return e.Err
}
