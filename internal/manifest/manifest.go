package manifest

import "fmt"

// DType is the numeric element type of a weight tensor.
type DType string

const (
	DTypeFloat32 DType = "float32"
	DTypeInt32   DType = "int32"
	DTypeUint8   DType = "uint8"
)

// Size returns the byte width of one element of the dtype.
func (d DType) Size() (int64, error) {
	switch d {
	case DTypeFloat32, DTypeInt32:
		return 4, nil
	case DTypeUint8:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown dtype %q", string(d))
	}
}

// Topology is the opaque graph description carried by the manifest.
// The serving layer only needs the tensor names and dimensions to bind
// a session; the graph itself lives in the assembled weight buffer.
type Topology struct {
	Format     string `json:"format"`
	InputName  string `json:"input_name"`
	OutputName string `json:"output_name"`
	InputSize  int    `json:"input_size"`
	ClassCount int    `json:"class_count"`
}

// WeightSpec describes one named weight tensor inside the buffer.
// Byte ranges are implied by declaration order: each spec starts where
// the previous one ended.
type WeightSpec struct {
	Name  string  `json:"name"`
	Shape []int64 `json:"shape"`
	DType DType   `json:"dtype"`
}

// ByteLen returns the byte length of the spec's tensor.
func (w WeightSpec) ByteLen() (int64, error) {
	size, err := w.DType.Size()
	if err != nil {
		return 0, fmt.Errorf("weight %q: %w", w.Name, err)
	}

	n := int64(1)
	for _, d := range w.Shape {
		if d <= 0 {
			return 0, fmt.Errorf("weight %q: invalid dimension %d", w.Name, d)
		}
		n *= d
	}

	return n * size, nil
}

// Manifest is the on-disk model description: graph topology, ordered
// weight specifications and the ordered shard files holding the bytes.
type Manifest struct {
	Version  string       `json:"version"`
	Topology Topology     `json:"topology"`
	Weights  []WeightSpec `json:"weights"`
	Shards   []string     `json:"shards"`
}

// TotalWeightBytes sums the byte lengths of all weight specs.
func (m *Manifest) TotalWeightBytes() (int64, error) {
	var total int64
	for _, w := range m.Weights {
		n, err := w.ByteLen()
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}

// SliceWeights cuts the assembled buffer into named per-tensor byte
// ranges, walking the specs in declaration order. The returned slices
// alias the buffer; no bytes are copied. Any leftover or missing bytes
// are an error.
func SliceWeights(specs []WeightSpec, buffer []byte) (map[string][]byte, error) {
	weights := make(map[string][]byte, len(specs))

	var offset int64
	for _, spec := range specs {
		n, err := spec.ByteLen()
		if err != nil {
			return nil, err
		}
		if offset+n > int64(len(buffer)) {
			return nil, fmt.Errorf("weight %q: range [%d, %d) exceeds buffer length %d",
				spec.Name, offset, offset+n, len(buffer))
		}
		if _, dup := weights[spec.Name]; dup {
			return nil, fmt.Errorf("weight %q: duplicate name", spec.Name)
		}

		weights[spec.Name] = buffer[offset : offset+n]
		offset += n
	}

	if offset != int64(len(buffer)) {
		return nil, fmt.Errorf("weight specs cover %d bytes but buffer holds %d", offset, len(buffer))
	}

	return weights, nil
}
