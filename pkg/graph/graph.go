package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/actionviz/pkg/errors"
)

// =============================================================================
// Payload Reading API
// =============================================================================

// ReadPayloadFile reads a JSON payload file and decodes it.
func ReadPayloadFile(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// ReadPayload reads all of r and decodes it as a payload.
// Use ReadPayloadFile for files or pass bytes.NewReader for in-memory data.
func ReadPayload(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return Decode(data)
}

// =============================================================================
// Elements Serialization API
// =============================================================================

// MarshalElements converts normalized elements to indented JSON bytes.
func MarshalElements(e Elements) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteElements writes normalized elements as indented JSON to w.
func WriteElements(e Elements, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
