package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// protectedFields are managed by the repository and never taken from a patch
var protectedFields = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// merge overlays patch on rec field by field, using the JSON field names.
// A null value clears the field. Unknown fields are rejected.
func merge[T any](rec T, patch map[string]interface{}) (T, error) {
	var zero T

	base, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("encode record: %w", err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}

	for k, v := range patch {
		if protectedFields[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("encode field %s: %w", k, err)
		}
		fields[k] = raw
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("encode merged record: %w", err)
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, fmt.Errorf("apply patch: %w", err)
	}
	return out, nil
}
