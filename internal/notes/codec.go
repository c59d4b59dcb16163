package notes

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMalformed = errors.New("malformed notes record")

// EncodeNotes serializes the collection in order. A nil slice encodes as
// an empty array.
func EncodeNotes(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	return json.Marshal(notes)
}

// DecodeNotes parses a persisted collection. Records with a non-positive
// or repeated id make the whole value malformed.
func DecodeNotes(data []byte) ([]Note, error) {
	var out []Note
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	seen := make(map[int64]struct{}, len(out))
	for _, n := range out {
		if n.ID <= 0 {
			return nil, fmt.Errorf("%w: invalid id %d", errMalformed, n.ID)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", errMalformed, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	if out == nil {
		out = []Note{}
	}
	return out, nil
}

// EncodeBool serializes a preference flag.
func EncodeBool(v bool) []byte {
	if v {
		return []byte("true")
	}
	return []byte("false")
}

// DecodeBool parses a preference flag.
func DecodeBool(data []byte) (bool, error) {
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return false, err
	}
	return v, nil
}
