package history

import (
	"bytes"
	"encoding/gob"
)

// EncodeState serializes a state value using encoding/gob. Callers must
// ensure the state type is gob-encodable.
func EncodeState[S any](state S) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeState deserializes a state value previously written by
// EncodeState.
func DecodeState[S any](data []byte) (S, error) {
	var state S
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		var zero S
		return zero, err
	}
	return state, nil
}
