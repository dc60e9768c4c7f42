package wave

import (
	"bytes"
	"encoding/gob"
)

// Version names the version of this wire format. It is not carried in
// the transport knock or in any frame.
const Version = "0.1.0"

// Encode serializes w for transport across a lane. gob is the wire
// codec; Encode/Decode are the single seam serialization goes through,
// so swapping in another self-describing codec is a one-file change.
func Encode(w *Wave) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes a Wave previously produced by Encode.
func Decode(b []byte) (*Wave, error) {
	var w Wave
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return nil, err
	}
	return &w, nil
}
