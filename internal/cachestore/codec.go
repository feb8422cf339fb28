package cachestore

import (
	"bytes"
	"encoding/gob"
)

// EncodeValue serializes an arbitrary Go value using encoding/gob. Callers
// must ensure values are gob-encodable; custom struct types need
// gob.Register before first use.
func EncodeValue(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	// Encode through an interface so DecodeValue can recover the dynamic
	// type without knowing it up front.
	iv := v
	if err := enc.Encode(&iv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue reverses EncodeValue. Empty input decodes to nil.
func DecodeValue(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var iv any
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&iv); err != nil {
		return nil, err
	}
	return iv, nil
}
