package scene

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode serialises a scene file as msgpack.
func Encode(f *File) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("scene: msgpack marshal: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack blob produced by Encode.
func Decode(data []byte) (*File, error) {
	var f File
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scene: msgpack unmarshal: %w", err)
	}
	return &f, nil
}
