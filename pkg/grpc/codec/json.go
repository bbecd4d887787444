// Package codec provides a connect codec for plain Go structs
package codec

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Name replaces connect's protojson codec
const Name = "json"

type JSON struct{}

var _ connect.Codec = JSON{}

func (JSON) Name() string {
	return Name
}

func (JSON) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSON) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}

// MarshalStable is used by connect for GET requests and cache keys.
// encoding/json sorts map keys, so the output is already stable.
func (c JSON) MarshalStable(msg any) ([]byte, error) {
	return c.Marshal(msg)
}

func (JSON) IsBinary() bool {
	return false
}

// HandlerOption registers the codec for a handler
func HandlerOption() connect.HandlerOption {
	return connect.WithCodec(JSON{})
}

// ClientOption makes a client send and accept JSON
func ClientOption() connect.ClientOption {
	return connect.WithCodec(JSON{})
}
