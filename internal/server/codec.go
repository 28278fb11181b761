package server

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// jsonCodec lets Connect handlers exchange plain Go structs as JSON.
type jsonCodec struct {
	name string
}

func (c jsonCodec) Name() string {
	return c.name
}

func (c jsonCodec) Marshal(message any) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(%T) > %w", message, err)
	}
	return data, nil
}

func (c jsonCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, message); err != nil {
		return fmt.Errorf("json.Unmarshal(%T) > %w", message, err)
	}
	return nil
}

// WithJSONCodec replaces the protobuf JSON codecs of a Connect handler or client.
func WithJSONCodec() connect.Option {
	return connect.WithOptions(
		connect.WithCodec(jsonCodec{name: "json"}),
		connect.WithCodec(jsonCodec{name: "json; charset=utf-8"}),
	)
}
