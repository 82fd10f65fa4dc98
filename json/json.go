// Package json re-exports the parts of encoding/json that are shared across
// this module's packages so callers don't depend on encoding/json directly.
package json

import "encoding/json"

type Marshaler = json.Marshaler
type Unmarshaler = json.Unmarshaler

func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
