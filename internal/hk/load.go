package hk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// Load reads path, strips JSONC comments and trailing commas via hujson, and
// decodes the result into a Value tree.
//
// Unlike json.Unmarshal into map[string]any, this walks the token stream by
// hand so that object key order survives into the returned Map: dependency
// and interpolation lookups need reproducible ordering, which a Go map
// cannot give back on its own.
func Load(path string) (Value, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Value{}, fmt.Errorf("hk: reading %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Value{}, fmt.Errorf("hk: parsing %s: %w", path, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(standardized)))

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("hk: parsing %s: %w", path, err)
	}

	return v, nil
}

// decodeValue decodes exactly one JSON value from dec into a Value.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		default:
			return Value{}, fmt.Errorf("hk: unsupported JSON value %q (only objects, strings and booleans are valid in info.hk)", t)
		}
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	default:
		return Value{}, fmt.Errorf("hk: unsupported JSON value %v (only objects, strings and booleans are valid in info.hk)", tok)
	}
}

// decodeObject decodes a JSON object whose opening '{' has already been
// consumed, preserving key order.
func decodeObject(dec *json.Decoder) (Value, error) {
	m := NewMap()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("hk: expected string object key, got %v", keyTok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}

		m.Set(key, val)
	}

	// Consume the closing '}'.
	closeTok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	if d, ok := closeTok.(json.Delim); !ok || d != '}' {
		return Value{}, errors.New("hk: malformed object: missing closing brace")
	}

	return MapValue(m), nil
}
