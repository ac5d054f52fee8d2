// Package validation contains pure field-level constraint checks for
// incoming entity payloads. It performs no I/O and is independent of the
// transport layer.
package validation

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalNumber is a numeric payload field that may arrive as a JSON
// number, a numeric string, an empty string, or null. Empty string and null
// mean "not provided" and leave Value nil; anything non-numeric is kept as
// invalid so validation can report it instead of failing at decode time.
type OptionalNumber struct {
	Value   *float64
	Invalid bool
}

func (n *OptionalNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			n.Invalid = true
			return nil
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			n.Invalid = true
			return nil
		}
		n.Value = &v
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		n.Invalid = true
		return nil
	}
	n.Value = &v
	return nil
}

// Present reports whether a usable numeric value was provided.
func (n OptionalNumber) Present() bool {
	return n.Value != nil
}
