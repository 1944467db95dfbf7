package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an entity identifier. Clients generate ids locally (often numeric
// timestamps) while the server stores them as text, so the wire format
// tolerates both JSON numbers and strings. Comparison always happens on the
// string form.
type ID string

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a string, a number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
