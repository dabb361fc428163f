package entities

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// ID identifies a record on the remote API. The API emits both numeric and
// string identifiers depending on the table, so ID accepts either.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*id = ID(data)
	return nil
}

// Entity is the generic constraint shared by every domain record and the
// infrastructure adapters (REST resources, message queue mappers).
type Entity interface {
	Key() ID
}
