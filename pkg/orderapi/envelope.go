package orderapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID accepts identifiers encoded as JSON strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Envelope shapes the order API is known to answer with, tried in order.
// Each path is walked on its own so a malformed sibling field cannot hide
// an id that is present elsewhere.
var orderIDPaths = [][]string{
	{"data", "id"},
	{"data", "data", "id"},
	{"data", "order", "id"},
}

var redirectURLPaths = [][]string{
	{"redirect_url"},
	{"data", "redirect_url"},
}

// lookup descends one object level per key. It returns nil when a level is
// missing or is not an object.
func lookup(body []byte, path ...string) json.RawMessage {
	raw := json.RawMessage(bytes.TrimSpace(body))
	for _, key := range path {
		if len(raw) == 0 {
			return nil
		}
		var level map[string]json.RawMessage
		if err := json.Unmarshal(raw, &level); err != nil {
			return nil
		}
		raw = level[key]
	}
	return raw
}

// ExtractOrderID resolves the created order id from any supported envelope.
// It returns nil when no shape yields an id.
func ExtractOrderID(body []byte) *string {
	for _, path := range orderIDPaths {
		raw := lookup(body, path...)
		if raw == nil {
			continue
		}
		var id ID
		if err := json.Unmarshal(raw, &id); err != nil {
			continue
		}
		if v := id.String(); v != "" {
			return &v
		}
	}
	return nil
}

// ExtractRedirectURL returns an external redirect (e.g. a hosted payment page)
// found at the top level or inside data.
func ExtractRedirectURL(body []byte) string {
	for _, path := range redirectURLPaths {
		raw := lookup(body, path...)
		if raw == nil {
			continue
		}
		var url string
		if err := json.Unmarshal(raw, &url); err != nil {
			continue
		}
		if url = strings.TrimSpace(url); url != "" {
			return url
		}
	}
	return ""
}
