package webclient

import (
	"fmt"
	"mime"
	"sort"
	"strings"
)

// A MediaType is a parsed Content-Type or Accept value.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Commonly used media types.
var (
	All                 = MediaType{Type: "*", Subtype: "*"}
	ApplicationJSON     = MediaType{Type: "application", Subtype: "json"}
	ApplicationJSONUTF8 = MediaType{Type: "application", Subtype: "json", Params: map[string]string{"charset": "UTF-8"}}
	TextPlain           = MediaType{Type: "text", Subtype: "plain"}
)

// ParseMediaType parses a header value like "application/json; charset=utf-8".
// Type, subtype, and parameter names are lowercased.
func ParseMediaType(v string) (MediaType, error) {
	full, params, err := mime.ParseMediaType(v)
	if err != nil {
		return MediaType{}, fmt.Errorf("parse media type %q: %w", v, err)
	}
	typ, sub, ok := strings.Cut(full, "/")
	if !ok || typ == "" || sub == "" {
		return MediaType{}, fmt.Errorf("parse media type %q: missing subtype", v)
	}
	if len(params) == 0 {
		params = nil
	}
	return MediaType{Type: typ, Subtype: sub, Params: params}, nil
}

// MustParseMediaType is like ParseMediaType, but panics on error.
func MustParseMediaType(v string) MediaType {
	m, err := ParseMediaType(v)
	if err != nil {
		panic(err)
	}
	return m
}

// EqualsTypeAndSubtype reports whether m and other have the same type and
// subtype, ignoring parameters.
func (m MediaType) EqualsTypeAndSubtype(other MediaType) bool {
	return strings.EqualFold(m.Type, other.Type) && strings.EqualFold(m.Subtype, other.Subtype)
}

// Equal reports whether m and other have the same type, subtype, and
// parameters. Charset values are compared case-insensitively, so
// "application/json;charset=UTF-8" equals "application/json; charset=utf-8".
func (m MediaType) Equal(other MediaType) bool {
	if !m.EqualsTypeAndSubtype(other) || len(m.Params) != len(other.Params) {
		return false
	}
	for name, value := range m.Params {
		otherValue, ok := lookupParam(other.Params, name)
		if !ok {
			return false
		}
		if strings.EqualFold(name, "charset") {
			if !strings.EqualFold(value, otherValue) {
				return false
			}
		} else if value != otherValue {
			return false
		}
	}
	return true
}

// String formats m for use in a header.
func (m MediaType) String() string {
	if s := mime.FormatMediaType(m.Type+"/"+m.Subtype, m.Params); s != "" {
		return s
	}
	var sb strings.Builder
	sb.WriteString(m.Type + "/" + m.Subtype)
	names := make([]string, 0, len(m.Params))
	for name := range m.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString("; " + name + "=" + m.Params[name])
	}
	return sb.String()
}

func lookupParam(params map[string]string, name string) (string, bool) {
	if v, ok := params[name]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
