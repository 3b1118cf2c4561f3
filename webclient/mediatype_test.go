package webclient

import (
	"testing"

	"go.akshayshah.org/attest"
)

func TestParseMediaType(t *testing.T) {
	t.Parallel()
	m, err := ParseMediaType("Application/JSON; Charset=utf-8")
	attest.Ok(t, err)
	attest.Equal(t, m.Type, "application")
	attest.Equal(t, m.Subtype, "json")
	attest.Equal(t, m.Params, map[string]string{"charset": "utf-8"})

	m, err = ParseMediaType("text/plain")
	attest.Ok(t, err)
	attest.Equal(t, m.Params == nil, true)

	_, err = ParseMediaType("")
	attest.Equal(t, err != nil, true)
	_, err = ParseMediaType("text")
	attest.Equal(t, err != nil, true)
}

func TestMediaTypeEqual(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b  string
		equal bool
		loose bool
	}{
		{"application/json;charset=UTF-8", "application/json; charset=utf-8", true, true},
		{"application/json", "application/json; charset=utf-8", false, true},
		{"text/plain", "TEXT/Plain", true, true},
		{"text/plain; format=flowed", "text/plain; format=Flowed", false, true},
		{"text/plain", "text/html", false, false},
	}
	for _, tt := range tests {
		a, b := MustParseMediaType(tt.a), MustParseMediaType(tt.b)
		attest.Equal(t, a.Equal(b), tt.equal, attest.Continue())
		attest.Equal(t, b.Equal(a), tt.equal, attest.Continue())
		attest.Equal(t, a.EqualsTypeAndSubtype(b), tt.loose, attest.Continue())
	}
	attest.Equal(t, ApplicationJSONUTF8.Equal(MustParseMediaType("application/json; charset=utf-8")), true)
}

func TestMediaTypeString(t *testing.T) {
	t.Parallel()
	attest.Equal(t, ApplicationJSON.String(), "application/json")
	attest.Equal(t, TextPlain.String(), "text/plain")
	attest.Equal(t, ApplicationJSONUTF8.String(), "application/json; charset=UTF-8")
	attest.Equal(t, All.String(), "*/*")
}
