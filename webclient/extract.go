package webclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// An Extractor converts a response into a value. Extractors may read the body
// but needn't close it.
type Extractor[T any] func(*http.Response) (T, error)

// A ResponseEntity is a response's status, headers, and decoded body.
type ResponseEntity[T any] struct {
	StatusCode int
	Header     http.Header
	Body       T
}

// ContentType parses the Content-Type header.
func (e ResponseEntity[T]) ContentType() (MediaType, error) {
	v := e.Header.Get("Content-Type")
	if v == "" {
		return MediaType{}, errors.New("response has no Content-Type")
	}
	return ParseMediaType(v)
}

// Response extracts a ResponseEntity. A string or []byte body is the raw
// payload; any other type is decoded from JSON. An empty body leaves Body at
// its zero value.
func Response[T any]() Extractor[ResponseEntity[T]] {
	return func(res *http.Response) (ResponseEntity[T], error) {
		body, err := decodeBody[T](res)
		if err != nil {
			return ResponseEntity[T]{}, err
		}
		return ResponseEntity[T]{
			StatusCode: res.StatusCode,
			Header:     res.Header.Clone(),
			Body:       body,
		}, nil
	}
}

// Body extracts only the response body, decoded as in Response.
func Body[T any]() Extractor[T] {
	return decodeBody[T]
}

func decodeBody[T any](res *http.Response) (T, error) {
	var body T
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return body, fmt.Errorf("read response body: %w", err)
	}
	switch b := any(&body).(type) {
	case *string:
		*b = string(raw)
	case *[]byte:
		*b = raw
	default:
		if len(raw) == 0 {
			return body, nil
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return body, fmt.Errorf("decode %q response body as %T: %w", res.Header.Get("Content-Type"), body, err)
		}
	}
	return body, nil
}
