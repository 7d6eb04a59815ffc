package question

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse when the payload is not valid JSON.
var ErrInvalidJSON = errors.New("payload is not valid JSON")

// Flatten extracts question-like records from a category payload.
// A top-level array is the record list. A top-level object contributes every
// array-valued member, concatenated in document order. Anything else yields
// no records.
func Flatten(payload gjson.Result) []gjson.Result {
	switch {
	case payload.IsArray():
		return payload.Array()
	case payload.IsObject():
		var out []gjson.Result
		payload.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				out = append(out, value.Array()...)
			}
			return true
		})
		return out
	}
	return nil
}

// Parse validates body as JSON and flattens it into raw records.
func Parse(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	return Flatten(gjson.ParseBytes(body)), nil
}
