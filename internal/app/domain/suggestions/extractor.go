package suggestions

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrNoJSONFound means the completion text contained neither a fenced json
// block nor a bare object.
var ErrNoJSONFound = errors.New("no valid JSON found in the completion response")

// MalformedJSONError means a JSON span was located but did not parse. The
// offending text is kept for diagnostics and must never be returned to API
// callers as if it were valid data.
type MalformedJSONError struct {
	Raw string
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON in completion response: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

// jsonBlockRe prefers a fenced ```json block; failing that it takes the
// span from the first { to the last }. The bare branch is deliberately
// greedy so nested objects stay intact.
var jsonBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```|(\\{.*\\})")

// ExtractJSON locates the JSON object inside raw model output and decodes it
// into v. Pure function; it never repairs or coerces malformed output.
func ExtractJSON(text string, v any) error {
	match := jsonBlockRe.FindStringSubmatch(text)
	if match == nil {
		return ErrNoJSONFound
	}

	jsonStr := match[1]
	if jsonStr == "" {
		jsonStr = match[2]
	}
	if jsonStr == "" {
		return ErrNoJSONFound
	}

	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return &MalformedJSONError{Raw: jsonStr, Err: err}
	}
	return nil
}
