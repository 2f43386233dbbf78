package transform

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/skimerr"
)

// runJSON strips every value out of a JSON document and keeps only its
// key/nesting structure, mirroring original_source's transform_json:
// objects keep their keys, arrays of primitives collapse to just the key
// name, and an array of objects shows the structure of its first element.
// Structure and Types modes share this output (JSON has no type grammar
// to distinguish them); Full and Signatures pass the bytes through
// unchanged.
//
// Key order follows source order rather than original_source's
// serde_json::Map ordering (alphabetical unless the preserve_order
// Cargo feature is enabled, which this pack's build files don't confirm
// either way) — a streaming json.Decoder over the source bytes is used
// instead of decoding into a Go map, specifically to keep that order
// intact rather than losing it to map iteration.
func runJSON(source []byte, mode Mode) ([]byte, error) {
	if mode == Full || mode == Signatures {
		return append([]byte(nil), source...), nil
	}

	dec := json.NewDecoder(bytes.NewReader(source))
	keys := safety.NewDeclCounter(safety.MaxDeclarations)
	structure, err := extractJSONStructure(dec, 0, keys)
	if err != nil {
		return nil, err
	}
	return []byte(structure), nil
}

// extractJSONStructure dispatches on the next JSON value's kind, the
// streaming-decoder equivalent of matching on a parsed serde_json::Value.
func extractJSONStructure(dec *json.Decoder, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if err := depth.Check(); err != nil {
		return "", err
	}
	tok, err := dec.Token()
	if err != nil {
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			return extractJSONObjectStructure(dec, depth, keys)
		case '[':
			return extractJSONArrayStructure(dec, depth, keys)
		}
	}
	return "", nil // a primitive at this level has no structure of its own
}

// extractJSONObjectStructure reads key/value pairs up to the object's
// closing brace, formatting each line as "key" or "key: <nested>".
func extractJSONObjectStructure(dec *json.Decoder, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if !dec.More() {
		if _, err := dec.Token(); err != nil { // '}'
			return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
		}
		return "{}", nil
	}

	indent := strings.Repeat("  ", int(depth))
	nextIndent := strings.Repeat("  ", int(depth)+1)
	var lines []string

	for dec.More() {
		if err := keys.Inc(); err != nil {
			return "", err
		}
		keyTok, err := dec.Token()
		if err != nil {
			return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
		}
		key, _ := keyTok.(string)

		suffix, err := formatJSONValue(dec, depth+1, keys)
		if err != nil {
			return "", err
		}
		lines = append(lines, nextIndent+key+suffix)
	}

	if _, err := dec.Token(); err != nil { // '}'
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}

	return "{\n" + strings.Join(lines, ",\n") + "\n" + indent + "}", nil
}

// formatJSONValue reads one object-field value and returns the suffix to
// append after its key: ": <structure>" for an object, a structure
// suffix for an array of objects, or "" for anything else.
func formatJSONValue(dec *json.Decoder, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if err := depth.Check(); err != nil {
		return "", err
	}
	tok, err := dec.Token()
	if err != nil {
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			structure, err := extractJSONObjectStructure(dec, depth, keys)
			if err != nil {
				return "", err
			}
			return ": " + structure, nil
		case '[':
			return formatJSONArrayValue(dec, depth, keys)
		}
	}
	return "", nil
}

// extractJSONArrayStructure handles a JSON array at the document root:
// an empty array is "[]", an array of objects shows the first object's
// structure, anything else is also "[]". Elements beyond the first are
// consumed (the decoder must stay in sync) but not reflected in the
// output, matching original_source's behavior of only ever examining
// the first element.
func extractJSONArrayStructure(dec *json.Decoder, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if !dec.More() {
		if _, err := dec.Token(); err != nil { // ']'
			return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
		}
		return "[]", nil
	}

	firstTok, err := dec.Token()
	if err != nil {
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}

	structure := "[]"
	if firstTok == json.Delim('{') {
		structure, err = extractJSONObjectStructure(dec, depth, keys)
		if err != nil {
			return "", err
		}
	} else if err := skipJSONRest(dec, firstTok); err != nil {
		return "", err
	}

	for dec.More() {
		if err := skipJSONValue(dec); err != nil {
			return "", err
		}
	}
	if _, err := dec.Token(); err != nil { // ']'
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}

	return structure, nil
}

// formatJSONArrayValue handles an array that is an object field's value:
// an empty array or an array of primitives contributes no suffix at all,
// an array of objects contributes ": <first element's structure>".
func formatJSONArrayValue(dec *json.Decoder, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if !dec.More() {
		if _, err := dec.Token(); err != nil { // ']'
			return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
		}
		return "", nil
	}

	firstTok, err := dec.Token()
	if err != nil {
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}

	suffix := ""
	if firstTok == json.Delim('{') {
		structure, err := extractJSONObjectStructure(dec, depth, keys)
		if err != nil {
			return "", err
		}
		suffix = ": " + structure
	} else if err := skipJSONRest(dec, firstTok); err != nil {
		return "", err
	}

	for dec.More() {
		if err := skipJSONValue(dec); err != nil {
			return "", err
		}
	}
	if _, err := dec.Token(); err != nil { // ']'
		return "", skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}

	return suffix, nil
}

// skipJSONValue discards one JSON value the structure extraction has no
// further use for (an array element past the first), advancing the
// decoder without validating it against the depth/key caps — the caller
// already decided this subtree contributes nothing to the output.
func skipJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
	}
	return skipJSONRest(dec, tok)
}

// skipJSONRest discards the remainder of a value whose opening token has
// already been read.
func skipJSONRest(dec *json.Decoder, tok json.Token) error {
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		for dec.More() {
			if _, err := dec.Token(); err != nil { // key
				return skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
			}
			if err := skipJSONValue(dec); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil { // '}'
			return skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
		}
	case '[':
		for dec.More() {
			if err := skipJSONValue(dec); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil { // ']'
			return skimerr.Wrap(skimerr.ParseError, err, "parsing JSON source")
		}
	}
	return nil
}
