// Package jsobj converts JavaScript object and array literals into strict
// JSON. Sites embed configuration as JS source (unquoted keys, single
// quotes, trailing commas, comments), which encoding/json and gjson both
// reject; this normalizer makes such blobs queryable.
package jsobj

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ToJSON rewrites a JS object/array literal as strict JSON bytes.
func ToJSON(src string) ([]byte, error) {
	var out strings.Builder
	out.Grow(len(src))

	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			lit, next, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			out.WriteString(lit)
			i = next
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, errors.New("jsobj: unterminated comment")
			}
			i += end + 4
		case c == ',':
			// drop trailing commas before a closing bracket
			j := i + 1
			for j < n && isSpace(src[j]) {
				j++
			}
			if j < n && (src[j] == '}' || src[j] == ']') {
				i++
				continue
			}
			out.WriteByte(c)
			i++
		case c >= '0' && c <= '9', c == '-' && i+1 < n && src[i+1] >= '0' && src[i+1] <= '9':
			start := i
			i++
			for i < n && (src[i] == '.' || src[i] == '+' || src[i] == '-' ||
				src[i] == 'e' || src[i] == 'E' || (src[i] >= '0' && src[i] <= '9')) {
				i++
			}
			out.WriteString(src[start:i])
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(src[i]) {
				i++
			}
			word := src[start:i]
			out.WriteString(quoteWord(src, i, word))
		default:
			out.WriteByte(c)
			i++
		}
	}
	return []byte(out.String()), nil
}

// Parse normalizes a JS literal and parses it with gjson.
func Parse(src string) (gjson.Result, error) {
	by, err := ToJSON(src)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(by) {
		return gjson.Result{}, errors.New("jsobj: not a valid object literal")
	}
	return gjson.ParseBytes(by), nil
}

// quoteWord decides whether a bare identifier is an object key (followed
// by a colon), a JSON literal, or a bare string value.
func quoteWord(src string, pos int, word string) string {
	switch word {
	case "true", "false", "null":
		return word
	case "undefined":
		return "null"
	}
	j := pos
	for j < len(src) && isSpace(src[j]) {
		j++
	}
	if j < len(src) && src[j] == ':' {
		return `"` + word + `"`
	}
	// bare value; numbers pass through, anything else gets quoted
	if isNumeric(word) {
		return word
	}
	return `"` + word + `"`
}

// scanString re-emits a quoted string with double quotes and JSON-safe
// escapes.
func scanString(src string, start int) (string, int, error) {
	quote := src[start]
	var out strings.Builder
	out.WriteByte('"')
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch c {
		case '\\':
			if i+1 >= len(src) {
				return "", 0, errors.New("jsobj: dangling escape")
			}
			esc := src[i+1]
			if esc == '\'' {
				out.WriteByte('\'')
			} else {
				out.WriteByte('\\')
				out.WriteByte(esc)
			}
			i += 2
		case quote:
			out.WriteByte('"')
			return out.String(), i + 1, nil
		case '"':
			out.WriteString(`\"`)
			i++
		case '\n':
			out.WriteString(`\n`)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return "", 0, errors.New("jsobj: unterminated string")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isNumeric(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < '0' || word[i] > '9' {
			return false
		}
	}
	return len(word) > 0
}
