package internal

import (
	"reflect"
	"strings"
	"unicode"
)

// ParseTag parses `envline:"<name>[,optional][,omitempty]"` into components.
// Returns (name, optional, omitempty, ok). Unexported fields and fields
// tagged "-" report ok=false. An empty tag name falls back to the Go
// field name.
func ParseTag(f reflect.StructField) (string, bool, bool, bool) {
	if f.PkgPath != "" {
		return "", false, false, false
	}
	tag := f.Tag.Get("envline")
	if tag == "-" {
		return "", false, false, false
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = f.Name
	}
	var optional, omitempty bool
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "optional":
			optional = true
		case "omitempty":
			omitempty = true
		}
	}
	return name, optional, omitempty, true
}

// UpperSnake converts a Go field name to an upper-snake key segment:
// OtherInt32 becomes OTHER_INT32, HTTPServer becomes HTTP_SERVER,
// Uint8 stays UINT8. Names that are already snake_case are simply
// uppercased.
func UpperSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
