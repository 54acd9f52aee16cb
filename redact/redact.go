// Package redact classifies environment variable names and masks values that
// look sensitive. The classifier and the mask are pure functions: no I/O, no
// process state, total over any string input.
package redact

import "strings"

// triggers is the fixed allowlist of name substrings that mark a variable as
// sensitive. Matching is case-insensitive containment anywhere in the name
// (PASSPORT matches PASS, MONKEY matches KEY). There is deliberately no
// configuration surface to extend this list.
var triggers = [...]string{"KEY", "TOKEN", "CRED", "PASS"}

// Pair is one environment variable. A slice of Pairs preserves the order the
// host enumerated them in.
type Pair struct {
	Name  string
	Value string
}

// Sensitive reports whether a variable name contains any trigger substring,
// case-insensitively.
func Sensitive(name string) bool {
	upper := strings.ToUpper(name)
	for _, t := range triggers {
		if strings.Contains(upper, t) {
			return true
		}
	}
	return false
}

// Mask replaces every ASCII alphanumeric byte with '*' and leaves everything
// else (punctuation, whitespace, non-ASCII) in place, preserving length and
// structure. Iteration is byte-wise: only ASCII is ever masked, and values
// are not required to be valid UTF-8. Masking is idempotent: '*' is not
// alphanumeric.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if isAlnum(value[i]) {
			b.WriteByte('*')
		} else {
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// Render produces one NAME=VALUE line per pair in snapshot order, masking the
// value when the name is sensitive. An empty snapshot renders as "".
func Render(env []Pair) string {
	var b strings.Builder
	for i, p := range env {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		if Sensitive(p.Name) {
			b.WriteString(Mask(p.Value))
		} else {
			b.WriteString(p.Value)
		}
	}
	return b.String()
}

// FromEnviron converts an os.Environ-style "NAME=value" slice into ordered
// pairs, splitting on the first '='. Entries without '=' become a pair with
// an empty value.
func FromEnviron(environ []string) []Pair {
	pairs := make([]Pair, 0, len(environ))
	for _, kv := range environ {
		name, value, _ := strings.Cut(kv, "=")
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs
}
