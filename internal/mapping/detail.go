package mapping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrOptionMalformed is returned when an options entry does not hold exactly one key
var ErrOptionMalformed = errors.New("option entry malformed")

// Option is a single harness option attached to a test
type Option struct {
	Key   string
	Value string
}

func (o Option) String() string {
	return o.Key + ": " + o.Value
}

// TestDetail is one test entry of a test-mapping document.
// Equality is defined by the canonical string form.
type TestDetail struct {
	name      string
	options   []Option
	canonical string
}

// NewTestDetail builds a TestDetail from a raw entry of the shape
// {"name": <string>, "options": [{<key>: <value>}, ...]}.
func NewTestDetail(raw map[string]any) (TestDetail, error) {
	name, _ := raw["name"].(string)
	if name == "" {
		return TestDetail{}, errors.New("test detail: missing name")
	}

	var options []Option
	if rawOptions, ok := raw["options"]; ok && rawOptions != nil {
		entries, ok := rawOptions.([]any)
		if !ok {
			return TestDetail{}, errors.Errorf("test detail %s: options must be a list, got %T", name, rawOptions)
		}
		for i, entry := range entries {
			m, ok := entry.(map[string]any)
			if !ok || len(m) != 1 {
				return TestDetail{}, errors.Wrapf(ErrOptionMalformed, "test detail %s: options[%d]", name, i)
			}
			for k, v := range m {
				options = append(options, Option{Key: k, Value: formatValue(v)})
			}
		}
	}
	return newTestDetail(name, options), nil
}

// MustTestDetail is like NewTestDetail but panics on malformed input
func MustTestDetail(raw map[string]any) TestDetail {
	d, err := NewTestDetail(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestDetail(name string, options []Option) TestDetail {
	sorted := append([]Option(nil), options...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	d := TestDetail{name: name, options: sorted}
	d.canonical = d.render()
	return d
}

func (d TestDetail) render() string {
	if len(d.options) == 0 {
		return d.name
	}
	var b strings.Builder
	b.WriteString(d.name)
	b.WriteString(" (")
	for _, o := range d.options {
		b.WriteString(o.String())
		b.WriteString(", ")
	}
	return strings.TrimSuffix(b.String(), ", ") + ")"
}

// Name returns the test name
func (d TestDetail) Name() string {
	return d.name
}

// Options returns the options sorted by key
func (d TestDetail) Options() []Option {
	return append([]Option(nil), d.options...)
}

// OptionStrings returns the options as "key: value" strings
func (d TestDetail) OptionStrings() []string {
	out := make([]string, 0, len(d.options))
	for _, o := range d.options {
		out = append(out, o.String())
	}
	return out
}

// String returns the canonical form
func (d TestDetail) String() string {
	return d.canonical
}

// Key returns a value usable as a map key; equal details share a key.
func (d TestDetail) Key() string {
	return d.canonical
}

// Equal reports whether both details have the same canonical form
func (d TestDetail) Equal(other TestDetail) bool {
	return d.canonical == other.canonical
}

// ParseCanonical splits a canonical string back into its name and options.
// Values containing ", " cannot be recovered unambiguously.
func ParseCanonical(s string) (string, []Option, error) {
	open := strings.Index(s, " (")
	if open < 0 {
		if s == "" {
			return "", nil, errors.New("parse canonical: empty string")
		}
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, errors.Errorf("parse canonical %q: missing closing parenthesis", s)
	}
	name := s[:open]
	body := s[open+2 : len(s)-1]
	var options []Option
	for _, part := range strings.Split(body, ", ") {
		k, v, ok := strings.Cut(part, ": ")
		if !ok {
			return "", nil, errors.Errorf("parse canonical %q: bad option %q", s, part)
		}
		options = append(options, Option{Key: k, Value: v})
	}
	return name, options, nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		// JSON numbers; 1000000 must not become 1e+06
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
