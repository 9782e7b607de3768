package mapping

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// DefaultFileName is the conventional name of a test-mapping document
const DefaultFileName = "TEST_MAPPING"

const importsKey = "imports"

// Document is a parsed test-mapping document: named groups of tests plus imports.
type Document struct {
	Source  string
	Imports []string
	groups  map[string][]TestDetail
}

// LoadDocument reads and parses the document at path
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read test mapping %s", path)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse test mapping %s", path)
	}
	doc.Source = path
	return doc, nil
}

// ParseDocument parses JSON (with // line comments) or YAML data
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]any
	if err := parseJSONOrYAML(data, &raw); err != nil {
		return nil, err
	}

	doc := &Document{groups: make(map[string][]TestDetail)}
	for key, value := range raw {
		entries, ok := value.([]any)
		if !ok {
			return nil, errors.Errorf("group %q: expected a list, got %T", key, value)
		}
		if key == importsKey {
			for i, entry := range entries {
				m, _ := entry.(map[string]any)
				path, _ := m["path"].(string)
				if path == "" {
					return nil, errors.Errorf("imports[%d]: missing path", i)
				}
				doc.Imports = append(doc.Imports, path)
			}
			continue
		}
		details := make([]TestDetail, 0, len(entries))
		for i, entry := range entries {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, errors.Errorf("group %q entry %d: expected a mapping, got %T", key, i, entry)
			}
			d, err := NewTestDetail(m)
			if err != nil {
				return nil, errors.Wrapf(err, "group %q", key)
			}
			details = append(details, d)
		}
		doc.groups[key] = details
	}
	return doc, nil
}

// GroupNames returns the group names in lexical order
func (d *Document) GroupNames() []string {
	names := make([]string, 0, len(d.groups))
	for name := range d.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Group returns the details of a group in document order
func (d *Document) Group(name string) ([]TestDetail, bool) {
	details, ok := d.groups[name]
	if !ok {
		return nil, false
	}
	return append([]TestDetail(nil), details...), true
}

// Lookup returns every detail named name, across groups sorted by group name.
// Equal details from different groups are reported once.
func (d *Document) Lookup(name string) []TestDetail {
	var out []TestDetail
	seen := make(map[string]bool)
	for _, group := range d.GroupNames() {
		for _, detail := range d.groups[group] {
			if detail.Name() != name || seen[detail.Key()] {
				continue
			}
			seen[detail.Key()] = true
			out = append(out, detail)
		}
	}
	return out
}

func parseJSONOrYAML(data []byte, target any) error {
	if err := json.Unmarshal(stripLineComments(data), target); err == nil {
		return nil
	}
	var rawStructure any
	if err := yaml.Unmarshal(data, &rawStructure); err != nil {
		return errors.Wrap(err, "neither JSON nor YAML")
	}
	normalized, err := normalizeParsedYAMLForJSON(rawStructure)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

// stripLineComments drops lines whose first non-blank characters are "//"
func stripLineComments(data []byte) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

func normalizeParsedYAMLForJSON(data any) (any, error) {
	switch data := data.(type) {
	case []any:
		arrayOut := make([]any, 0, len(data))
		for _, v := range data {
			v1, err := normalizeParsedYAMLForJSON(v)
			if err != nil {
				return nil, err
			}
			arrayOut = append(arrayOut, v1)
		}
		return arrayOut, nil
	case map[string]any:
		mapOut := make(map[string]any, len(data))
		for k, v := range data {
			v1, err := normalizeParsedYAMLForJSON(v)
			if err != nil {
				return nil, err
			}
			mapOut[k] = v1
		}
		return mapOut, nil
	case map[any]any:
		mapOut := make(map[string]any, len(data))
		for k, v := range data {
			ks, ok := k.(string)
			if !ok {
				return nil, errors.Errorf("non-string key %v", k)
			}
			v1, err := normalizeParsedYAMLForJSON(v)
			if err != nil {
				return nil, err
			}
			mapOut[ks] = v1
		}
		return mapOut, nil
	default:
		return data, nil
	}
}
