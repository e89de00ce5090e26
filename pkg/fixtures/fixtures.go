// Package fixtures loads named sample payloads used for demos and as the
// fallback when a capture produces nothing.
package fixtures

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// DefaultName is the fixture used when none is named.
const DefaultName = "demo"

// Fixture is one named payload. Exactly one of Raw and Object is set.
type Fixture struct {
	Name   string
	Raw    string
	Object map[string]any
}

// IsObject reports whether the fixture is a structured object.
func (f Fixture) IsObject() bool {
	return f.Object != nil
}

// Classify turns the fixture into a record stamped at now.
func (f Fixture) Classify(now time.Time) record.Record {
	if f.IsObject() {
		return record.ClassifyObject(f.Object, now)
	}
	return record.ClassifyRaw(f.Raw, now)
}

// Set holds fixtures in file order.
type Set struct {
	fixtures []Fixture
	byName   map[string]int
}

// Load reads a fixture file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture YAML of the form:
//
//	fixtures:
//	  receipt: "t=...&s=..."
//	  demo:
//	    name: Helmet
func Parse(data []byte) (*Set, error) {
	var doc struct {
		Fixtures yaml.Node `yaml:"fixtures"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	node := doc.Fixtures
	if node.Kind == 0 {
		return nil, fmt.Errorf("invalid fixtures file: missing fixtures section")
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("invalid fixtures file: fixtures must be a mapping (line %d)", node.Line)
	}

	set := &Set{byName: make(map[string]int)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		f := Fixture{Name: key.Value}
		switch value.Kind {
		case yaml.ScalarNode:
			f.Raw = value.Value
		case yaml.MappingNode:
			obj := make(map[string]any)
			if err := value.Decode(&obj); err != nil {
				return nil, fmt.Errorf("fixture %q: %w", f.Name, err)
			}
			f.Object = obj
		default:
			return nil, fmt.Errorf("fixture %q: expected a string or a mapping (line %d)", f.Name, value.Line)
		}

		if _, dup := set.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate fixture %q", f.Name)
		}
		set.byName[f.Name] = len(set.fixtures)
		set.fixtures = append(set.fixtures, f)
	}

	return set, nil
}

// Get returns the named fixture.
func (s *Set) Get(name string) (Fixture, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Fixture{}, false
	}
	return s.fixtures[i], true
}

// Names returns fixture names in file order.
func (s *Set) Names() []string {
	names := make([]string, len(s.fixtures))
	for i, f := range s.fixtures {
		names[i] = f.Name
	}
	return names
}

// Fallback returns the record used when a capture yields no payload: the
// default fixture if present, otherwise the Unknown record for an empty scan.
func (s *Set) Fallback(now time.Time) record.Record {
	if f, ok := s.Get(DefaultName); ok {
		return f.Classify(now)
	}
	return record.ClassifyRaw("", now)
}
