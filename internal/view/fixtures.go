package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"vantage/internal/classify"
	"vantage/internal/domain"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFixture is returned for fixture files that do not describe a
// renderable view
var ErrInvalidFixture = errors.New("invalid fixture")

//go:embed fixtures/*.yaml
var embeddedFixtures embed.FS

// DomainFixtures is one fixture file: the dedicated views of a domain plus
// its domain-wide header override
type DomainFixtures struct {
	Domain string         `yaml:"domain"`
	Header HeaderOverride `yaml:"header,omitempty"`
	Views  []ViewFixture  `yaml:"views"`
}

// FixtureSet is every dedicated view known to the server, keyed by domain
type FixtureSet struct {
	domains map[string]DomainFixtures
}

// DefaultFixtures loads the fixture set compiled into the binary
func DefaultFixtures() (*FixtureSet, error) {
	return LoadFixtures(embeddedFixtures, "fixtures")
}

// LoadFixtures reads every *.yaml file in dir of fsys
func LoadFixtures(fsys fs.FS, dir string) (*FixtureSet, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	set := &FixtureSet{domains: make(map[string]DomainFixtures)}
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", name, err)
		}
		if err := set.add(name, data); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *FixtureSet) add(name string, data []byte) error {
	var df DomainFixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}

	if df.Domain == "" {
		return fmt.Errorf("fixture %s: missing domain: %w", name, ErrInvalidFixture)
	}
	if _, dup := s.domains[df.Domain]; dup {
		return fmt.Errorf("fixture %s: domain %q defined twice: %w", name, df.Domain, ErrInvalidFixture)
	}

	seen := make(map[string]bool, len(df.Views))
	for _, v := range df.Views {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("fixture %s: %w", name, err)
		}
		if seen[v.Tool] {
			return fmt.Errorf("fixture %s: tool %q defined twice: %w", name, v.Tool, ErrInvalidFixture)
		}
		seen[v.Tool] = true
	}

	s.domains[df.Domain] = df
	return nil
}

// Domains returns the IDs of domains with fixtures, sorted
func (s *FixtureSet) Domains() []string {
	ids := make([]string, 0, len(s.domains))
	for id := range s.domains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Keys returns every (domain, tool) pair with a fixture, sorted
func (s *FixtureSet) Keys() []domain.ViewKey {
	var keys []domain.ViewKey
	for _, id := range s.Domains() {
		for _, v := range s.domains[id].Views {
			keys = append(keys, domain.ViewKey{DomainID: id, ToolID: v.Tool})
		}
	}
	return keys
}

// Fixture returns the fixture for a view
func (s *FixtureSet) Fixture(key domain.ViewKey) (ViewFixture, bool) {
	df, ok := s.domains[key.DomainID]
	if !ok {
		return ViewFixture{}, false
	}
	for _, v := range df.Views {
		if v.Tool == key.ToolID {
			return v, true
		}
	}
	return ViewFixture{}, false
}

// Bindings returns a renderer binding for every fixture
func (s *FixtureSet) Bindings(classifier *classify.Classifier) []Binding {
	keys := s.Keys()
	out := make([]Binding, 0, len(keys))
	for _, key := range keys {
		f, _ := s.Fixture(key)
		out = append(out, Binding{Key: key, Renderer: NewFixtureRenderer(f, classifier)})
	}
	return out
}

// Headers returns the header overrides declared by the fixtures
func (s *FixtureSet) Headers() *Headers {
	h := NewHeaders()
	for id, df := range s.domains {
		h.SetDomain(id, df.Header)
		for _, v := range df.Views {
			h.SetTool(domain.ViewKey{DomainID: id, ToolID: v.Tool}, v.Header)
		}
	}
	return h
}
