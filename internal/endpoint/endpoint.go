// Package endpoint describes the backend inference endpoints a fan-out run
// targets and keeps them in an ordered, validated registry.
package endpoint

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultField is the multipart field an endpoint expects the artifact in
// when none is configured.
const DefaultField = "file"

// Endpoint describes one inference endpoint of the backend.
type Endpoint struct {
	// Name is the display name (e.g., "CLIP+GPT2").
	Name string `yaml:"name"`
	// Path is the backend path the artifact is posted to.
	Path string `yaml:"path"`
	// Field is the multipart field name; DefaultField when empty.
	Field string `yaml:"field,omitempty"`
}

// Key returns the stable slot key derived from the display name.
// "CLIP+GPT2" becomes "clipplusgpt2".
func (e Endpoint) Key() string {
	k := strings.ToLower(strings.TrimSpace(e.Name))
	k = strings.ReplaceAll(k, "+", "plus")
	return strings.Join(strings.Fields(k), "-")
}

// FormField returns the multipart field name to use.
func (e Endpoint) FormField() string {
	if e.Field == "" {
		return DefaultField
	}
	return e.Field
}

// Registry is an ordered set of endpoints addressed by key.
type Registry struct {
	endpoints []Endpoint
	byKey     map[string]int
}

// NewRegistry validates eps and returns a registry preserving their order.
// Empty names or paths and duplicate keys are rejected.
func NewRegistry(eps ...Endpoint) (*Registry, error) {
	r := &Registry{byKey: make(map[string]int, len(eps))}
	for i, ep := range eps {
		if strings.TrimSpace(ep.Name) == "" {
			return nil, fmt.Errorf("endpoint %d: name is required", i)
		}
		if !strings.HasPrefix(ep.Path, "/") {
			return nil, fmt.Errorf("endpoint %q: path must start with '/'", ep.Name)
		}
		key := ep.Key()
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("endpoint %q: duplicate key %q", ep.Name, key)
		}
		r.byKey[key] = len(r.endpoints)
		r.endpoints = append(r.endpoints, ep)
	}
	return r, nil
}

// DefaultRegistry returns the five captioning and summarization models the
// backend ships with.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Endpoint{Name: "BLIP", Path: "/blip_summarize"},
		Endpoint{Name: "Gemini", Path: "/summarize"},
		Endpoint{Name: "ViT-GPT", Path: "/vit_summarize"},
		Endpoint{Name: "GIT", Path: "/git_summarize"},
		Endpoint{Name: "CLIP+GPT2", Path: "/generate_summary_from_clip_gpt2"},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// LoadFile reads a YAML list of endpoints:
//
//	- name: BLIP
//	  path: /blip_summarize
//	- name: Gemini
//	  path: /summarize
//	  field: file
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading endpoints file: %w", err)
	}
	var eps []Endpoint
	if err := yaml.Unmarshal(data, &eps); err != nil {
		return nil, fmt.Errorf("parsing endpoints file %s: %w", path, err)
	}
	if len(eps) == 0 {
		return nil, fmt.Errorf("endpoints file %s declares no endpoint", path)
	}
	return NewRegistry(eps...)
}

// Len returns the number of endpoints.
func (r *Registry) Len() int { return len(r.endpoints) }

// List returns the endpoint keys in configured order.
func (r *Registry) List() []string {
	keys := make([]string, len(r.endpoints))
	for i, ep := range r.endpoints {
		keys[i] = ep.Key()
	}
	return keys
}

// All returns a copy of the endpoints in configured order.
func (r *Registry) All() []Endpoint {
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Get returns the endpoint registered under key.
func (r *Registry) Get(key string) (Endpoint, error) {
	idx, ok := r.byKey[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Endpoint{}, fmt.Errorf("unknown endpoint %q (available: %s)", key, strings.Join(r.List(), ", "))
	}
	return r.endpoints[idx], nil
}

// Select resolves a selection expression: "all" (or empty) for every
// endpoint, or a comma-separated list of keys. The result keeps the
// registry order and contains no duplicates.
func (r *Registry) Select(expr string) ([]Endpoint, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.EqualFold(expr, "all") {
		return r.All(), nil
	}
	picked := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx, ok := r.byKey[strings.ToLower(part)]
		if !ok {
			return nil, fmt.Errorf("unknown endpoint %q (available: %s)", part, strings.Join(r.List(), ", "))
		}
		picked[idx] = struct{}{}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("empty endpoint selection %q", expr)
	}
	idxs := make([]int, 0, len(picked))
	for i := range picked {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	out := make([]Endpoint, len(idxs))
	for i, idx := range idxs {
		out[i] = r.endpoints[idx]
	}
	return out, nil
}
