/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
// Package registry maps FLUX model identifiers to the input schema that
// validates their requests.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/blacktop/bfl/pkg/inputs"
)

// Model is an API-defined model identifier such as "flux-pro-1.1-ultra".
type Model string

const (
	FluxDev        Model = "flux-dev"
	FluxPro        Model = "flux-pro"
	FluxPro11      Model = "flux-pro-1.1"
	FluxPro11Ultra Model = "flux-pro-1.1-ultra"
	FluxPro10Fill  Model = "flux-pro-1.0-fill"
	FluxKontextPro Model = "flux-kontext-pro"
)

func (m Model) String() string {
	return string(m)
}

// Entry binds a model to its endpoint and schema.
type Entry struct {
	Model       Model
	Endpoint    string
	Description string
	// New returns a schema value carrying its defaults.
	New func() inputs.Input
}

// ErrUnknownModel matches every UnknownModelError.
var ErrUnknownModel = errors.New("unknown model")

// UnknownModelError reports a model identifier absent from the registry.
type UnknownModelError struct {
	Name  string
	Known []string
}

func (e *UnknownModelError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s %q", ErrUnknownModel, e.Name)
	}
	return fmt.Sprintf("%s %q (must be one of: %s)", ErrUnknownModel, e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownModelError) Is(target error) bool {
	return target == ErrUnknownModel
}

// Registry is a model table safe for concurrent use. Lookups read an
// immutable snapshot without locking; Register swaps in a new snapshot.
type Registry struct {
	mu      sync.Mutex
	entries atomic.Pointer[map[Model]Entry]
}

// New builds a registry from entries.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{}
	empty := map[Model]Entry{}
	r.entries.Store(&empty)
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a model variant. Endpoint defaults to "/v1/<model>".
func (r *Registry) Register(e Entry) error {
	if e.Model == "" {
		return errors.New("registry: model identifier is required")
	}
	if e.New == nil {
		return fmt.Errorf("registry: %s: schema constructor is required", e.Model)
	}
	if e.Endpoint == "" {
		e.Endpoint = "/v1/" + string(e.Model)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.entries.Load()
	if _, ok := cur[e.Model]; ok {
		return fmt.Errorf("registry: %s already registered", e.Model)
	}
	next := make(map[Model]Entry, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[e.Model] = e
	r.entries.Store(&next)
	return nil
}

// Resolve looks name up by exact match.
func (r *Registry) Resolve(name string) (Entry, error) {
	if e, ok := (*r.entries.Load())[Model(name)]; ok {
		return e, nil
	}
	return Entry{}, &UnknownModelError{Name: name, Known: r.Names()}
}

// Names returns the registered identifiers, sorted.
func (r *Registry) Names() []string {
	m := *r.entries.Load()
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// Entries returns the registered entries sorted by model.
func (r *Registry) Entries() []Entry {
	m := *r.entries.Load()
	entries := make([]Entry, 0, len(m))
	for _, e := range m {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Model < entries[j].Model })
	return entries
}

// Build resolves name and decodes raw into a fresh schema value.
func (r *Registry) Build(name string, raw map[string]any) (Entry, inputs.Input, error) {
	e, err := r.Resolve(name)
	if err != nil {
		return Entry{}, nil, err
	}
	in := e.New()
	if err := inputs.Decode(raw, in); err != nil {
		return Entry{}, nil, fmt.Errorf("%s: %w", name, err)
	}
	return e, in, nil
}

// Payload resolves name, validates raw and returns the request body to send.
func (r *Registry) Payload(name string, raw map[string]any) (Entry, inputs.Payload, error) {
	e, in, err := r.Build(name, raw)
	if err != nil {
		return Entry{}, nil, err
	}
	p, err := inputs.Serialize(in)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("%s: %w", name, err)
	}
	return e, p, nil
}
