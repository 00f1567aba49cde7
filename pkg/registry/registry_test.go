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
package registry

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bfl/pkg/inputs"
)

func TestResolveBuiltin(t *testing.T) {
	tests := []struct {
		name     string
		want     inputs.Input
		endpoint string
	}{
		{"flux-dev", &inputs.DevInput{}, "/v1/flux-dev"},
		{"flux-pro", &inputs.ProInput{}, "/v1/flux-pro"},
		{"flux-pro-1.1", &inputs.Pro11Input{}, "/v1/flux-pro-1.1"},
		{"flux-pro-1.1-ultra", &inputs.UltraInput{}, "/v1/flux-pro-1.1-ultra"},
		{"flux-pro-1.0-fill", &inputs.FillInput{}, "/v1/flux-pro-1.0-fill"},
		{"flux-kontext-pro", &inputs.KontextProInput{}, "/v1/flux-kontext-pro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, Model(tt.name), e.Model)
			assert.Equal(t, tt.endpoint, e.Endpoint)
			assert.IsType(t, tt.want, e.New())
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, name := range []string{"not-a-model", "FLUX-DEV", " flux-dev", "flux-dev ", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(name)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownModel)

			var unknown *UnknownModelError
			require.True(t, errors.As(err, &unknown))
			assert.Equal(t, name, unknown.Name)
			assert.Contains(t, unknown.Known, "flux-pro-1.1-ultra")
			assert.Contains(t, err.Error(), `"`+name+`"`)
		})
	}
}

func TestNewReturnsFreshValues(t *testing.T) {
	e, err := Resolve("flux-dev")
	require.NoError(t, err)

	a := e.New().(*inputs.DevInput)
	a.Steps = 1
	b := e.New().(*inputs.DevInput)
	assert.Equal(t, 28, b.Steps)
}

func TestPayload(t *testing.T) {
	e, p, err := Default().Payload("flux-dev", map[string]any{"prompt": "a fox"})
	require.NoError(t, err)
	assert.Equal(t, FluxDev, e.Model)
	assert.Equal(t, "a fox", p["prompt"])
	assert.Equal(t, json.Number("28"), p["steps"])
	assert.Equal(t, json.Number("2"), p["safety_tolerance"])
}

func TestPayloadValidationError(t *testing.T) {
	_, _, err := Default().Payload("flux-pro-1.1-ultra", map[string]any{"prompt": "a fox", "aspect_ratio": "21:2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, inputs.ErrValidation)
	assert.NotErrorIs(t, err, ErrUnknownModel)
	assert.Contains(t, err.Error(), "flux-pro-1.1-ultra")
}

func TestPayloadUnknownModel(t *testing.T) {
	_, _, err := Default().Payload("not-a-model", map[string]any{"prompt": "a fox"})
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.NotErrorIs(t, err, inputs.ErrValidation)
}

func TestRegister(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Empty(t, r.Names())

	require.NoError(t, r.Register(Entry{
		Model: "flux-pro-1.0-expand",
		New:   func() inputs.Input { return inputs.NewPro11Input() },
	}))
	e, err := r.Resolve("flux-pro-1.0-expand")
	require.NoError(t, err)
	assert.Equal(t, "/v1/flux-pro-1.0-expand", e.Endpoint)

	assert.Error(t, r.Register(Entry{Model: "flux-pro-1.0-expand", New: e.New}), "duplicate")
	assert.Error(t, r.Register(Entry{New: e.New}), "empty model")
	assert.Error(t, r.Register(Entry{Model: "x"}), "nil constructor")
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(append(Builtin(), Builtin()[0])...)
	assert.Error(t, err)
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{
		"flux-dev",
		"flux-kontext-pro",
		"flux-pro",
		"flux-pro-1.0-fill",
		"flux-pro-1.1",
		"flux-pro-1.1-ultra",
	}, Default().Names())
	assert.Len(t, Default().Entries(), 6)
}

func TestConcurrentResolveAndRegister(t *testing.T) {
	r, err := New(Builtin()...)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := r.Resolve("flux-dev")
				assert.NoError(t, err)
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.Register(Entry{
				Model: Model("custom-" + string(rune('a'+i))),
				New:   func() inputs.Input { return inputs.NewDevInput() },
			}))
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Names(), 10)
}
