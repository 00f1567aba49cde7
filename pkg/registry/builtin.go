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

import "github.com/blacktop/bfl/pkg/inputs"

// Builtin returns the entries of the models this package knows about.
func Builtin() []Entry {
	return []Entry{
		{
			Model:       FluxDev,
			Description: "FLUX.1 [dev]",
			New:         func() inputs.Input { return inputs.NewDevInput() },
		},
		{
			Model:       FluxPro,
			Description: "FLUX.1 [pro]",
			New:         func() inputs.Input { return inputs.NewProInput() },
		},
		{
			Model:       FluxPro11,
			Description: "FLUX 1.1 [pro]",
			New:         func() inputs.Input { return inputs.NewPro11Input() },
		},
		{
			Model:       FluxPro11Ultra,
			Description: "FLUX 1.1 [pro] ultra, sized by aspect ratio",
			New:         func() inputs.Input { return inputs.NewUltraInput() },
		},
		{
			Model:       FluxPro10Fill,
			Description: "FLUX.1 Fill [pro] inpainting",
			New:         func() inputs.Input { return inputs.NewFillInput() },
		},
		{
			Model:       FluxKontextPro,
			Description: "FLUX.1 Kontext [pro], up to four reference images",
			New:         func() inputs.Input { return inputs.NewKontextProInput() },
		},
	}
}

var std = mustNew(Builtin()...)

func mustNew(entries ...Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the process-wide registry holding the builtin models.
func Default() *Registry {
	return std
}

// Resolve looks name up in the default registry.
func Resolve(name string) (Entry, error) {
	return std.Resolve(name)
}

// Register adds a model variant to the default registry.
func Register(e Entry) error {
	return std.Register(e)
}

// Names lists the models of the default registry.
func Names() []string {
	return std.Names()
}
