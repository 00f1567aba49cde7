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
package cmd

import (
	"fmt"
	"maps"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/blacktop/bfl/pkg/client"
	"github.com/blacktop/bfl/pkg/inputs"
	"github.com/blacktop/bfl/pkg/registry"
)

// requestFields builds the raw field map sent to the schema of entry. Only
// flags reported by changed are included so that schema defaults apply to
// everything else. Precedence: --input file, then flags, then --set.
func requestFields(entry registry.Entry, o *generateOptions, changed func(string) bool) (map[string]any, error) {
	raw := map[string]any{}
	if o.InputFile != "" {
		m, err := loadInputFile(o.InputFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(raw, m)
	}

	if changed("prompt") {
		raw["prompt"] = o.Prompt
	}
	if changed("width") {
		raw["width"] = o.Width
	}
	if changed("height") {
		raw["height"] = o.Height
	}
	if changed("aspect") {
		if err := sizeFields(raw, entry, o.AspectRatio); err != nil {
			return nil, err
		}
	}
	if changed("format") {
		raw["output_format"] = o.OutputFormat
	}
	if changed("seed") {
		raw["seed"] = o.Seed
	}
	if changed("steps") {
		raw["steps"] = o.Steps
	}
	if changed("guidance") {
		raw["guidance"] = o.Guidance
	}
	if changed("safety") {
		raw["safety_tolerance"] = o.Safety
	}
	if changed("raw") {
		raw["raw"] = o.Raw
	}
	if changed("upsample") {
		raw["prompt_upsampling"] = o.Upsample
	}
	if changed("webhook") {
		raw["webhook_url"] = o.WebhookURL
	}
	if changed("image") {
		data, err := client.EncodeFile(o.Image)
		if err != nil {
			return nil, err
		}
		raw[imageField(entry)] = data
	}
	if changed("mask") {
		data, err := client.EncodeFile(o.Mask)
		if err != nil {
			return nil, err
		}
		raw["mask"] = data
	}

	set, err := parseSetValues(o.Set, inputs.FieldTypes(entry.New()))
	if err != nil {
		return nil, err
	}
	maps.Copy(raw, set)
	return raw, nil
}

// sizeFields applies an aspect ratio the way the schema of entry expects it:
// as-is for ratio-sized models, converted to pixels for the others.
func sizeFields(raw map[string]any, entry registry.Entry, ratio string) error {
	switch entry.New().(type) {
	case inputs.AspectSized:
		raw["aspect_ratio"] = ratio
	case inputs.PixelSized:
		r, err := inputs.ParseAspectRatio(ratio)
		if err != nil {
			return fmt.Errorf("invalid --aspect: %w", err)
		}
		w, h := inputs.DimensionsFor(r, inputs.DefaultWidth)
		if _, ok := raw["width"]; !ok {
			raw["width"] = w
		}
		if _, ok := raw["height"]; !ok {
			raw["height"] = h
		}
	default:
		return fmt.Errorf("model %s does not accept an aspect ratio", entry.Model)
	}
	return nil
}

// imageField names the field a reference image is sent in.
func imageField(entry registry.Entry) string {
	switch entry.New().(type) {
	case *inputs.KontextProInput:
		return "input_image"
	case *inputs.FillInput:
		return "image"
	}
	return "image_prompt"
}

// loadInputFile reads request fields from a YAML or JSON file.
func loadInputFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing input file %s: %w", path, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// parseSetValues types each --set value as a YAML scalar: "28" is an int,
// "true" a bool, "a fox" a string. Keys that name a string field in fields
// keep the value verbatim, so --set prompt=123 sends the text "123".
func parseSetValues(set map[string]string, fields map[string]reflect.Type) (map[string]any, error) {
	out := make(map[string]any, len(set))
	for k, s := range set {
		if s == "" || isStringField(fields[k]) {
			out[k] = s
			continue
		}
		var v any
		if err := yaml.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("parsing --set %s=%s: %w", k, s, err)
		}
		out[k] = v
	}
	return out, nil
}

func isStringField(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.String
}
