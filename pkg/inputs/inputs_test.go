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
package inputs

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	in := NewDevInput()
	require.NoError(t, Decode(map[string]any{"prompt": "a fox"}, in))

	assert.Equal(t, "a fox", in.Prompt)
	assert.Equal(t, 28, in.Steps)
	assert.Equal(t, 3.0, in.Guidance)
	assert.Equal(t, 2, in.SafetyTolerance)
	assert.Equal(t, JPEG, in.OutputFormat)
	assert.Equal(t, DefaultWidth, in.Width)
	assert.Equal(t, DefaultHeight, in.Height)
	assert.Nil(t, in.Seed)
}

func TestPro11Scenario(t *testing.T) {
	in := NewPro11Input()
	err := Decode(map[string]any{
		"prompt":        "a fox",
		"width":         1024,
		"height":        768,
		"output_format": "jpeg",
	}, in)
	require.NoError(t, err)
	assert.False(t, in.PromptUpsampling)
	assert.Equal(t, JPEG, in.OutputFormat)

	p, err := Serialize(in)
	require.NoError(t, err)
	assert.Equal(t, "a fox", p["prompt"])
	assert.Equal(t, false, p["prompt_upsampling"])
	assert.NotContains(t, p, "seed")
	assert.NotContains(t, p, "webhook_url")
}

func TestUltraScenario(t *testing.T) {
	in := NewUltraInput()
	err := Decode(map[string]any{"prompt": "a fox", "aspect_ratio": "16:9", "raw": true}, in)
	require.NoError(t, err)
	assert.True(t, in.Raw)
	require.NotNil(t, in.AspectRatio)
	assert.Equal(t, "16:9", *in.AspectRatio)
	assert.Equal(t, 0.1, in.ImagePromptStrength)

	p, err := Serialize(in)
	require.NoError(t, err)
	assert.Equal(t, "16:9", p["aspect_ratio"])
	assert.NotContains(t, p, "width")
	assert.NotContains(t, p, "height")
}

func TestUltraDefaultAspectRatio(t *testing.T) {
	in := NewUltraInput()
	require.NoError(t, Decode(map[string]any{"prompt": "a fox"}, in))
	require.NotNil(t, in.AspectRatio)
	assert.Equal(t, DefaultUltraAspectRatio, *in.AspectRatio)
}

func TestUltraRatioTooWide(t *testing.T) {
	err := Decode(map[string]any{"prompt": "a fox", "aspect_ratio": "21:2"}, NewUltraInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrAspectRange))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "aspect_ratio", verr.Field)
	assert.Equal(t, "aspect_ratio", verr.Constraint)
	assert.Contains(t, verr.Message, "10.5")
	assert.Contains(t, verr.Message, "1:4")
	assert.Contains(t, verr.Message, "4:1")
	assert.Equal(t, "21:2", verr.Value)
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		name    string
		ratio   string
		wantErr error
	}{
		{name: "square", ratio: "1:1"},
		{name: "widescreen", ratio: "16:9"},
		{name: "lower bound", ratio: "1:4"},
		{name: "upper bound", ratio: "4:1"},
		{name: "dash separator", ratio: "16-9", wantErr: ErrAspectFormat},
		{name: "letters", ratio: "abc", wantErr: ErrAspectFormat},
		{name: "empty", ratio: "", wantErr: ErrAspectFormat},
		{name: "spaces", ratio: " 1:1", wantErr: ErrAspectFormat},
		{name: "zero height", ratio: "5:0", wantErr: ErrAspectFormat},
		{name: "zero width", ratio: "0:5", wantErr: ErrAspectFormat},
		{name: "too tall", ratio: "1:10", wantErr: ErrAspectRange},
		{name: "too wide", ratio: "10:1", wantErr: ErrAspectRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewKontextProInput()
			err := Decode(map[string]any{"prompt": "a fox", "aspect_ratio": tt.ratio}, in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
			verrs, ok := AsValidationErrors(err)
			require.True(t, ok)
			assert.Equal(t, []string{"aspect_ratio"}, verrs.Fields())
		})
	}
}

func TestParseAspectRatioOverflow(t *testing.T) {
	_, err := ParseAspectRatio("99999999999999999999999:1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAspectRange)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name       string
		input      func() Input
		raw        map[string]any
		field      string
		constraint string
	}{
		{"missing prompt", func() Input { return NewDevInput() }, map[string]any{}, "prompt", "required"},
		{"width too small", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "width": 100}, "width", "gte=256"},
		{"height too large", func() Input { return NewPro11Input() }, map[string]any{"prompt": "x", "height": 2000}, "height", "lte=1440"},
		{"steps zero", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "steps": 0}, "steps", "gte=1"},
		{"steps too many", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "steps": 51}, "steps", "lte=50"},
		{"guidance too low", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "guidance": 1.0}, "guidance", "gte=1.5"},
		{"safety too high", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "safety_tolerance": 7}, "safety_tolerance", "lte=6"},
		{"safety negative", func() Input { return NewKontextProInput() }, map[string]any{"prompt": "x", "safety_tolerance": -1}, "safety_tolerance", "gte=0"},
		{"webp format", func() Input { return NewPro11Input() }, map[string]any{"prompt": "x", "output_format": "webp"}, "output_format", "oneof=png jpeg"},
		{"bad webhook", func() Input { return NewProInput() }, map[string]any{"prompt": "x", "webhook_url": "not a url"}, "webhook_url", "http_url"},
		{"pro width too large", func() Input { return NewProInput() }, map[string]any{"prompt": "x", "width": 1441}, "width", "lte=1440"},
		{"strength above one", func() Input { return NewUltraInput() }, map[string]any{"prompt": "x", "image_prompt_strength": 1.5}, "image_prompt_strength", "lte=1"},
		{"fill without image", func() Input { return NewFillInput() }, map[string]any{"prompt": "x"}, "image", "required"},
		{"fill steps too few", func() Input { return NewFillInput() }, map[string]any{"image": "aGk=", "steps": 10}, "steps", "gte=15"},
		{"steps wrong type", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "steps": "many"}, "steps", "type"},
		{"uppercase prompt key", func() Input { return NewPro11Input() }, map[string]any{"PROMPT": "x"}, "prompt", "required"},
		{"title case prompt key", func() Input { return NewKontextProInput() }, map[string]any{"Prompt": "x"}, "prompt", "required"},
		{"steps fractional", func() Input { return NewDevInput() }, map[string]any{"prompt": "x", "steps": 2.5}, "steps", "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(tt.raw, tt.input())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			verrs, ok := AsValidationErrors(err)
			require.True(t, ok)
			verr := verrs.Field(tt.field)
			require.NotNil(t, verr, "fields: %v", verrs.Fields())
			assert.Equal(t, tt.constraint, verr.Constraint)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDecodeCollectsAllViolations(t *testing.T) {
	err := Decode(map[string]any{"width": 10, "height": 9000, "output_format": "gif"}, NewPro11Input())
	verrs, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"prompt", "width", "height", "output_format"}, verrs.Fields())
}

func TestProAcceptsBaseFieldsOnly(t *testing.T) {
	in := NewProInput()
	require.NoError(t, Decode(map[string]any{"prompt": "x", "steps": 40, "guidance": 2.5}, in))

	p, err := Serialize(in)
	require.NoError(t, err)
	assert.NotContains(t, p, "steps")
	assert.NotContains(t, p, "guidance")
	assert.NotContains(t, p, "prompt_upsampling")
	assert.Equal(t, json.Number("1024"), p["width"])
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	in := NewPro11Input()
	require.NoError(t, Decode(map[string]any{"prompt": "x", "num_outputs": 4}, in))

	p, err := Serialize(in)
	require.NoError(t, err)
	assert.NotContains(t, p, "num_outputs")
}

func TestDecodeMatchesKeysExactly(t *testing.T) {
	in := NewPro11Input()
	require.NoError(t, Decode(map[string]any{"prompt": "a", "Prompt": "b", "Width": 300, "HEIGHT": 300}, in))
	assert.Equal(t, "a", in.Prompt)
	assert.Equal(t, DefaultWidth, in.Width)
	assert.Equal(t, DefaultHeight, in.Height)
}

func TestFieldTypes(t *testing.T) {
	fields := FieldTypes(NewUltraInput())
	for _, name := range []string{"prompt", "image_prompt", "seed", "output_format", "safety_tolerance", "webhook_url", "webhook_secret", "aspect_ratio", "raw", "image_prompt_strength"} {
		assert.Contains(t, fields, name)
	}
	assert.NotContains(t, fields, "width")
	assert.NotContains(t, fields, "Common")
	assert.Equal(t, reflect.String, fields["prompt"].Kind())
	assert.Equal(t, reflect.Pointer, fields["aspect_ratio"].Kind())

	delete(fields, "prompt")
	assert.Contains(t, FieldTypes(NewUltraInput()), "prompt")
}

func TestUltraIgnoresPixelSize(t *testing.T) {
	in := NewUltraInput()
	require.NoError(t, Decode(map[string]any{"prompt": "a fox", "width": 512, "height": 512}, in))

	p, err := Serialize(in)
	require.NoError(t, err)
	assert.NotContains(t, p, "width")
	assert.NotContains(t, p, "height")
	assert.Equal(t, DefaultUltraAspectRatio, p["aspect_ratio"])
}

func TestSerializeRejectsInvalid(t *testing.T) {
	in := NewDevInput()
	in.Prompt = "x"
	in.Steps = 99
	_, err := Serialize(in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSerializeKeepsLargeSeed(t *testing.T) {
	in := NewPro11Input()
	require.NoError(t, Decode(map[string]any{"prompt": "x", "seed": int64(1) << 60}, in))

	p, err := Serialize(in)
	require.NoError(t, err)

	again := NewPro11Input()
	require.NoError(t, Decode(p, again))
	require.NotNil(t, again.Seed)
	assert.Equal(t, int64(1)<<60, *again.Seed)
}

func TestKontextInputImages(t *testing.T) {
	in := NewKontextProInput()
	require.NoError(t, Decode(map[string]any{
		"prompt":        "make it night",
		"input_image":   "https://example.com/a.png",
		"input_image_3": "aGVsbG8=",
	}, in))

	assert.Equal(t, []string{"https://example.com/a.png", "aGVsbG8="}, in.InputImages())
	assert.Equal(t, PNG, in.OutputFormat)
	assert.Nil(t, in.AspectRatio)

	p, err := Serialize(in)
	require.NoError(t, err)
	assert.NotContains(t, p, "aspect_ratio")
	assert.NotContains(t, p, "input_image_2")
}

func TestKontextNullAspectRatio(t *testing.T) {
	in := NewKontextProInput()
	require.NoError(t, Decode(map[string]any{"prompt": "x", "aspect_ratio": nil}, in))
	assert.Nil(t, in.AspectRatio)
}

func TestSizing(t *testing.T) {
	var in Input = NewPro11Input()
	_, aspect := in.(AspectSized)
	assert.False(t, aspect)
	sized, ok := in.(PixelSized)
	require.True(t, ok)
	sized.SetSize(512, 512)
	assert.Equal(t, 512, in.(*Pro11Input).Width)

	in = NewUltraInput()
	_, pixel := in.(PixelSized)
	assert.False(t, pixel)
	ar, ok := in.(AspectSized)
	require.True(t, ok)
	ar.SetAspectRatio("1:1")
	assert.Equal(t, "1:1", *in.(*UltraInput).AspectRatio)

	_, ok = Input(NewKontextProInput()).(AspectSized)
	assert.True(t, ok)
}

func TestDimensionsFor(t *testing.T) {
	tests := []struct {
		ratio         Ratio
		long          int
		width, height int
	}{
		{Ratio{1, 1}, 1024, 1024, 1024},
		{Ratio{16, 9}, 1440, 1440, 800},
		{Ratio{9, 16}, 1440, 800, 1440},
		{Ratio{4, 3}, 1024, 1024, 768},
		{Ratio{4, 1}, 1024, 1024, 256},
		{Ratio{1, 1}, 4000, 1440, 1440},
	}
	for _, tt := range tests {
		t.Run(tt.ratio.String(), func(t *testing.T) {
			w, h := DimensionsFor(tt.ratio, tt.long)
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}
