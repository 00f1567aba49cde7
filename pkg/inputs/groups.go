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
// Package inputs defines the request bodies accepted by each FLUX model variant.
//
// Schemas are assembled from small field groups (Common, Dimensions, Aspect)
// embedded side by side. Each schema's Validate lists the groups it carries,
// so no group depends on another and no two groups share a JSON name.
package inputs

// OutputFormat is the encoding of the generated image.
type OutputFormat string

const (
	PNG  OutputFormat = "png"
	JPEG OutputFormat = "jpeg"
)

// OutputFormats returns the accepted output formats.
func OutputFormats() []OutputFormat {
	return []OutputFormat{JPEG, PNG}
}

const (
	MinDimension = 256
	MaxDimension = 1440

	DefaultWidth           = 1024
	DefaultHeight          = 768
	DefaultSafetyTolerance = 2
	DefaultOutputFormat    = JPEG
)

// Common holds the delivery and moderation fields shared by every variant.
type Common struct {
	// Seed is an optional value for reproducibility.
	Seed *int64 `json:"seed,omitempty"`

	// OutputFormat is 'jpeg' or 'png'.
	OutputFormat OutputFormat `json:"output_format" validate:"oneof=png jpeg"`

	// SafetyTolerance is the moderation level for input and output.
	//
	//	- Range: 0-6
	//	- 0: Most strict
	//	- 6: Least strict
	SafetyTolerance int `json:"safety_tolerance" validate:"gte=0,lte=6"`

	// WebhookURL receives a notification when the task completes.
	WebhookURL string `json:"webhook_url,omitempty" validate:"omitempty,http_url"`

	// WebhookSecret is used to sign webhook notifications.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// DefaultCommon returns Common with its documented defaults.
func DefaultCommon() Common {
	return Common{
		OutputFormat:    DefaultOutputFormat,
		SafetyTolerance: DefaultSafetyTolerance,
	}
}

// Dimensions holds explicit pixel sizes.
type Dimensions struct {
	// Width of the generated image in pixels.
	//
	//	- Minimum: 256
	//	- Maximum: 1440
	//	- Default: 1024
	Width int `json:"width" validate:"gte=256,lte=1440"`

	// Height of the generated image in pixels.
	//
	//	- Minimum: 256
	//	- Maximum: 1440
	//	- Default: 768
	Height int `json:"height" validate:"gte=256,lte=1440"`
}

// DefaultDimensions returns 1024x768.
func DefaultDimensions() Dimensions {
	return Dimensions{Width: DefaultWidth, Height: DefaultHeight}
}

// Aspect replaces Dimensions on variants sized by ratio.
type Aspect struct {
	// AspectRatio is "W:H" with W/H between 1:4 and 4:1. Nil means unset.
	AspectRatio *string `json:"aspect_ratio,omitempty"`
}

func (a Aspect) check() *ValidationError {
	return checkAspectRatio("aspect_ratio", a.AspectRatio)
}

// ImageInput is the shared base of the text-to-image variants: a prompt, an
// optional image prompt, the Common fields and explicit Dimensions.
type ImageInput struct {
	// Prompt is the text prompt for image generation.
	Prompt string `json:"prompt" validate:"required"`

	// ImagePrompt is an optional base64 image used as a visual reference.
	ImagePrompt string `json:"image_prompt,omitempty"`

	Common
	Dimensions
}

// DefaultImageInput returns the base with its defaults and an empty prompt.
func DefaultImageInput() ImageInput {
	return ImageInput{
		Common:     DefaultCommon(),
		Dimensions: DefaultDimensions(),
	}
}

func (in *ImageInput) Validate() error {
	return check(in)
}

// SetSize sets explicit pixel dimensions.
func (d *Dimensions) SetSize(width, height int) {
	d.Width, d.Height = width, height
}

// SetAspectRatio sets the ratio, e.g. "16:9".
func (a *Aspect) SetAspectRatio(ratio string) {
	a.AspectRatio = &ratio
}

// PixelSized is implemented by schemas carrying Dimensions.
type PixelSized interface {
	SetSize(width, height int)
}

// AspectSized is implemented by schemas carrying Aspect.
type AspectSized interface {
	SetAspectRatio(ratio string)
}

// DimensionsFor returns the pixel size matching r whose longer side is
// longSide, snapped to multiples of 32 and clamped to the accepted range.
func DimensionsFor(r Ratio, longSide int) (width, height int) {
	snap := func(v float64) int {
		n := int(v/32+0.5) * 32
		return max(MinDimension, min(MaxDimension, n))
	}
	if r.Width >= r.Height {
		return snap(float64(longSide)), snap(float64(longSide) * float64(r.Height) / float64(r.Width))
	}
	return snap(float64(longSide) * float64(r.Width) / float64(r.Height)), snap(float64(longSide))
}
