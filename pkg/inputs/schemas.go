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

// DevInput is the request body for FLUX.1 [dev].
type DevInput struct {
	ImageInput

	// Steps is the number of steps for the image generation process.
	//
	//	- Range: 1-50
	//	- Default: 28
	Steps int `json:"steps" validate:"gte=1,lte=50"`

	// Guidance scale for image generation. High guidance scales improve
	// prompt adherence at the cost of reduced realism.
	//
	//	- Range: 1.5-5.0
	//	- Default: 3.0
	Guidance float64 `json:"guidance" validate:"gte=1.5,lte=5"`
}

// NewDevInput returns a DevInput carrying its defaults.
func NewDevInput() *DevInput {
	return &DevInput{
		ImageInput: DefaultImageInput(),
		Steps:      28,
		Guidance:   3.0,
	}
}

func (in *DevInput) Validate() error {
	return check(in)
}

// ProInput is the request body for FLUX.1 [pro]. It accepts the shared
// base fields and nothing else.
type ProInput struct {
	ImageInput
}

func NewProInput() *ProInput {
	return &ProInput{ImageInput: DefaultImageInput()}
}

func (in *ProInput) Validate() error {
	return check(in)
}

// Pro11Input is the request body for FLUX 1.1 [pro].
type Pro11Input struct {
	ImageInput

	// PromptUpsampling determines whether to perform upsampling on the prompt.
	//
	//	- If active, automatically modifies the prompt for more creative generation
	//	- Default: false
	PromptUpsampling bool `json:"prompt_upsampling"`
}

func NewPro11Input() *Pro11Input {
	return &Pro11Input{ImageInput: DefaultImageInput()}
}

func (in *Pro11Input) Validate() error {
	return check(in)
}

// DefaultUltraAspectRatio is used by UltraInput when no ratio is given.
const DefaultUltraAspectRatio = "16:9"

// UltraInput is the request body for FLUX 1.1 [pro] ultra. It is sized by
// aspect ratio instead of pixels: width and height are not fields of this
// schema, and Decode drops them like any other unknown key.
type UltraInput struct {
	Prompt      string `json:"prompt" validate:"required"`
	ImagePrompt string `json:"image_prompt,omitempty"`

	Common
	Aspect

	// Raw generates less processed, more natural-looking images.
	Raw bool `json:"raw"`

	// ImagePromptStrength blends between the prompt and the image prompt.
	//
	//	- Range: 0-1
	//	- Default: 0.1
	ImagePromptStrength float64 `json:"image_prompt_strength" validate:"gte=0,lte=1"`
}

func NewUltraInput() *UltraInput {
	ratio := DefaultUltraAspectRatio
	return &UltraInput{
		Common:              DefaultCommon(),
		Aspect:              Aspect{AspectRatio: &ratio},
		ImagePromptStrength: 0.1,
	}
}

func (in *UltraInput) Validate() error {
	return check(in, in.Aspect.check())
}

// FillInput is the request body for FLUX.1 Fill [pro]: inpainting of the
// masked area of an image.
type FillInput struct {
	// Image is the base64 image to modify. It may carry the mask in its alpha channel.
	Image string `json:"image" validate:"required"`

	// Mask is an optional base64 mask; white areas are regenerated.
	Mask string `json:"mask,omitempty"`

	// Prompt describes the desired content of the masked area. May be empty.
	Prompt string `json:"prompt,omitempty"`

	Steps    int     `json:"steps" validate:"gte=15,lte=50"`
	Guidance float64 `json:"guidance" validate:"gte=1.5,lte=100"`

	PromptUpsampling bool `json:"prompt_upsampling"`

	Common
}

func NewFillInput() *FillInput {
	return &FillInput{
		Steps:    50,
		Guidance: 60,
		Common:   DefaultCommon(),
	}
}

func (in *FillInput) Validate() error {
	return check(in)
}

// KontextProInput is the request body for FLUX.1 Kontext [pro]. It stands
// alone: up to four reference images steer an edit or a generation.
type KontextProInput struct {
	Prompt string `json:"prompt" validate:"required"`

	// InputImage is a base64 encoded image or URL to use with Kontext.
	InputImage string `json:"input_image,omitempty"`
	// InputImage2 through InputImage4 are experimental multi-reference inputs.
	InputImage2 string `json:"input_image_2,omitempty"`
	InputImage3 string `json:"input_image_3,omitempty"`
	InputImage4 string `json:"input_image_4,omitempty"`

	Seed *int64 `json:"seed,omitempty"`

	Aspect

	OutputFormat  OutputFormat `json:"output_format" validate:"oneof=png jpeg"`
	WebhookURL    string       `json:"webhook_url,omitempty" validate:"omitempty,http_url"`
	WebhookSecret string       `json:"webhook_secret,omitempty"`

	PromptUpsampling bool `json:"prompt_upsampling"`
	SafetyTolerance  int  `json:"safety_tolerance" validate:"gte=0,lte=6"`
}

func NewKontextProInput() *KontextProInput {
	return &KontextProInput{
		OutputFormat:    PNG,
		SafetyTolerance: DefaultSafetyTolerance,
	}
}

func (in *KontextProInput) Validate() error {
	return check(in, in.Aspect.check())
}

// InputImages returns the non-empty reference images in order.
func (in *KontextProInput) InputImages() []string {
	var images []string
	for _, img := range []string{in.InputImage, in.InputImage2, in.InputImage3, in.InputImage4} {
		if img != "" {
			images = append(images, img)
		}
	}
	return images
}
