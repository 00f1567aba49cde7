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
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinAspectRatio is the narrowest accepted ratio (1:4).
	MinAspectRatio = 1.0 / 4.0
	// MaxAspectRatio is the widest accepted ratio (4:1).
	MaxAspectRatio = 4.0
)

var (
	// ErrAspectFormat is the cause when an aspect ratio is not "width:height".
	ErrAspectFormat = errors.New("aspect ratio must be in the format of 'width:height'")
	// ErrAspectRange is the cause when a well-formed ratio falls outside [1:4, 4:1].
	ErrAspectRange = errors.New("aspect ratio out of range")

	aspectRe = regexp.MustCompile(`^\d+:\d+$`)
)

// Ratio is a parsed "W:H" aspect ratio.
type Ratio struct {
	Width  int
	Height int
}

// Value returns Width/Height.
func (r Ratio) Value() float64 {
	return float64(r.Width) / float64(r.Height)
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Width, r.Height)
}

// ParseAspectRatio parses and bounds-checks an aspect ratio string such as "16:9".
func ParseAspectRatio(s string) (Ratio, error) {
	if !aspectRe.MatchString(s) {
		return Ratio{}, fmt.Errorf("%w, got %q", ErrAspectFormat, s)
	}
	ws, hs, _ := strings.Cut(s, ":")
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Ratio{}, fmt.Errorf("parsing width of %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Ratio{}, fmt.Errorf("parsing height of %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return Ratio{}, fmt.Errorf("%w: width and height of %q must be positive", ErrAspectFormat, s)
	}
	r := Ratio{Width: w, Height: h}
	if v := r.Value(); v < MinAspectRatio || v > MaxAspectRatio {
		return Ratio{}, fmt.Errorf("%w: aspect ratio %s (%.3f) must be between 1:4 and 4:1", ErrAspectRange, s, v)
	}
	return r, nil
}

func checkAspectRatio(field string, s *string) *ValidationError {
	if s == nil {
		return nil
	}
	if _, err := ParseAspectRatio(*s); err != nil {
		return &ValidationError{
			Field:      field,
			Constraint: "aspect_ratio",
			Value:      *s,
			Message:    "invalid aspect ratio: " + err.Error(),
			Cause:      err,
		}
	}
	return nil
}
