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
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	termimg "github.com/blacktop/go-termimg"
)

const previewWidth = 80

// sanitize turns a prompt into a filename stem.
func sanitize(prompt string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, prompt)
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	if s == "" {
		s = "image"
	}
	return s
}

// imageExt picks a file extension from the image bytes.
func imageExt(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func saveImage(image []byte, prompt, folder string) (string, error) {
	filename := fmt.Sprintf("%s_%d%s", sanitize(prompt), time.Now().Unix(), imageExt(image))
	if folder != "" {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return "", fmt.Errorf("error creating output folder: %w", err)
		}
		filename = filepath.Join(folder, filename)
	}
	if err := os.WriteFile(filename, image, 0o644); err != nil {
		return "", fmt.Errorf("error saving image: %w", err)
	}
	return filename, nil
}

// renderFile renders an image file for inline terminal display.
func renderFile(path string, width int) (string, error) {
	img, err := termimg.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening image: %w", err)
	}
	return img.Width(width).Render()
}

// renderImage renders image bytes for inline terminal display.
func renderImage(image []byte, width int) (string, error) {
	f, err := os.CreateTemp("", "bfl-preview-*"+imageExt(image))
	if err != nil {
		return "", fmt.Errorf("error creating preview file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(image); err != nil {
		f.Close()
		return "", fmt.Errorf("error writing preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error writing preview file: %w", err)
	}
	return renderFile(f.Name(), width)
}
