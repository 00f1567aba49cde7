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
package client

import (
	"archive/zip"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultProcessEndpoint is used by ProcessImage when no endpoint is given.
const DefaultProcessEndpoint = "/v1/image"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// ImageSource selects where ProcessImage reads images from. The first
// non-empty field wins, in declaration order.
type ImageSource struct {
	Path   string // single image file
	Folder string // every image directly inside the folder
	Zip    string // every image inside the archive
	Data   string // already base64 encoded image
}

// Encode returns a base64 string for Path and Data, and a slice of them
// for Folder and Zip.
func (s ImageSource) Encode() (any, error) {
	switch {
	case s.Path != "":
		return EncodeFile(s.Path)
	case s.Folder != "":
		return EncodeFolder(s.Folder)
	case s.Zip != "":
		return EncodeZip(s.Zip)
	case s.Data != "":
		return s.Data, nil
	}
	return nil, fmt.Errorf("%w: no image input provided", ErrInvalidImageSource)
}

// EncodeFile reads an image file as base64.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidImageSource, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// EncodeFolder encodes every image file directly inside dir, in name order.
func EncodeFolder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid folder path %s: %w", ErrInvalidImageSource, dir, err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		img, err := EncodeFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("processing image %s: %w", e.Name(), err)
		}
		images = append(images, img)
	}
	return images, nil
}

// EncodeZip encodes every image file inside a zip archive, in archive order.
func EncodeZip(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid zip file path %s: %w", ErrInvalidImageSource, path, err)
	}
	defer r.Close()

	var images []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsImageFile(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: processing image %s from zip: %w", ErrInvalidImageSource, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: processing image %s from zip: %w", ErrInvalidImageSource, f.Name, err)
		}
		images = append(images, base64.StdEncoding.EncodeToString(data))
	}
	return images, nil
}

// ProcessImage encodes src and posts it as "image" to endpoint, merged with
// extra fields. Extra fields win on conflict.
func (c *Client) ProcessImage(ctx context.Context, src ImageSource, endpoint string, extra map[string]any) (*ImageProcessingResponse, error) {
	image, err := src.Encode()
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = DefaultProcessEndpoint
	}
	payload := map[string]any{"image": image}
	maps.Copy(payload, extra)

	resp, err := c.request(ctx, http.MethodPost, endpoint, nil, payload)
	if err != nil {
		return nil, err
	}
	return &ImageProcessingResponse{
		TaskID: stringField(resp, "id"),
		Status: "submitted",
		Result: resp,
	}, nil
}
