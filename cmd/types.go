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

// config carries the root command flags into the TUI.
type config struct {
	Model        string
	AspectRatio  string
	OutputFormat string
	OutputFolder string
}

// generateOptions are the `generate` flags that map onto request fields.
type generateOptions struct {
	Model        string
	Prompt       string
	AspectRatio  string
	OutputFormat string
	Width        int
	Height       int
	Seed         int64
	Steps        int
	Guidance     float64
	Safety       int
	Raw          bool
	Upsample     bool
	Image        string
	Mask         string
	WebhookURL   string
	InputFile    string
	Set          map[string]string
	OutputFolder string
	NoWait       bool
	Display      bool
}
