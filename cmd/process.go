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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blacktop/bfl/pkg/client"
)

var (
	processEndpoint string
	processSet      map[string]string
)

// imageSource picks the source kind from the path: folder, zip or single file.
func imageSource(path string) (client.ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return client.ImageSource{}, fmt.Errorf("%w: %w", client.ErrInvalidImageSource, err)
	}
	switch {
	case fi.IsDir():
		return client.ImageSource{Folder: path}, nil
	case strings.EqualFold(filepath.Ext(path), ".zip"):
		return client.ImageSource{Zip: path}, nil
	default:
		return client.ImageSource{Path: path}, nil
	}
}

var processCmd = &cobra.Command{
	Use:   "process <image|folder|zip>",
	Short: "Upload one or more images to an image-processing endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := imageSource(args[0])
		if err != nil {
			return err
		}
		extra, err := parseSetValues(processSet, nil)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.ProcessImage(cmd.Context(), src, processEndpoint, extra)
		if err != nil {
			return err
		}
		logger.Info("Task submitted", "id", res.TaskID)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVarP(&processEndpoint, "endpoint", "e", client.DefaultProcessEndpoint, "API endpoint")
	processCmd.Flags().StringToStringVar(&processSet, "set", nil, "Extra request field (key=value, repeatable)")
}
