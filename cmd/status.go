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

	"github.com/spf13/cobra"

	"github.com/blacktop/bfl/pkg/client"
)

var (
	statusWait     bool
	statusDownload bool
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show the status of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var res *client.ResultResponse
		if statusWait || statusDownload {
			res, err = c.Poll(ctx, &client.AsyncResponse{ID: args[0]})
		} else {
			res, err = c.GetResult(ctx, args[0])
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}

		if statusDownload {
			img, err := c.Download(ctx, res.Sample())
			if err != nil {
				return fmt.Errorf("error fetching image: %w", err)
			}
			path, err := saveImage(img, res.ID, outputFolder)
			if err != nil {
				return err
			}
			logger.Info("Image saved", "path", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusWait, "wait", "w", false, "Poll until the task finishes")
	statusCmd.Flags().BoolVar(&statusDownload, "download", false, "Wait, then save the generated image")
	statusCmd.Flags().StringVarP(&outputFolder, "output", "o", "", "Output folder")
}
