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

	"github.com/spf13/cobra"

	"github.com/blacktop/bfl/pkg/client"
	"github.com/blacktop/bfl/pkg/registry"
)

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate an image from a prompt",
	Example: `  bfl generate -p "a fox in the snow"
  bfl generate -m flux-pro-1.1-ultra -p "a fox" -a 21:9 --raw
  bfl generate -m flux-kontext-pro -p "make it night" --image fox.png
  bfl generate -m flux-dev --input request.yaml --set steps=40`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := registry.Resolve(genOpts.Model)
		if err != nil {
			return err
		}
		raw, err := requestFields(entry, &genOpts, cmd.Flags().Changed)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		task, err := c.Generate(ctx, genOpts.Model, raw)
		if err != nil {
			return err
		}
		logger.Info("Task submitted", "id", task.ID, "model", entry.Model)
		if genOpts.NoWait {
			fmt.Println(task.ID)
			if task.PollingURL != "" {
				fmt.Println(task.PollingURL)
			}
			return nil
		}

		res, err := c.PollFunc(ctx, task, func(r *client.ResultResponse) {
			if r.Progress != nil {
				logger.Info("Waiting", "status", r.Status, "progress", fmt.Sprintf("%.0f%%", *r.Progress*100))
				return
			}
			logger.Info("Waiting", "status", r.Status)
		})
		if err != nil {
			return err
		}
		img, err := c.Download(ctx, res.Sample())
		if err != nil {
			return fmt.Errorf("error fetching image: %w", err)
		}
		prompt, _ := raw["prompt"].(string)
		path, err := saveImage(img, prompt, genOpts.OutputFolder)
		if err != nil {
			return err
		}
		logger.Info("Image saved", "path", path)

		if genOpts.Display {
			out, err := renderFile(path, previewWidth)
			if err != nil {
				logger.Warn("Unable to display image", "err", err)
				return nil
			}
			fmt.Println(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVarP(&genOpts.Model, "model", "m", string(registry.FluxPro11), "Model to use")
	f.StringVarP(&genOpts.Prompt, "prompt", "p", "", "Prompt for image generation")
	f.StringVarP(&genOpts.AspectRatio, "aspect", "a", "1:1", "Aspect ratio (W:H between 1:4 and 4:1); converted to width/height for pixel-sized models")
	f.StringVarP(&genOpts.OutputFormat, "format", "f", "jpeg", "Output image format (jpeg or png)")
	f.IntVar(&genOpts.Width, "width", 0, "Width in pixels (256-1440)")
	f.IntVar(&genOpts.Height, "height", 0, "Height in pixels (256-1440)")
	f.Int64Var(&genOpts.Seed, "seed", 0, "Seed for reproducible generation")
	f.IntVar(&genOpts.Steps, "steps", 0, "Number of diffusion steps")
	f.Float64Var(&genOpts.Guidance, "guidance", 0, "Guidance scale")
	f.IntVar(&genOpts.Safety, "safety", 2, "Safety tolerance, 0 is most strict and 6 is most permissive")
	f.BoolVar(&genOpts.Raw, "raw", false, "Less processed, more natural-looking images (ultra)")
	f.BoolVar(&genOpts.Upsample, "upsample", false, "Upsample the prompt for more creative generation")
	f.StringVar(&genOpts.Image, "image", "", "Reference image file (image prompt, Kontext input or Fill image)")
	f.StringVar(&genOpts.Mask, "mask", "", "Mask image file (fill)")
	f.StringVar(&genOpts.WebhookURL, "webhook", "", "Webhook URL notified on completion")
	f.StringVarP(&genOpts.InputFile, "input", "i", "", "YAML or JSON file of request fields")
	f.StringToStringVar(&genOpts.Set, "set", nil, "Set a request field (key=value, repeatable)")
	f.StringVarP(&genOpts.OutputFolder, "output", "o", "", "Output folder")
	f.BoolVar(&genOpts.NoWait, "no-wait", false, "Print the task id and exit without polling")
	f.BoolVarP(&genOpts.Display, "display", "d", false, "Display the image in the terminal")
	generateCmd.MarkFlagFilename("input", "yaml", "yml", "json")
	generateCmd.MarkFlagDirname("output")
}
