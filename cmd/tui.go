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
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blacktop/bfl/pkg/client"
	"github.com/blacktop/bfl/pkg/registry"
)

const (
	buttonNone = iota
	buttonDownload
	buttonRegenerate
)

// imageMsg carries a finished generation.
type imageMsg []byte

type model struct {
	ctx          context.Context
	client       *client.Client
	entry        registry.Entry
	config       *config
	prompt       string
	image        []byte
	preview      string
	err          error
	inputMode    bool
	buttonMode   int
	textInput    textinput.Model
	viewport     viewport.Model
	spinner      spinner.Model
	width        int
	height       int
	generating   bool
	regenerating bool
	saved        string
}

func initialModel(ctx context.Context, c *client.Client, entry registry.Entry, cfg *config) model {
	ti := textinput.New()
	ti.Placeholder = "Enter prompt"
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		ctx:       ctx,
		client:    c,
		entry:     entry,
		config:    cfg,
		inputMode: true,
		textInput: ti,
		viewport:  viewport.New(0, 0),
		spinner:   s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - int(float64(m.width)*0.4)
		m.viewport.Height = m.height
		m.renderPreview()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "q":
			if !m.inputMode {
				return m, tea.Quit
			}
		case "enter":
			if m.inputMode {
				m.prompt = m.textInput.Value()
				if m.prompt == "" {
					return m, nil
				}
				m.inputMode = false
				m.generating = true
				return m, tea.Batch(m.generate(), m.spinner.Tick)
			}
			switch m.buttonMode {
			case buttonDownload:
				logger.Debug("Downloading image")
				m.saved, m.err = saveImage(m.image, m.prompt, m.config.OutputFolder)
				return m, tea.Quit
			case buttonRegenerate:
				logger.Debug("Regenerating image", "prompt", m.prompt)
				m.regenerating = true
				m.generating = true
				m.image = nil
				m.preview = ""
				m.viewport.SetContent("")
				return m, tea.Batch(m.generate(), m.spinner.Tick)
			}
			return m, nil
		case "tab":
			if !m.inputMode {
				m.buttonMode = (m.buttonMode + 1) % 3
			}
			return m, nil
		}
	case imageMsg:
		m.image = msg
		m.generating = false
		m.regenerating = false
		m.renderPreview()
		return m, nil
	case error:
		m.err = msg
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.inputMode {
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) renderPreview() {
	if len(m.image) == 0 || m.viewport.Width == 0 {
		return
	}
	preview, err := renderImage(m.image, m.viewport.Width)
	if err != nil {
		preview = fmt.Sprintf("Unable to preview image: %v", err)
	}
	m.preview = preview
	m.viewport.SetContent(preview)
}

// generate submits the prompt and waits for the image.
func (m model) generate() tea.Cmd {
	ctx, c, entry, cfg, prompt := m.ctx, m.client, m.entry, m.config, m.prompt
	return func() tea.Msg {
		raw := map[string]any{
			"prompt":        prompt,
			"output_format": cfg.OutputFormat,
		}
		if err := sizeFields(raw, entry, cfg.AspectRatio); err != nil {
			return err
		}
		task, err := c.Generate(ctx, cfg.Model, raw)
		if err != nil {
			return err
		}
		logger.Debug("Task submitted", "id", task.ID)
		res, err := c.Poll(ctx, task)
		if err != nil {
			return err
		}
		img, err := c.Download(ctx, res.Sample())
		if err != nil {
			return fmt.Errorf("error fetching image: %w", err)
		}
		return imageMsg(img)
	}
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	if m.width == 0 {
		return "Initializing..."
	}

	if m.generating && (len(m.image) == 0 || m.regenerating) {
		return lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(m.spinnerPopup())
	}

	leftWidth := int(float64(m.width) * 0.4)
	rightWidth := m.width - leftWidth

	return lipgloss.JoinHorizontal(lipgloss.Top, m.leftPanelView(leftWidth), m.rightPanelView(rightWidth))
}

func (m model) spinnerPopup() string {
	style := lipgloss.NewStyle().
		Width(40).
		Height(3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Align(lipgloss.Center, lipgloss.Center)

	content := fmt.Sprintf("%s Generating with %s...", m.spinner.View(), m.config.Model)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, style.Render(content))
}

func (m model) leftPanelView(width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Height(m.height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true)

	var content string
	switch {
	case m.inputMode:
		content = fmt.Sprintf("Model: %s\n\nEnter prompt:\n\n%s", m.config.Model, m.textInput.View())
	case len(m.image) > 0:
		downloadStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
		regenerateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

		switch m.buttonMode {
		case buttonDownload:
			downloadStyle = downloadStyle.Background(lipgloss.Color("7"))
		case buttonRegenerate:
			regenerateStyle = regenerateStyle.Background(lipgloss.Color("7"))
		}

		content = fmt.Sprintf(
			"Prompt: %s\n\n%s\n%s",
			m.prompt,
			downloadStyle.Render("[ Download ]"),
			regenerateStyle.Render("[ Regenerate ]"),
		)
	default:
		content = "Generating image..."
	}

	return style.Render(content)
}

func (m model) rightPanelView(width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Height(m.height)

	if m.preview != "" && !m.regenerating {
		return style.Render(lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, m.viewport.View()))
	}

	if m.regenerating {
		return style.Render("")
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Align(lipgloss.Center, lipgloss.Center).
		Width(width).
		Height(m.height).
		Render("Image will be displayed here")
}
