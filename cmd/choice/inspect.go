package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/bitwire-runtime/gen/pmr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Interactively edit a value and watch its encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("inspect needs an interactive terminal")
			}
			p := tea.NewProgram(newInspectModel(), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type inspectModel struct {
	err   error
	enc   encoded
	input textinput.Model
	tag   bool
}

func newInspectModel() *inspectModel {
	ti := textinput.New()
	ti.Prompt = "value: "
	ti.Placeholder = "integer"
	ti.Width = 24
	ti.Focus()

	m := &inspectModel{input: ti, tag: true}
	m.input.SetValue("0")
	m.recompute()
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.tag = !m.tag
			m.recompute()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.recompute()
	return m, cmd
}

func (m *inspectModel) recompute() {
	m.err = nil
	m.enc = encoded{}

	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.err = fmt.Errorf("not an integer: %q", raw)
		return
	}
	m.enc, m.err = encodeValue(m.tag, v)
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BoolParamChoice"))
	b.WriteString("\n\n")

	alt := "valueB int16"
	if m.tag {
		alt = "valueA int8"
	}
	b.WriteString(tagStyle.Render(fmt.Sprintf("tag: %v -> %s", m.tag, alt)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.enc.data != nil:
		b.WriteString(resultStyle.Render(fmt.Sprintf("hex: % x\nbits: %d", m.enc.data, m.enc.bits)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("tab toggle tag • esc quit • %s", pmr.BoolParamChoiceSchema().Name())))

	return b.String()
}
