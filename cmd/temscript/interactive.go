package main

import (
	"context"
	"fmt"
	"maps"
	"net"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/wippyai/temscript/server"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	getStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	putStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listHeight is the number of endpoints shown at once.
const listHeight = 16

type endpoint struct {
	method string
	name   string
}

// needsInput reports whether the endpoint takes a value from the user.
func (e endpoint) needsInput() bool {
	return e.method == "PUT" || e.name == "acquire"
}

type modelState int

const (
	stateSelect modelState = iota
	stateInput
	stateResult
)

type interactiveModel struct {
	err       error
	client    *server.Client
	target    string
	result    string
	endpoints []endpoint
	input     textinput.Model
	selected  int
	state     modelState
}

type callResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(c *server.Client, target string) *interactiveModel {
	reads, writes := server.Endpoints()
	eps := make([]endpoint, 0, len(reads)+len(writes))
	for _, r := range reads {
		eps = append(eps, endpoint{method: "GET", name: r})
	}
	for _, w := range writes {
		eps = append(eps, endpoint{method: "PUT", name: w})
	}
	slices.SortStableFunc(eps, func(a, b endpoint) int { return strings.Compare(a.name, b.name) })

	return &interactiveModel{
		client:    c,
		target:    target,
		endpoints: eps,
		state:     stateSelect,
	}
}

func (m *interactiveModel) Init() tea.Cmd { return nil }

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.endpoints)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				ep := m.endpoints[m.selected]
				if !ep.needsInput() {
					return m, m.call("")
				}
				m.prepareInput(ep)
				m.state = stateInput
				return m, textinput.Blink

			case stateInput:
				return m, m.call(m.input.Value())

			case stateResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInput:
				m.state = stateSelect
			case stateResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput(ep endpoint) {
	ti := textinput.New()
	ti.Prompt = ep.name + ": "
	ti.Placeholder = "JSON value, or a bare name"
	if ep.name == "acquire" {
		ti.Placeholder = "detector names, comma separated"
	}
	ti.Width = 50
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) call(input string) tea.Cmd {
	ep := m.endpoints[m.selected]
	return func() tea.Msg {
		ctx := context.Background()
		switch {
		case ep.name == "acquire":
			return m.acquire(ctx, input)
		case ep.method == "GET":
			var v any
			if err := m.client.Get(ctx, ep.name, nil, &v); err != nil {
				return callResultMsg{err: err}
			}
			return callResultMsg{result: pretty(v)}
		}

		var rest any
		if err := m.client.Put(ctx, ep.name, nil, parseValue(input), &rest); err != nil {
			return callResultMsg{err: err}
		}
		if rest == nil {
			return callResultMsg{result: "ok"}
		}
		return callResultMsg{result: "not applied: " + pretty(rest)}
	}
}

func (m *interactiveModel) acquire(ctx context.Context, input string) tea.Msg {
	var names []string
	for n := range strings.SplitSeq(input, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	images, err := m.client.Acquire(ctx, names...)
	if err != nil {
		return callResultMsg{err: err}
	}
	if len(images) == 0 {
		return callResultMsg{result: "no images"}
	}
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(images)) {
		img := images[name]
		fmt.Fprintf(&b, "%s: %s [%s]\n", name, img.DType, img.ShapeString())
	}
	return callResultMsg{result: strings.TrimSuffix(b.String(), "\n")}
}

// parseValue decodes JSON input and falls back to the raw text, so enum
// names can be typed without quotes.
func parseValue(input string) any {
	var v any
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		return strings.TrimSpace(input)
	}
	return v
}

func pretty(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("temscript"))
	b.WriteString(" ")
	b.WriteString(m.target)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		first := max(0, min(m.selected-listHeight/2, len(m.endpoints)-listHeight))
		last := min(len(m.endpoints), first+listHeight)
		for i := first; i < last; i++ {
			line := formatEndpoint(m.endpoints[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInput:
		ep := m.endpoints[m.selected]
		b.WriteString(fmt.Sprintf("%s\n\n", formatEndpoint(ep)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter send • esc back"))

	case stateResult:
		ep := m.endpoints[m.selected]
		b.WriteString(fmt.Sprintf("%s\n\n", formatEndpoint(ep)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatEndpoint(ep endpoint) string {
	if ep.method == "GET" {
		return getStyle.Render("GET ") + ep.name
	}
	return putStyle.Render("PUT ") + ep.name
}

func newInteractiveCmd(a *app) *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Browse and drive the instrument from a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("interactive mode needs a terminal")
			}
			if remote != "" {
				return runInteractive(remote)
			}

			// Without a remote the configured backend is served on a
			// loopback port for the session.
			m, closeFn, err := a.open()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, closeFn())
			}()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			done := make(chan error, 1)
			go func() {
				done <- server.New(m, a.cfg.ServerConfig()).Serve(ctx, ln)
			}()

			err = runInteractive("http://" + ln.Addr().String())
			cancel()
			return multierr.Append(err, <-done)
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "drive a temscript server, e.g. http://tem-pc:8080")
	return cmd
}

func runInteractive(target string) error {
	c, err := server.NewClient(target)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newInteractiveModel(c, target), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
