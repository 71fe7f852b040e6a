package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vireo-dev/vireo/pkg/interpreter"
	"github.com/vireo-dev/vireo/pkg/template"
)

// replayCmd reads a captured mutation buffer from disk and applies it to
// a headless DOM stub, printing the resulting tree (spec §A.5's "vireo
// replay <file>"; exercises pkg/mutation + pkg/interpreter).
func replayCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Replay a captured mutation buffer through the headless interpreter",
		Long: `replay loads a binary mutation buffer written by CreateEngine/DiffEngine
and applies it against an in-memory DOM stub, then prints the resulting tree.

It registers the built-in demo counter template before applying the
buffer, since the wire format itself carries only TemplateId integers —
a real host registers templates out of band with the runtime.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args[0], watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "render the replayed tree in a TUI instead of printing it")

	return cmd
}

func runReplay(path string, watch bool) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc := interpreter.NewHeadlessDocument()
	root := doc.CreateElement("div")
	interp := interpreter.New(doc, root)

	if err := interp.RegisterTemplate(template.TemplateId(0), demoCounterTemplate()); err != nil {
		return fmt.Errorf("registering demo template: %w", err)
	}

	if err := interp.Apply(buf); err != nil {
		return fmt.Errorf("applying %s: %w", path, err)
	}

	tree := interpreter.Print(interp.MountRoot(), 0)

	if !watch {
		info("replayed %d bytes from %s", len(buf), path)
		fmt.Print(tree)
		return nil
	}

	_, err = tea.NewProgram(newReplayModel(path, tree)).Run()
	return err
}

// replayModel is a minimal Bubble Tea program showing the replayed tree
// (spec B's optional --watch mode, grounded on bubblyui's use of
// bubbletea/bubbles/lipgloss for a reactive TUI).
type replayModel struct {
	path string
	tree string
}

func newReplayModel(path, tree string) replayModel {
	return replayModel{path: path, tree: tree}
}

func (m replayModel) Init() tea.Cmd { return nil }

func (m replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

var replayTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func (m replayModel) View() string {
	title := replayTitleStyle.Render(fmt.Sprintf("vireo replay — %s", m.path))
	return fmt.Sprintf("%s\n\n%s\n%s\n", title, m.tree, "(press q to quit)")
}
