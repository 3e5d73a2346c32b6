package cli

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/examples.md
var examplesMarkdown string

// examplesCmd represents the examples command
var examplesCmd = &cobra.Command{
	Use:         "examples",
	Short:       "Show usage examples",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runExamples,
}

func runExamples(cmd *cobra.Command, args []string) error {
	fmt.Fprint(stdout, renderMarkdown(examplesMarkdown))
	return nil
}

// renderMarkdown renders md for the terminal, or returns it unchanged
// when color is off.
func renderMarkdown(md string) string {
	if !colorEnabled {
		return md
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
