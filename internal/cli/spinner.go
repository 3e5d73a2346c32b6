package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// withSpinner runs action while a spinner animates. Without a terminal, or
// in quiet mode, the action runs directly.
func withSpinner(ctx context.Context, title string, action func()) error {
	if globalQuiet || !isTerminal(stdout) {
		action()
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		action()
	}()

	err := spinner.New().
		Title(title).
		Action(func() {
			select {
			case <-ctx.Done():
			case <-done:
			}
		}).
		Run()
	// Wait for the action even when the spinner stopped early.
	<-done
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return nil
}
