package controller

import (
	"context"
	"errors"
	"fmt"

	"kuctl/internal/config"
	"kuctl/internal/transport"
	"kuctl/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
)

// reportFailure applies the failure policy to a failed request. The panel
// never changes here: a failed submit leaves its panel up for another try.
func reportFailure(m *model.Model, action string, err error) tea.Cmd {
	LogError(controllerSubsystem, err, "%s failed", action)
	if m.Policy != config.FailurePolicyNotify {
		return nil
	}
	return m.SetStatusMessage(fmt.Sprintf("%s failed: %s", action, describeFailure(err)),
		model.StatusBarError, m.StatusTimeout)
}

func describeFailure(err error) string {
	var serr *transport.StatusError
	if errors.As(err, &serr) {
		return fmt.Sprintf("agent answered %d", serr.Got)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "agent did not answer in time"
	}
	return "agent unreachable"
}
