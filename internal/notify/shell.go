package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ShellNotifier runs a command with sh -c. The command sees TYPE (the
// capitalized prayer name), DIFF (the offset in seconds) and TIME (the
// formatted firing time) in its environment.
type ShellNotifier struct {
	cmd   string
	shell string
}

// NewShellNotifier creates a notifier for cmd.
func NewShellNotifier(cmd string) *ShellNotifier {
	return &ShellNotifier{cmd: cmd, shell: "sh"}
}

// Name implements Notifier.
func (s *ShellNotifier) Name() string {
	return "shell"
}

// Env returns the variables passed to the command.
func (s *ShellNotifier) Env(n Notification) []string {
	return []string{
		"TYPE=" + n.Prayer.Title(),
		"DIFF=" + strconv.Itoa(n.Diff),
		"TIME=" + n.Formatted,
	}
}

// Notify implements Notifier.
func (s *ShellNotifier) Notify(ctx context.Context, n Notification) error {
	c := exec.CommandContext(ctx, s.shell, "-c", s.cmd) //nolint:gosec // commands come from the operator's config
	c.Env = append(os.Environ(), s.Env(n)...)

	out, err := c.CombinedOutput()
	if len(out) > 0 {
		log.Debug().Str("cmd", s.cmd).Str("output", strings.TrimSpace(string(out))).Msg("command output")
	}
	if err != nil {
		return fmt.Errorf("command %q: %w", s.cmd, err)
	}
	return nil
}
