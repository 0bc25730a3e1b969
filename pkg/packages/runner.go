package packages

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
)

// Runner executes an external command and returns its standard output.
// Tests substitute a stub; production code uses os/exec. Commands run
// to completion with no timeout, so a hung manager blocks the batch.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner is the os/exec backed Runner
type execRunner struct{}

// NewExecRunner returns the production Runner
func NewExecRunner() Runner {
	return &execRunner{}
}

func (e *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// renderCommand substitutes the package name into a command template
// and splits the result into argv form. Templates are validated at
// registry construction to carry exactly one placeholder; this guards
// again for configs built by hand.
func renderCommand(tmpl, pkg string) ([]string, error) {
	if !types.HasOnePlaceholder(tmpl) {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"command template %q must contain exactly one %s placeholder", tmpl, types.Placeholder)
	}
	rendered := fmt.Sprintf(tmpl, pkg)
	argv := strings.Fields(rendered)
	if len(argv) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "command template %q renders to nothing", tmpl)
	}
	return argv, nil
}
