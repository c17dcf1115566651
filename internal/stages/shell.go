// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/bitfield/script"
	"github.com/open-edge-platform/capi-bootstrap/internal"
)

const DefaultTimeout = 60 // seconds

// Runner executes external tools for the stages. A command succeeds when it
// exits zero; stdout and stderr are captured verbatim for the run report.
type Runner interface {
	Run(ctx context.Context, input Command) (*CommandOutput, *internal.BootstrapError)

	// Probe runs a read-only command line and reports whether its output
	// contains the marker. Used by stage preconditions.
	Probe(ctx context.Context, cmdline string, marker string) (bool, error)

	// LookPath reports whether the named tool is on PATH.
	LookPath(name string) bool
}

type Command struct {
	Argv    []string
	Dir     string
	Env     []string // appended to the inherited environment
	Stdin   string
	Timeout int // seconds
}

type CommandOutput struct {
	Stdout string
	Stderr string
	Error  error
}

func (o *CommandOutput) Combined() string {
	out := o.Stdout
	if o.Stderr != "" {
		if out != "" {
			out += "\n"
		}
		out += o.Stderr
	}
	return out
}

type shellRunner struct{}

func CreateRunner() Runner {
	return &shellRunner{}
}

func (r *shellRunner) Run(ctx context.Context, input Command) (*CommandOutput, *internal.BootstrapError) {
	logger := internal.Logger()
	logger.Debugf("Running command: %s", strings.Join(input.Argv, " "))
	if input.Timeout <= 0 {
		input.Timeout = DefaultTimeout
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(input.Timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, input.Argv[0], input.Argv[1:]...)
	cmd.Dir = input.Dir
	if len(input.Env) > 0 {
		cmd.Env = append(os.Environ(), input.Env...)
	}
	if input.Stdin != "" {
		cmd.Stdin = strings.NewReader(input.Stdin)
	}

	stdoutWriter := strings.Builder{}
	stderrWriter := strings.Builder{}
	cmd.Stdout = &stdoutWriter
	cmd.Stderr = &stderrWriter

	err := cmd.Run()
	output := &CommandOutput{
		Stdout: stdoutWriter.String(),
		Stderr: stderrWriter.String(),
		Error:  err,
	}
	if err != nil {
		return output, &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeExternalTool,
			ErrorMsg:  fmt.Sprintf("command %q failed: %v", strings.Join(input.Argv, " "), err),
		}
	}
	return output, nil
}

// Probe runs the command line through sh so that quoting reaches the
// external tool intact, under the same timeout contract as Run.
func (r *shellRunner) Probe(ctx context.Context, cmdline string, marker string) (bool, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(DefaultTimeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, "sh", "-c", cmdline)
	stdout := strings.Builder{}
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if timeoutCtx.Err() != nil {
			return false, timeoutCtx.Err()
		}
		return false, err
	}
	matches, err := script.Echo(stdout.String()).Match(marker).CountLines()
	if err != nil {
		return false, err
	}
	return matches > 0, nil
}

func (r *shellRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// dryRunner logs the commands the stages would run without executing them.
// Probes report "not satisfied" so every stage goes through its action list.
type dryRunner struct{}

func CreateDryRunner() Runner {
	return &dryRunner{}
}

func (r *dryRunner) Run(ctx context.Context, input Command) (*CommandOutput, *internal.BootstrapError) {
	line := "dry-run: " + strings.Join(input.Argv, " ")
	internal.Logger().Info(line)
	return &CommandOutput{Stdout: line}, nil
}

func (r *dryRunner) Probe(ctx context.Context, cmdline string, marker string) (bool, error) {
	return false, nil
}

func (r *dryRunner) LookPath(name string) bool {
	return false
}
