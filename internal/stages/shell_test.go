// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages_test

import (
	"context"
	"testing"
	"time"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/stages"
	"github.com/stretchr/testify/suite"
)

type ShellRunnerTest struct {
	suite.Suite
	runner stages.Runner
}

func TestShellRunnerSuite(t *testing.T) {
	suite.Run(t, new(ShellRunnerTest))
}

func (s *ShellRunnerTest) SetupTest() {
	s.runner = stages.CreateRunner()
}

func (s *ShellRunnerTest) TestRunCapturesStdout() {
	out, err := s.runner.Run(context.Background(), stages.Command{
		Argv: []string{"echo", "hello"},
	})
	s.Require().Nil(err)
	s.Equal("hello\n", out.Stdout)
}

func (s *ShellRunnerTest) TestRunCapturesBothStreamsOnFailure() {
	out, err := s.runner.Run(context.Background(), stages.Command{
		Argv: []string{"sh", "-c", "echo out; echo err 1>&2; exit 3"},
	})
	s.Require().NotNil(err)
	s.Equal(internal.BootstrapErrorCodeExternalTool, err.ErrorCode)
	s.Contains(out.Stdout, "out")
	s.Contains(out.Stderr, "err")
	s.Contains(out.Combined(), "out")
	s.Contains(out.Combined(), "err")
}

func (s *ShellRunnerTest) TestRunPipesStdin() {
	out, err := s.runner.Run(context.Background(), stages.Command{
		Argv:  []string{"cat"},
		Stdin: "piped input",
	})
	s.Require().Nil(err)
	s.Equal("piped input", out.Stdout)
}

func (s *ShellRunnerTest) TestRunSetsWorkingDir() {
	dir := s.T().TempDir()
	out, err := s.runner.Run(context.Background(), stages.Command{
		Argv: []string{"pwd"},
		Dir:  dir,
	})
	s.Require().Nil(err)
	s.Contains(out.Stdout, dir)
}

func (s *ShellRunnerTest) TestProbeMatchesMarker() {
	found, err := s.runner.Probe(context.Background(), "echo install ok installed", "ok installed")
	s.NoError(err)
	s.True(found)

	found, err = s.runner.Probe(context.Background(), "echo something else", "ok installed")
	s.NoError(err)
	s.False(found)
}

// The shell expands an unquoted ${...} before the tool sees it; single
// quotes keep the literal intact, which guards like the dpkg-query status
// format depend on.
func (s *ShellRunnerTest) TestProbeQuotingControlsExpansion() {
	found, err := s.runner.Probe(context.Background(),
		"unset Status; echo before${Status}after", "beforeafter")
	s.NoError(err)
	s.True(found)

	found, err = s.runner.Probe(context.Background(),
		"unset Status; echo -f='${Status}' mypkg", "${Status}")
	s.NoError(err)
	s.True(found)
}

func (s *ShellRunnerTest) TestProbeHonorsContextDeadline() {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	found, err := s.runner.Probe(ctx, "sleep 30", "never")
	s.Error(err)
	s.False(found)
	s.Less(time.Since(start), 10*time.Second)
}

func (s *ShellRunnerTest) TestLookPath() {
	s.True(s.runner.LookPath("sh"))
	s.False(s.runner.LookPath("tool-that-does-not-exist-anywhere"))
}

type DryRunnerTest struct {
	suite.Suite
	runner stages.Runner
}

func TestDryRunnerSuite(t *testing.T) {
	suite.Run(t, new(DryRunnerTest))
}

func (s *DryRunnerTest) SetupTest() {
	s.runner = stages.CreateDryRunner()
}

func (s *DryRunnerTest) TestRunOnlyLogs() {
	out, err := s.runner.Run(context.Background(), stages.Command{
		Argv: []string{"rm", "-rf", "/important"},
	})
	s.Require().Nil(err)
	s.Equal("dry-run: rm -rf /important", out.Stdout)
}

// Dry-run probes never report satisfied, so every stage walks its action
// list as logged no-ops.
func (s *DryRunnerTest) TestProbeNeverSatisfied() {
	found, err := s.runner.Probe(context.Background(), "kind get clusters", "capi-mgmt")
	s.NoError(err)
	s.False(found)
	s.False(s.runner.LookPath("docker"))
}
