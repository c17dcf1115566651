// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package internal_test

import (
	"context"
	"testing"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BootstrapStageMock struct {
	mock.Mock
}

func (m *BootstrapStageMock) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *BootstrapStageMock) Labels() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *BootstrapStageMock) Fatal() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *BootstrapStageMock) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	args := m.Called(ctx, cfg)
	return args.Bool(0), args.Error(1)
}

func (m *BootstrapStageMock) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	args := m.Called(ctx, cfg)
	if err, ok := args.Get(1).(*internal.BootstrapError); ok {
		return args.String(0), err
	}
	return args.String(0), nil
}

type OrchestratorTest struct {
	suite.Suite
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTest))
}

func createMockStage(name string) *BootstrapStageMock {
	stage := &BootstrapStageMock{}
	stage.On("Name").Return(name)
	return stage
}

func succeedingStage(name string) *BootstrapStageMock {
	stage := createMockStage(name)
	stage.On("Fatal").Return(true)
	stage.On("Precondition", mock.Anything, mock.Anything).Return(false, nil)
	stage.On("Run", mock.Anything, mock.Anything).Return(name+" done", nil)
	return stage
}

func failingStage(name string, fatal bool) *BootstrapStageMock {
	stage := createMockStage(name)
	stage.On("Fatal").Return(fatal)
	stage.On("Precondition", mock.Anything, mock.Anything).Return(false, nil)
	stage.On("Run", mock.Anything, mock.Anything).Return("", &internal.BootstrapError{
		ErrorCode: internal.BootstrapErrorCodeExternalTool,
		ErrorMsg:  name + " exploded",
	})
	return stage
}

func (s *OrchestratorTest) TestRunAllStages() {
	ctx := context.Background()
	first := succeedingStage("first")
	second := succeedingStage("second")
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{first, second})

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().Nil(err)
	s.Equal(internal.StageSucceeded, report.Status)
	s.Require().Len(report.Results, 2)
	s.Equal(internal.StageSucceeded, report.Results[0].Status)
	s.Equal(internal.StageSucceeded, report.Results[1].Status)
	s.Equal("first done", report.Results[0].Output)
}

// A failed fatal stage halts the sequence: no later stage runs and the
// report covers exactly the attempted stages.
func (s *OrchestratorTest) TestFailFastStopsSequence() {
	ctx := context.Background()
	first := succeedingStage("first")
	second := succeedingStage("second")
	third := failingStage("third", true)
	fourth := createMockStage("fourth")
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{first, second, third, fourth})

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().NotNil(err)
	s.Equal(internal.BootstrapErrorCodeSequenceAborted, err.ErrorCode)
	s.Equal(internal.StageFailed, report.Status)
	s.Require().Len(report.Results, 3)
	s.Equal(internal.StageSucceeded, report.Results[0].Status)
	s.Equal(internal.StageSucceeded, report.Results[1].Status)
	s.Equal(internal.StageFailed, report.Results[2].Status)
	s.Contains(report.Results[2].Output, "third exploded")
	fourth.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

func (s *OrchestratorTest) TestNonFatalFailureContinues() {
	ctx := context.Background()
	first := failingStage("first", false)
	second := succeedingStage("second")
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{first, second})

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().Nil(err)
	s.Equal(internal.StageSucceeded, report.Status)
	s.Require().Len(report.Results, 2)
	s.Equal(internal.StageFailed, report.Results[0].Status)
	s.Equal(internal.StageSucceeded, report.Results[1].Status)
}

func (s *OrchestratorTest) TestSatisfiedPreconditionSkipsStage() {
	ctx := context.Background()
	stage := createMockStage("skipped")
	stage.On("Precondition", mock.Anything, mock.Anything).Return(true, nil)
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{stage})

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().Nil(err)
	s.Require().Len(report.Results, 1)
	s.Equal(internal.StageSkipped, report.Results[0].Status)
	stage.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

// A precondition check that cannot determine state is treated as not
// satisfied and the stage runs.
func (s *OrchestratorTest) TestPreconditionErrorRunsStage() {
	ctx := context.Background()
	stage := createMockStage("unsure")
	stage.On("Fatal").Return(true)
	stage.On("Precondition", mock.Anything, mock.Anything).Return(false, context.DeadlineExceeded)
	stage.On("Run", mock.Anything, mock.Anything).Return("ran anyway", nil)
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{stage})

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().Nil(err)
	s.Require().Len(report.Results, 1)
	s.Equal(internal.StageSucceeded, report.Results[0].Status)
	stage.AssertCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

// A cancelled run must not look like a successful one: the report carries
// the Cancelled status and the caller gets an error to exit non-zero on.
func (s *OrchestratorTest) TestCancelledBeforeFirstStage() {
	ctx := context.Background()
	stage := createMockStage("never")
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{stage})
	orchestrator.Cancel()

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().NotNil(err)
	s.Equal(internal.BootstrapErrorCodeCancelled, err.ErrorCode)
	s.Contains(err.ErrorMsg, "never")
	s.Equal(internal.StageCancelled, report.Status)
	s.Empty(report.Results)
	stage.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

func (s *OrchestratorTest) TestCancelBetweenStages() {
	ctx := context.Background()
	first := createMockStage("first")
	second := createMockStage("second")
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{first, second})

	first.On("Fatal").Return(true)
	first.On("Precondition", mock.Anything, mock.Anything).Return(false, nil)
	first.On("Run", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		orchestrator.Cancel()
	}).Return("first done", nil)

	report, err := orchestrator.Run(ctx, config.DefaultConfig())
	s.Require().NotNil(err)
	s.Equal(internal.BootstrapErrorCodeCancelled, err.ErrorCode)
	s.Equal(internal.StageCancelled, report.Status)
	s.Require().Len(report.Results, 1)
	s.Equal(internal.StageSucceeded, report.Results[0].Status)
	second.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

func (s *OrchestratorTest) TestNilConfig() {
	ctx := context.Background()
	orchestrator := internal.CreateOrchestrator([]internal.BootstrapStage{})

	_, err := orchestrator.Run(ctx, nil)
	s.Require().NotNil(err)
	s.Equal(internal.BootstrapErrorCodeInvalidArgument, err.ErrorCode)
}

func (s *OrchestratorTest) TestFilterStages() {
	host := createMockStage("host")
	host.On("Labels").Return([]string{"host", "install-packages"})
	cluster := createMockStage("cluster")
	cluster.On("Labels").Return([]string{"openstack"})

	all := []internal.BootstrapStage{host, cluster}
	s.Len(internal.FilterStages(all, nil), 2)
	filtered := internal.FilterStages(all, []string{"openstack"})
	s.Require().Len(filtered, 1)
	s.Equal("cluster", filtered[0].Name())
}
