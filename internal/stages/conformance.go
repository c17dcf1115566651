// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"go.uber.org/zap"
)

var runConformanceLabels = []string{"conformance", "optional"}

// RunConformanceStage is best effort: a failed conformance run is recorded
// in the report but does not abort the bootstrap.
type RunConformanceStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateRunConformanceStage(runner Runner) *RunConformanceStage {
	return &RunConformanceStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *RunConformanceStage) Name() string {
	return "RunConformance"
}

func (s *RunConformanceStage) Labels() []string {
	return runConformanceLabels
}

func (s *RunConformanceStage) Fatal() bool {
	return false
}

func (s *RunConformanceStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return false, nil
}

func (s *RunConformanceStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{"sonobuoy", "run", "--mode", "quick", "--wait"}, Timeout: 60 * 60},
	}
	return runAll(ctx, s.runner, commands)
}
