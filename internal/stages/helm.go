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

var installHelmLabels = []string{"kubernetes", "install-helm"}

type InstallHelmStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateInstallHelmStage(runner Runner) *InstallHelmStage {
	return &InstallHelmStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *InstallHelmStage) Name() string {
	return "InstallHelm"
}

func (s *InstallHelmStage) Labels() []string {
	return installHelmLabels
}

func (s *InstallHelmStage) Fatal() bool {
	return true
}

func (s *InstallHelmStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.LookPath("helm"), nil
}

func (s *InstallHelmStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{
			"sh", "-c",
			"curl -fsSL https://raw.githubusercontent.com/helm/helm/main/scripts/get-helm-3 | bash",
		}, Timeout: 10 * 60},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Info("Installed helm")
	return out, nil
}
