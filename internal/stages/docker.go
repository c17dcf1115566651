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

var installDockerLabels = []string{"host", "install-docker"}

type InstallDockerStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateInstallDockerStage(runner Runner) *InstallDockerStage {
	return &InstallDockerStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *InstallDockerStage) Name() string {
	return "InstallDocker"
}

func (s *InstallDockerStage) Labels() []string {
	return installDockerLabels
}

func (s *InstallDockerStage) Fatal() bool {
	return true
}

func (s *InstallDockerStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.LookPath("docker"), nil
}

func (s *InstallDockerStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{"sh", "-c", "curl -fsSL https://get.docker.com | sh"}, Timeout: 15 * 60},
		{Argv: []string{"sudo", "usermod", "-aG", "docker", cfg.Devstack.StackUser}},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Infof("Installed docker, added %s to the docker group", cfg.Devstack.StackUser)
	return out, nil
}
