// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"fmt"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"go.uber.org/zap"
)

// Host packages devstack and the bootstrap tooling need.
var basePackages = []string{
	"build-essential",
	"git",
	"jq",
	"python3-dev",
	"python3-pip",
	"wget",
}

var installPackagesLabels = []string{"host", "install-packages"}

type InstallPackagesStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateInstallPackagesStage(runner Runner) *InstallPackagesStage {
	return &InstallPackagesStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *InstallPackagesStage) Name() string {
	return "InstallPackages"
}

func (s *InstallPackagesStage) Labels() []string {
	return installPackagesLabels
}

func (s *InstallPackagesStage) Fatal() bool {
	return true
}

func (s *InstallPackagesStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	for _, pkg := range basePackages {
		// The format must stay single-quoted so ${Status} reaches
		// dpkg-query instead of being expanded by the shell.
		installed, err := s.runner.Probe(ctx,
			fmt.Sprintf("dpkg-query -W -f='${Status}' %s", pkg), "install ok installed")
		if err != nil {
			return false, err
		}
		if !installed {
			return false, nil
		}
	}
	return true, nil
}

func (s *InstallPackagesStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	env := []string{"DEBIAN_FRONTEND=noninteractive"}
	commands := []Command{
		{Argv: []string{"sudo", "-E", "apt-get", "update"}, Env: env, Timeout: 10 * 60},
		{Argv: append([]string{"sudo", "-E", "apt-get", "install", "-y"}, basePackages...), Env: env, Timeout: 30 * 60},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Infof("Installed host packages: %v", basePackages)
	return out, nil
}
