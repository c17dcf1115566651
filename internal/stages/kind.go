// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"path/filepath"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"go.uber.org/zap"
)

var installKindLabels = []string{"kubernetes", "install-kind"}

type InstallKindStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateInstallKindStage(runner Runner) *InstallKindStage {
	return &InstallKindStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *InstallKindStage) Name() string {
	return "InstallKind"
}

func (s *InstallKindStage) Labels() []string {
	return installKindLabels
}

func (s *InstallKindStage) Fatal() bool {
	return true
}

func (s *InstallKindStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.LookPath("kind"), nil
}

func (s *InstallKindStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	url := "https://kind.sigs.k8s.io/dl/" + cfg.Kubernetes.KindVersion + "/kind-linux-amd64"
	downloadPath := filepath.Join(cfg.BinDir(), "kind")
	commands := []Command{
		{Argv: []string{"mkdir", "-p", cfg.BinDir()}},
		{Argv: []string{"curl", "-fLo", downloadPath, url}, Timeout: 10 * 60},
		{Argv: []string{"sudo", "install", "-m", "0755", downloadPath, "/usr/local/bin/kind"}},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Infof("Installed kind %s", cfg.Kubernetes.KindVersion)
	return out, nil
}

var managementClusterLabels = []string{"kubernetes", "management-cluster"}

type ManagementClusterStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateManagementClusterStage(runner Runner) *ManagementClusterStage {
	return &ManagementClusterStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *ManagementClusterStage) Name() string {
	return "CreateManagementCluster"
}

func (s *ManagementClusterStage) Labels() []string {
	return managementClusterLabels
}

func (s *ManagementClusterStage) Fatal() bool {
	return true
}

func (s *ManagementClusterStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.Probe(ctx, "kind get clusters", cfg.Kubernetes.ManagementCluster)
}

func (s *ManagementClusterStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{
			"kind", "create", "cluster", "--name", cfg.Kubernetes.ManagementCluster,
		}, Timeout: 15 * 60},
		{Argv: []string{
			"kubectl", "cluster-info", "--context", "kind-" + cfg.Kubernetes.ManagementCluster,
		}},
	}
	return runAll(ctx, s.runner, commands)
}
