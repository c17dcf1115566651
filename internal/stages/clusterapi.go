// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"path/filepath"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"github.com/open-edge-platform/capi-bootstrap/internal/render"
	"go.uber.org/zap"
)

var applyClusterAPILabels = []string{"kubernetes", "cluster-api"}

type ApplyClusterAPIStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateApplyClusterAPIStage(runner Runner) *ApplyClusterAPIStage {
	return &ApplyClusterAPIStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *ApplyClusterAPIStage) Name() string {
	return "ApplyClusterAPI"
}

func (s *ApplyClusterAPIStage) Labels() []string {
	return applyClusterAPILabels
}

func (s *ApplyClusterAPIStage) Fatal() bool {
	return true
}

func (s *ApplyClusterAPIStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.Probe(ctx, "kubectl get namespace capi-system -o name", "namespace/capi-system")
}

// Run renders the kustomization pinning the cluster-api core and openstack
// provider components and applies it into the management cluster.
func (s *ApplyClusterAPIStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	manifestDir := filepath.Join(cfg.Runtime.WorkDir, "cluster-api")
	values := map[string]any{
		"CapiVersion": cfg.Kubernetes.CapiVersion,
		"CapoVersion": cfg.Kubernetes.CapoVersion,
	}
	if !cfg.Runtime.DryRun {
		path := filepath.Join(manifestDir, "kustomization.yaml")
		if err := render.RenderToFile("kustomization.yaml", render.KustomizationTemplate, values, path); err != nil {
			return "", err
		}
		s.logger.Infof("Wrote %s", path)
	}
	commands := []Command{
		{Argv: []string{"kubectl", "apply", "-k", manifestDir}, Timeout: 10 * 60},
	}
	return runAll(ctx, s.runner, commands)
}
