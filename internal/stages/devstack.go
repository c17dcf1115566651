// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"github.com/open-edge-platform/capi-bootstrap/internal/render"
	"go.uber.org/zap"
)

var cloneDevstackLabels = []string{"devstack", "clone-devstack"}

type CloneDevstackStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateCloneDevstackStage(runner Runner) *CloneDevstackStage {
	return &CloneDevstackStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *CloneDevstackStage) Name() string {
	return "CloneDevstack"
}

func (s *CloneDevstackStage) Labels() []string {
	return cloneDevstackLabels
}

func (s *CloneDevstackStage) Fatal() bool {
	return true
}

// The checkout is never re-cloned once it exists, so local changes survive
// a re-run.
func (s *CloneDevstackStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	info, err := os.Stat(cfg.DevstackDir())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (s *CloneDevstackStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{
			"git", "clone", "--branch", cfg.Devstack.Branch,
			cfg.Devstack.RepoURL, cfg.DevstackDir(),
		}, Timeout: 10 * 60},
	}
	return runAll(ctx, s.runner, commands)
}

var renderLocalConfLabels = []string{"devstack", "render-config"}

type RenderLocalConfStage struct {
	logger *zap.SugaredLogger
}

func CreateRenderLocalConfStage() *RenderLocalConfStage {
	return &RenderLocalConfStage{
		logger: internal.Logger(),
	}
}

func (s *RenderLocalConfStage) Name() string {
	return "RenderLocalConf"
}

func (s *RenderLocalConfStage) Labels() []string {
	return renderLocalConfLabels
}

func (s *RenderLocalConfStage) Fatal() bool {
	return true
}

func localConfPath(cfg *config.BootstrapConfig) string {
	return filepath.Join(cfg.DevstackDir(), "local.conf")
}

func (s *RenderLocalConfStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	_, err := os.Stat(localConfPath(cfg))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *RenderLocalConfStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	path := localConfPath(cfg)
	values := map[string]any{
		"AdminPassword": cfg.Devstack.AdminPassword,
		"HostIP":        cfg.Devstack.HostIP,
		"Branch":        cfg.Devstack.Branch,
	}
	if cfg.Runtime.DryRun {
		s.logger.Infof("dry-run: render local.conf to %s", path)
		return "dry-run: render local.conf to " + path, nil
	}
	if err := render.RenderToFile("local.conf", render.LocalConfTemplate, values, path); err != nil {
		return "", err
	}
	s.logger.Infof("Wrote %s", path)
	return "wrote " + path, nil
}

var runStackLabels = []string{"devstack", "run-stack"}

type RunStackStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateRunStackStage(runner Runner) *RunStackStage {
	return &RunStackStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *RunStackStage) Name() string {
	return "RunStack"
}

func (s *RunStackStage) Labels() []string {
	return runStackLabels
}

func (s *RunStackStage) Fatal() bool {
	return true
}

// stack.sh handles its own re-runs; there is no reliable marker for a
// completed deployment, so the stage always runs.
func (s *RunStackStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return false, nil
}

func (s *RunStackStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{
			Argv:    []string{"./stack.sh"},
			Dir:     cfg.DevstackDir(),
			Env:     []string{fmt.Sprintf("USER=%s", cfg.Devstack.StackUser)},
			Timeout: 2 * 60 * 60,
		},
	}
	return runAll(ctx, s.runner, commands)
}
