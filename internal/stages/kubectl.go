// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"go.uber.org/zap"
)

var installKubectlLabels = []string{"kubernetes", "install-kubectl"}

type InstallKubectlStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateInstallKubectlStage(runner Runner) *InstallKubectlStage {
	return &InstallKubectlStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *InstallKubectlStage) Name() string {
	return "InstallKubectl"
}

func (s *InstallKubectlStage) Labels() []string {
	return installKubectlLabels
}

func (s *InstallKubectlStage) Fatal() bool {
	return true
}

// Satisfied when an installed kubectl already reports the target client
// version or newer.
func (s *InstallKubectlStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	if !s.runner.LookPath("kubectl") {
		return false, nil
	}
	out, err := s.runner.Run(ctx, Command{
		Argv: []string{"kubectl", "version", "--client", "-o", "json"},
	})
	if err != nil {
		return false, err
	}
	installed, parseErr := parseClientVersion(out.Stdout)
	if parseErr != nil {
		return false, parseErr
	}
	target, parseErr := goversion.NewVersion(strings.TrimPrefix(cfg.Kubernetes.Version, "v"))
	if parseErr != nil {
		return false, parseErr
	}
	return installed.GreaterThanOrEqual(target), nil
}

// parseClientVersion extracts the semantic version from the JSON form of
// kubectl version, which is stable across kubectl releases.
func parseClientVersion(out string) (*goversion.Version, error) {
	var payload struct {
		ClientVersion struct {
			GitVersion string `json:"gitVersion"`
		} `json:"clientVersion"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse kubectl version output: %w", err)
	}
	if payload.ClientVersion.GitVersion == "" {
		return nil, fmt.Errorf("no client version found in %q", out)
	}
	return goversion.NewVersion(strings.TrimPrefix(payload.ClientVersion.GitVersion, "v"))
}

func (s *InstallKubectlStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	url := "https://dl.k8s.io/release/" + cfg.Kubernetes.Version + "/bin/linux/amd64/kubectl"
	downloadPath := filepath.Join(cfg.BinDir(), "kubectl")
	commands := []Command{
		{Argv: []string{"mkdir", "-p", cfg.BinDir()}},
		{Argv: []string{"curl", "-fLo", downloadPath, url}, Timeout: 30 * 60},
		{Argv: []string{"sudo", "install", "-m", "0755", downloadPath, "/usr/local/bin/kubectl"}},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Infof("Installed kubectl %s", cfg.Kubernetes.Version)
	return out, nil
}
