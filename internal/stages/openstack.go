// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"go.uber.org/zap"
)

var registerImageLabels = []string{"openstack", "register-image"}

type RegisterImageStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateRegisterImageStage(runner Runner) *RegisterImageStage {
	return &RegisterImageStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *RegisterImageStage) Name() string {
	return "RegisterImage"
}

func (s *RegisterImageStage) Labels() []string {
	return registerImageLabels
}

func (s *RegisterImageStage) Fatal() bool {
	return true
}

func (s *RegisterImageStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.Probe(ctx,
		fmt.Sprintf("openstack image show %s -f value -c name", cfg.Image.Name),
		cfg.Image.Name)
}

func (s *RegisterImageStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	downloadPath := filepath.Join(cfg.Runtime.WorkDir, filepath.Base(cfg.Image.URL))
	commands := []Command{
		{Argv: []string{"curl", "-fLo", downloadPath, cfg.Image.URL}, Timeout: 60 * 60},
		{Argv: []string{
			"openstack", "image", "create", cfg.Image.Name,
			"--file", downloadPath,
			"--disk-format", "qcow2",
			"--container-format", "bare",
			"--property", "os_distro=" + cfg.Image.OsDistro,
			"--public",
		}, Timeout: 30 * 60},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Infof("Registered image %s from %s", cfg.Image.Name, cfg.Image.URL)
	return out, nil
}

var clusterTemplateLabels = []string{"openstack", "cluster-template"}

type ClusterTemplateStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateClusterTemplateStage(runner Runner) *ClusterTemplateStage {
	return &ClusterTemplateStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *ClusterTemplateStage) Name() string {
	return "CreateClusterTemplate"
}

func (s *ClusterTemplateStage) Labels() []string {
	return clusterTemplateLabels
}

func (s *ClusterTemplateStage) Fatal() bool {
	return true
}

func (s *ClusterTemplateStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.Probe(ctx,
		fmt.Sprintf("openstack coe cluster template show %s -f value -c name", cfg.Cluster.TemplateName),
		cfg.Cluster.TemplateName)
}

func (s *ClusterTemplateStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{
			"openstack", "coe", "cluster", "template", "create", cfg.Cluster.TemplateName,
			"--coe", "kubernetes",
			"--image", cfg.Image.Name,
			"--external-network", cfg.Cluster.ExternalNetwork,
			"--master-flavor", cfg.Cluster.MasterFlavor,
			"--flavor", cfg.Cluster.Flavor,
			"--dns-nameserver", cfg.Cluster.DNSNameserver,
			"--label", "kube_tag=" + cfg.Kubernetes.Version,
		}, Timeout: 5 * 60},
	}
	return runAll(ctx, s.runner, commands)
}

var createClusterLabels = []string{"openstack", "create-cluster"}

type ClusterStage struct {
	runner Runner
	logger *zap.SugaredLogger
}

func CreateClusterStage(runner Runner) *ClusterStage {
	return &ClusterStage{
		runner: runner,
		logger: internal.Logger(),
	}
}

func (s *ClusterStage) Name() string {
	return "CreateCluster"
}

func (s *ClusterStage) Labels() []string {
	return createClusterLabels
}

func (s *ClusterStage) Fatal() bool {
	return true
}

func (s *ClusterStage) Precondition(ctx context.Context, cfg *config.BootstrapConfig) (bool, error) {
	return s.runner.Probe(ctx,
		fmt.Sprintf("openstack coe cluster show %s -f value -c name", cfg.Cluster.Name),
		cfg.Cluster.Name)
}

// A create that times out or errors is reported as an external tool failure.
// No compensating delete is attempted.
func (s *ClusterStage) Run(ctx context.Context, cfg *config.BootstrapConfig) (string, *internal.BootstrapError) {
	commands := []Command{
		{Argv: []string{
			"openstack", "coe", "cluster", "create", cfg.Cluster.Name,
			"--cluster-template", cfg.Cluster.TemplateName,
			"--master-count", strconv.Itoa(cfg.Cluster.MasterCount),
			"--node-count", strconv.Itoa(cfg.Cluster.NodeCount),
		}, Timeout: 30 * 60},
	}
	out, err := runAll(ctx, s.runner, commands)
	if err != nil {
		return out, err
	}
	s.logger.Infof("Requested cluster %s from template %s", cfg.Cluster.Name, cfg.Cluster.TemplateName)
	return out, nil
}
