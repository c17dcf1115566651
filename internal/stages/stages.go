// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages

import (
	"context"
	"strings"

	"github.com/open-edge-platform/capi-bootstrap/internal"
)

// DefaultStages returns the full bootstrap sequence in execution order.
// The ordering is load-bearing: devstack must be up before images can be
// registered, the management cluster must exist before cluster-api is
// applied, and the cluster template must exist before a cluster is created.
func DefaultStages(runner Runner) []internal.BootstrapStage {
	return []internal.BootstrapStage{
		CreateInstallPackagesStage(runner),
		CreateCloneDevstackStage(runner),
		CreateRenderLocalConfStage(),
		CreateRunStackStage(runner),
		CreateInstallDockerStage(runner),
		CreateInstallKubectlStage(runner),
		CreateInstallKindStage(runner),
		CreateManagementClusterStage(runner),
		CreateApplyClusterAPIStage(runner),
		CreateInstallHelmStage(runner),
		CreateRegisterImageStage(runner),
		CreateClusterTemplateStage(runner),
		CreateClusterStage(runner),
		CreateRunConformanceStage(runner),
	}
}

// runAll executes the commands in order and keeps the combined output of
// every command that ran, including the one that failed.
func runAll(ctx context.Context, runner Runner, commands []Command) (string, *internal.BootstrapError) {
	outputs := []string{}
	for _, command := range commands {
		out, err := runner.Run(ctx, command)
		if out != nil && out.Combined() != "" {
			outputs = append(outputs, out.Combined())
		}
		if err != nil {
			return strings.Join(outputs, "\n"), err
		}
	}
	return strings.Join(outputs, "\n"), nil
}
