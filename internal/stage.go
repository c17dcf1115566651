// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"context"

	"github.com/open-edge-platform/capi-bootstrap/internal/config"
)

type BootstrapStage interface {
	Name() string

	// Labels for the stage. We can selectively run a subset of stages by specifying labels.
	Labels() []string

	// Fatal stages abort the whole sequence when they fail. Non-fatal stages
	// record the failure and let the run continue.
	Fatal() bool

	// Precondition reports whether the stage's side effect is already present,
	// in which case the stage is skipped. An error means the state could not
	// be determined; the stage runs anyway.
	Precondition(ctx context.Context, config *config.BootstrapConfig) (bool, error)

	// Run performs the stage's actions in order and returns the captured
	// output of the external tools it invoked.
	Run(ctx context.Context, config *config.BootstrapConfig) (string, *BootstrapError)
}

type StageStatus string

const (
	StageSucceeded StageStatus = "Succeeded"
	StageSkipped   StageStatus = "Skipped"
	StageFailed    StageStatus = "Failed"

	// StageCancelled is only used as the report status of a run stopped by
	// Cancel with stages still pending.
	StageCancelled StageStatus = "Cancelled"
)

type StageResult struct {
	Name    string      `yaml:"name"`
	Status  StageStatus `yaml:"status"`
	Output  string      `yaml:"output,omitempty"`
	Elapsed string      `yaml:"elapsed"`
}

// RunReport is the ordered audit trail of one orchestrator invocation.
// Results are append-only; length equals the number of stages attempted.
type RunReport struct {
	Results []StageResult `yaml:"stages"`
	Status  StageStatus   `yaml:"status"`
}

func matchAnyLabel(stageLabels []string, filterLabels []string) bool {
	for _, label := range stageLabels {
		for _, filterLabel := range filterLabels {
			if label == filterLabel {
				return true
			}
		}
	}
	return false
}

func FilterStages(stages []BootstrapStage, labels []string) []BootstrapStage {
	if len(labels) == 0 {
		return stages
	}
	filtered := []BootstrapStage{}
	for _, stage := range stages {
		if matchAnyLabel(stage.Labels(), labels) {
			filtered = append(filtered, stage)
		}
	}
	return filtered
}
