// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/open-edge-platform/capi-bootstrap/internal/config"
)

type Orchestrator struct {
	Stages []BootstrapStage

	mutex     *sync.Mutex
	cancelled bool
}

func CreateOrchestrator(stages []BootstrapStage) *Orchestrator {
	return &Orchestrator{
		Stages:    stages,
		mutex:     &sync.Mutex{},
		cancelled: false,
	}
}

// Run executes the stages strictly in declaration order. Each stage's
// precondition is checked first; a satisfied precondition records Skipped
// without running the stage's actions. The first failed fatal stage halts
// the sequence. Side effects are never rolled back.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.BootstrapConfig) (*RunReport, *BootstrapError) {
	logger := Logger()
	report := &RunReport{Status: StageSucceeded}
	if cfg == nil {
		return report, &BootstrapError{
			ErrorCode: BootstrapErrorCodeInvalidArgument,
			ErrorMsg:  "configuration must be specified",
		}
	}

	for _, stage := range o.Stages {
		if o.Cancelled() {
			logger.Warnf("Bootstrap cancelled before stage %s", stage.Name())
			report.Status = StageCancelled
			return report, &BootstrapError{
				ErrorCode: BootstrapErrorCodeCancelled,
				ErrorMsg:  "bootstrap cancelled before stage " + stage.Name(),
			}
		}
		name := stage.Name()
		logger.Infof("Running stage: %s", name)
		result := o.runStage(ctx, stage, cfg)
		report.Results = append(report.Results, result)

		if result.Status == StageFailed {
			if !stage.Fatal() {
				logger.Warnf("Stage %s failed but is not fatal, continuing", name)
				continue
			}
			report.Status = StageFailed
			return report, &BootstrapError{
				ErrorCode: BootstrapErrorCodeSequenceAborted,
				ErrorMsg:  BuildErrorMessage(name, result.Output),
			}
		}
	}
	return report, nil
}

func (o *Orchestrator) runStage(ctx context.Context, stage BootstrapStage, cfg *config.BootstrapConfig) StageResult {
	logger := Logger()
	start := time.Now()

	satisfied, err := stage.Precondition(ctx, cfg)
	if err != nil {
		// Could not determine the idempotency state. Treat as not satisfied
		// and run the stage.
		logger.Warnf("Precondition check for stage %s failed: %v", stage.Name(), err)
	}
	if satisfied {
		logger.Infof("Stage %s already satisfied, skipping", stage.Name())
		return StageResult{
			Name:    stage.Name(),
			Status:  StageSkipped,
			Elapsed: time.Since(start).Round(time.Millisecond).String(),
		}
	}

	output, runErr := stage.Run(ctx, cfg)
	result := StageResult{
		Name:    stage.Name(),
		Status:  StageSucceeded,
		Output:  output,
		Elapsed: time.Since(start).Round(time.Millisecond).String(),
	}
	if runErr != nil {
		result.Status = StageFailed
		if output == "" {
			result.Output = runErr.ErrorMsg
		} else {
			result.Output = output + "\n" + runErr.ErrorMsg
		}
	}
	return result
}

func (o *Orchestrator) Cancel() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.cancelled = true
}

func (o *Orchestrator) Cancelled() bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.cancelled
}

func BuildErrorMessage(stageName string, output string) string {
	msg := "Stage: " + stageName + "\n"
	if output != "" {
		msg += fmt.Sprintf("Error: %s\n", output)
	}
	return msg
}
