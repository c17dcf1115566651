// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/config"
	"github.com/open-edge-platform/capi-bootstrap/internal/stages"
	"github.com/spf13/cobra"
)

var flags struct {
	ConfigPath string
	Labels     []string
	DryRun     bool
	LogLevel   string
	LogDir     string
	WorkDir    string
}

func main() {
	var cobraCmd = &cobra.Command{
		Use:   "capi-bootstrap",
		Short: "Bootstrap a devstack magnum cluster-api development environment",
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(run())
		},
	}

	cobraCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "configs.yaml", "Path to the config file")
	cobraCmd.PersistentFlags().StringSliceVarP(&flags.Labels, "labels", "l", nil, "Only run stages matching any of these labels")
	cobraCmd.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Log the external commands without executing them")
	cobraCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cobraCmd.PersistentFlags().StringVar(&flags.LogDir, "log-dir", "", "Directory for the log file")
	cobraCmd.PersistentFlags().StringVar(&flags.WorkDir, "work-dir", "", "Working directory for downloads and rendered files")

	if err := cobraCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() int {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	cfg.Runtime.DryRun = flags.DryRun
	if len(flags.Labels) > 0 {
		cfg.Runtime.TargetLabels = flags.Labels
	}
	if flags.LogDir != "" {
		cfg.Runtime.LogDir = flags.LogDir
	}
	if flags.WorkDir != "" {
		cfg.Runtime.WorkDir = flags.WorkDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		return 1
	}

	if err := internal.InitLogger(flags.LogLevel, cfg.Runtime.LogDir); err != nil {
		fmt.Println(err)
		return 1
	}
	logger := internal.Logger()

	var runner stages.Runner
	if cfg.Runtime.DryRun {
		runner = stages.CreateDryRunner()
	} else {
		runner = stages.CreateRunner()
	}

	bootstrapStages := internal.FilterStages(stages.DefaultStages(runner), cfg.Runtime.TargetLabels)
	orchestrator := internal.CreateOrchestrator(bootstrapStages)

	// Stop between stages on SIGINT/SIGTERM. A running external process is
	// not interrupted.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Warnf("Received %s, cancelling after the current stage", sig)
		orchestrator.Cancel()
	}()

	report, runErr := orchestrator.Run(context.Background(), cfg)
	printReport(report)
	if runErr != nil {
		if runErr.ErrorCode == internal.BootstrapErrorCodeCancelled {
			logger.Warnf("Bootstrap did not finish: %s", runErr.ErrorMsg)
		} else {
			logger.Errorf("Bootstrap failed: %s", runErr.ErrorMsg)
		}
		return 2
	}
	logger.Info("Bootstrap finished")
	return 0
}

func printReport(report *internal.RunReport) {
	data, err := config.SerializeToYAML(report)
	if err != nil {
		fmt.Printf("failed to serialize run report: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
