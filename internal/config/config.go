// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Current version
// Should bump this every time we make backward-compatible config schema changes
const ConfigVersion = 1

type BootstrapRuntime struct {
	DryRun bool `yaml:"dryRun"`

	// The directory where the logs will be saved
	LogDir string `yaml:"logDir"`

	// The directory for downloads, rendered files and the devstack checkout
	WorkDir string `yaml:"workDir"`

	// Stages with any label matched in this list will be executed.
	// All stages run if this is empty.
	TargetLabels []string `yaml:"targetLabels"`
}

type BootstrapConfig struct {
	Version  int              `yaml:"version"`
	Runtime  BootstrapRuntime `yaml:"runtime,omitempty"`
	Devstack struct {
		RepoURL       string `yaml:"repoURL"`
		Branch        string `yaml:"branch"`
		HostIP        string `yaml:"hostIP,omitempty"`
		AdminPassword string `yaml:"adminPassword"`
		StackUser     string `yaml:"stackUser"` // defaults to $USER
	} `yaml:"devstack"`
	Kubernetes struct {
		Version           string `yaml:"version"` // e.g. v1.25.5
		KindVersion       string `yaml:"kindVersion"`
		CapiVersion       string `yaml:"capiVersion"`
		CapoVersion       string `yaml:"capoVersion"` // cluster-api-provider-openstack
		ManagementCluster string `yaml:"managementCluster"`
	} `yaml:"kubernetes"`
	Image struct {
		Name     string `yaml:"name"`
		URL      string `yaml:"url"`
		OsDistro string `yaml:"osDistro"`
	} `yaml:"image"`
	Cluster struct {
		TemplateName    string `yaml:"templateName"`
		Name            string `yaml:"name"`
		MasterCount     int    `yaml:"masterCount"`
		NodeCount       int    `yaml:"nodeCount"`
		MasterFlavor    string `yaml:"masterFlavor"`
		Flavor          string `yaml:"flavor"`
		ExternalNetwork string `yaml:"externalNetwork"`
		DNSNameserver   string `yaml:"dnsNameserver"`
	} `yaml:"cluster"`
}

func DefaultConfig() *BootstrapConfig {
	cfg := &BootstrapConfig{Version: ConfigVersion}

	cfg.Runtime.LogDir = "logs"
	cfg.Runtime.WorkDir = filepath.Join(os.TempDir(), "capi-bootstrap")

	cfg.Devstack.RepoURL = "https://opendev.org/openstack/devstack"
	cfg.Devstack.Branch = "master"
	cfg.Devstack.AdminPassword = "secretadmin"
	cfg.Devstack.StackUser = os.Getenv("USER")

	cfg.Kubernetes.Version = "v1.25.5"
	cfg.Kubernetes.KindVersion = "v0.17.0"
	cfg.Kubernetes.CapiVersion = "v1.3.3"
	cfg.Kubernetes.CapoVersion = "v0.7.1"
	cfg.Kubernetes.ManagementCluster = "capi-mgmt"

	cfg.Image.Name = "ubuntu-2004-kube-v1.25.5"
	cfg.Image.OsDistro = "ubuntu"

	cfg.Cluster.TemplateName = "kubernetes-dev"
	cfg.Cluster.Name = "kube-dev"
	cfg.Cluster.MasterCount = 1
	cfg.Cluster.NodeCount = 1
	cfg.Cluster.MasterFlavor = "ds2G"
	cfg.Cluster.Flavor = "ds2G"
	cfg.Cluster.ExternalNetwork = "public"
	cfg.Cluster.DNSNameserver = "8.8.8.8"

	return cfg
}

// LoadConfig reads the YAML config file on top of the defaults. A missing
// path returns the defaults unchanged.
func LoadConfig(path string) (*BootstrapConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := DeserializeFromYAML(cfg, data); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *BootstrapConfig) Validate() error {
	missing := []string{}
	if c.Devstack.RepoURL == "" {
		missing = append(missing, "devstack.repoURL")
	}
	if c.Devstack.AdminPassword == "" {
		missing = append(missing, "devstack.adminPassword")
	}
	if c.Kubernetes.Version == "" {
		missing = append(missing, "kubernetes.version")
	}
	if c.Kubernetes.ManagementCluster == "" {
		missing = append(missing, "kubernetes.managementCluster")
	}
	if c.Image.Name == "" {
		missing = append(missing, "image.name")
	}
	if c.Image.URL == "" {
		missing = append(missing, "image.url")
	}
	if c.Cluster.TemplateName == "" {
		missing = append(missing, "cluster.templateName")
	}
	if c.Cluster.Name == "" {
		missing = append(missing, "cluster.name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DevstackDir is where the devstack checkout lives under the work directory.
func (c *BootstrapConfig) DevstackDir() string {
	return filepath.Join(c.Runtime.WorkDir, "devstack")
}

// BinDir is where downloaded binaries are installed.
func (c *BootstrapConfig) BinDir() string {
	return filepath.Join(c.Runtime.WorkDir, "bin")
}
