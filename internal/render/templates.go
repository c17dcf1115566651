// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package render

// LocalConfTemplate is the devstack local.conf enabling the services the
// magnum cluster-api driver needs.
const LocalConfTemplate = `[[local|localrc]]
ADMIN_PASSWORD={{.AdminPassword}}
DATABASE_PASSWORD={{.AdminPassword}}
RABBIT_PASSWORD={{.AdminPassword}}
SERVICE_PASSWORD={{.AdminPassword}}
{{if .HostIP}}HOST_IP={{.HostIP}}
{{end}}GIT_BASE=https://opendev.org

enable_plugin magnum https://opendev.org/openstack/magnum {{.Branch}}
enable_plugin barbican https://opendev.org/openstack/barbican {{.Branch}}
enable_plugin octavia https://opendev.org/openstack/octavia {{.Branch}}

LIBS_FROM_GIT=python-magnumclient

VOLUME_BACKING_FILE_SIZE=20G

[[post-config|/etc/magnum/magnum.conf]]
[cluster_template]
kubernetes_allowed_network_drivers = calico
kubernetes_default_network_driver = calico
`

// KustomizationTemplate pins the cluster-api core and openstack provider
// components applied into the kind management cluster.
const KustomizationTemplate = `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
resources:
  - https://github.com/kubernetes-sigs/cluster-api/releases/download/{{.CapiVersion}}/cluster-api-components.yaml
  - https://github.com/kubernetes-sigs/cluster-api-provider-openstack/releases/download/{{.CapoVersion}}/infrastructure-components.yaml
patches:
  - patch: |-
      - op: add
        path: /spec/template/spec/containers/0/args/-
        value: --feature-gates=ClusterTopology=true
    target:
      kind: Deployment
      namespace: capi-system
      name: capi-controller-manager
`
