// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stages_test

import (
	"context"
	"strings"

	"github.com/open-edge-platform/capi-bootstrap/internal"
	"github.com/open-edge-platform/capi-bootstrap/internal/stages"
	"github.com/stretchr/testify/mock"
)

type RunnerMock struct {
	mock.Mock
}

func (m *RunnerMock) Run(ctx context.Context, input stages.Command) (*stages.CommandOutput, *internal.BootstrapError) {
	args := m.Called(ctx, input)
	var output *stages.CommandOutput
	if o, ok := args.Get(0).(*stages.CommandOutput); ok {
		output = o
	}
	if err, ok := args.Get(1).(*internal.BootstrapError); ok {
		return output, err
	}
	return output, nil
}

func (m *RunnerMock) Probe(ctx context.Context, cmdline string, marker string) (bool, error) {
	args := m.Called(ctx, cmdline, marker)
	return args.Bool(0), args.Error(1)
}

func (m *RunnerMock) LookPath(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

// argvStartsWith matches commands whose argv begins with the given words,
// so expectations read like the command lines they stand for.
func argvStartsWith(words ...string) any {
	return mock.MatchedBy(func(c stages.Command) bool {
		if len(c.Argv) < len(words) {
			return false
		}
		for i, word := range words {
			if c.Argv[i] != word {
				return false
			}
		}
		return true
	})
}

func cmdlineHasPrefix(prefix string) any {
	return mock.MatchedBy(func(cmdline string) bool {
		return strings.HasPrefix(cmdline, prefix)
	})
}
