// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package internal

type BootstrapErrorCode int

const (
	BootstrapErrorCodeUnknown BootstrapErrorCode = iota
	BootstrapErrorCodeInternal
	BootstrapErrorCodeInvalidArgument
	BootstrapErrorCodePrecondition
	BootstrapErrorCodeExternalTool
	BootstrapErrorCodeTemplate
	BootstrapErrorCodeSequenceAborted
	BootstrapErrorCodeCancelled
)

type BootstrapError struct {
	ErrorCode BootstrapErrorCode
	ErrorMsg  string
}

func (e *BootstrapError) Error() string {
	return e.ErrorMsg
}
