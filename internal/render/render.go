// SPDX-FileCopyrightText: 2025 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/open-edge-platform/capi-bootstrap/internal"
)

// Render substitutes values into the named template. Values are passed as a
// map so that a missing substitution key is reported as an error instead of
// rendering "<no value>".
func Render(name string, text string, values map[string]any) ([]byte, *internal.BootstrapError) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeTemplate,
			ErrorMsg:  fmt.Sprintf("failed to parse template %s: %v", name, err),
		}
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, values); err != nil {
		return nil, &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeTemplate,
			ErrorMsg:  fmt.Sprintf("failed to render template %s: %v", name, err),
		}
	}
	return buf.Bytes(), nil
}

// RenderToFile renders the template and writes the result to path with a
// write-temp-then-rename so a crash mid-write never leaves a partial file
// at the destination. Nothing is written when rendering fails.
func RenderToFile(name string, text string, values map[string]any, path string) *internal.BootstrapError {
	data, renderErr := Render(name, text, values)
	if renderErr != nil {
		return renderErr
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeInternal,
			ErrorMsg:  fmt.Sprintf("failed to create directory %s: %v", dir, err),
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeInternal,
			ErrorMsg:  fmt.Sprintf("failed to create temp file in %s: %v", dir, err),
		}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeInternal,
			ErrorMsg:  fmt.Sprintf("failed to write %s: %v", tmpName, err),
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeInternal,
			ErrorMsg:  fmt.Sprintf("failed to close %s: %v", tmpName, err),
		}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeInternal,
			ErrorMsg:  fmt.Sprintf("failed to chmod %s: %v", tmpName, err),
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &internal.BootstrapError{
			ErrorCode: internal.BootstrapErrorCodeInternal,
			ErrorMsg:  fmt.Sprintf("failed to rename %s to %s: %v", tmpName, path, err),
		}
	}
	return nil
}
