// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	xerrors "mysqlsync/cli/internal/errors"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.IOFailed, "cannot read manifest "+path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a manifest. Unknown keys are rejected so typos do not silently
// drop a setting like what_if.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, xerrors.New(xerrors.ConfigInvalid, "manifest is empty")
		}
		return nil, xerrors.Wrap(xerrors.ConfigInvalid, "invalid manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every entry names both sides.
func (m *Manifest) Validate() error {
	if len(m.Transfers) == 0 {
		return xerrors.New(xerrors.ConfigInvalid, "manifest lists no transfers")
	}
	for i, e := range m.Transfers {
		if strings.TrimSpace(e.Source) == "" {
			return xerrors.New(xerrors.ConfigInvalid, fmt.Sprintf("transfer %d: source is required", i+1))
		}
		if strings.TrimSpace(e.Destination) == "" {
			return xerrors.New(xerrors.ConfigInvalid, fmt.Sprintf("transfer %d: destination is required", i+1))
		}
	}
	return nil
}
