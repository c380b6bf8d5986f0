/*
Copyright 2022 The Katalyst Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package machine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

// MountEntry is the part of a mount table line the huge page lookup needs.
type MountEntry struct {
	Device     string
	MountPoint string
	FSType     string
	Options    string
}

// MountTable walks the mounts of the host in table order until fn returns
// false. Every walk reads the table again.
type MountTable interface {
	fmt.Stringer
	Walk(fn func(m MountEntry) bool) error
}

// NewMountTable returns the table matching source, /proc/mounts unless
// mountinfo is asked for explicitly.
func NewMountTable(source consts.MountTableSource, procfsRoot string) MountTable {
	if source == consts.MountTableMountInfo {
		return NewMountInfoTable(procfsRoot)
	}
	return NewProcMountsTable(procfsRoot)
}

// ProcMounts reads the fstab-like /proc/mounts format.
type ProcMounts struct {
	Path string
}

func NewProcMountsTable(procfsRoot string) *ProcMounts {
	return &ProcMounts{Path: filepath.Join(procfsRoot, consts.ProcMountsFile)}
}

func (p *ProcMounts) String() string {
	return p.Path
}

func (p *ProcMounts) Walk(fn func(m MountEntry) bool) error {
	// container runtimes leave overlay mounts with very long option lists
	return general.WithFileLines(p.Path, func(lines general.Lines) error {
		return WalkMountLines(lines, fn)
	}, general.SkipLongLines())
}

// WalkMountLines splits every line into device, mount point, fs type and
// options. A line with less than four fields ends the walk with an error.
func WalkMountLines(lines general.Lines, fn func(m MountEntry) bool) error {
	for lines.Next() {
		fields := strings.Fields(lines.Text())
		if len(fields) < 4 {
			return fmt.Errorf("invalid mount line %q", lines.Text())
		}

		if !fn(MountEntry{
			Device:     fields[0],
			MountPoint: fields[1],
			FSType:     fields[2],
			Options:    fields[3],
		}) {
			return nil
		}
	}
	return lines.Err()
}
