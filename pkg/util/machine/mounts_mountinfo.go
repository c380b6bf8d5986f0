//go:build linux

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
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
)

// MountInfo reads /proc/self/mountinfo, the per-superblock options carry
// the pagesize of a hugetlbfs mount.
type MountInfo struct {
	Path string
}

func NewMountInfoTable(procfsRoot string) *MountInfo {
	return &MountInfo{Path: filepath.Join(procfsRoot, consts.ProcMountInfoFile)}
}

func (m *MountInfo) String() string {
	return m.Path
}

func (m *MountInfo) Walk(fn func(m MountEntry) bool) error {
	f, err := os.Open(m.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	// entries are handed to fn as they are parsed, a stop keeps the last
	// one in the result which is thrown away anyway
	_, err = mountinfo.GetMountsFromReader(f, func(info *mountinfo.Info) (skip, stop bool) {
		if !strings.HasPrefix(info.FSType, consts.HugetlbfsType) {
			return true, false
		}

		if !fn(MountEntry{
			Device:     info.Source,
			MountPoint: info.Mountpoint,
			FSType:     info.FSType,
			Options:    info.VFSOptions,
		}) {
			return false, true
		}
		return true, false
	})
	return err
}
