//go:build !linux

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

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
)

type MountInfo struct {
	Path string
}

func NewMountInfoTable(procfsRoot string) *MountInfo {
	return &MountInfo{Path: filepath.Join(procfsRoot, consts.ProcMountInfoFile)}
}

func (m *MountInfo) String() string {
	return m.Path
}

func (m *MountInfo) Walk(_ func(m MountEntry) bool) error {
	return fmt.Errorf("mountinfo is not supported on this platform")
}
