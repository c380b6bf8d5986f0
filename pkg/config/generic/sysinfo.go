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

package generic

import (
	"github.com/kubewharf/katalyst-sysinfo/pkg/config/overlay"
	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
)

// SystemInfoConfiguration stores the configurations of system info discovery.
type SystemInfoConfiguration struct {
	// SysFSRoot and ProcFSRoot are where the pseudo filesystems are mounted
	SysFSRoot  string
	ProcFSRoot string

	// MountTable decides whether hugetlbfs mounts are looked up in
	// /proc/mounts or /proc/self/mountinfo
	MountTable consts.MountTableSource

	// Overlay supplies the mandatory default clock settings
	Overlay overlay.Overlay
}

func NewSystemInfoConfiguration() *SystemInfoConfiguration {
	return &SystemInfoConfiguration{
		SysFSRoot:  consts.DefaultSysFSRoot,
		ProcFSRoot: consts.DefaultProcFSRoot,
		MountTable: consts.MountTableProcMounts,
		Overlay:    overlay.Map{},
	}
}
