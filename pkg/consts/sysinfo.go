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

package consts

// MaxCPUIDs is the capacity of every per-CPU table kept by the system info
// store, CPU ids at or beyond it are not tracked.
const MaxCPUIDs = 256

// PageSize is the normal page size the runtime is built for.
const PageSize = 4096

const (
	CPUMHzConfigKey    = "system.cpu_mhz"
	CPUMHzMaxConfigKey = "system.cpu_mhz_max"
)

// default locations of the pseudo filesystems, both can be re-rooted for tests
const (
	DefaultSysFSRoot  = "/sys"
	DefaultProcFSRoot = "/proc"
)

// paths relative to the sysfs root
const (
	SysCPUDir               = "devices/system/cpu"
	SysCacheLineSizeFile    = "devices/system/cpu/cpu0/cache/index0/coherency_line_size"
	SysHugePagesDir         = "kernel/mm/hugepages"
	CPUFreqMaxAttribute     = "cpuinfo_max_freq"
	CPUFreqCurrentAttribute = "cpuinfo_cur_freq"
)

// paths relative to the procfs root
const (
	ProcMemInfoFile   = "meminfo"
	ProcMountsFile    = "mounts"
	ProcMountInfoFile = "self/mountinfo"
	ProcCPUInfoFile   = "cpuinfo"
)

const (
	HugetlbfsType     = "hugetlbfs"
	HugePageSizeOpt   = "pagesize="
	HugePageDirPrefix = "hugepages-"
)

// MountTableSource names which mount table the huge page lookup reads.
type MountTableSource string

const (
	MountTableProcMounts MountTableSource = "mounts"
	MountTableMountInfo  MountTableSource = "mountinfo"
)
