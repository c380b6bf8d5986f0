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

package sysinfo

// CPUSnapshot is the per cpu part of a Snapshot.
type CPUSnapshot struct {
	ID        int    `json:"id" yaml:"id"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	HzMax     uint64 `json:"hzMax" yaml:"hzMax"`
	HzCurrent uint64 `json:"hzCurrent" yaml:"hzCurrent"`
}

// Snapshot is a serializable copy of the record plus the live values, as
// shown by the katalyst-sysinfo command.
type Snapshot struct {
	PageSize        uint64 `json:"pageSize" yaml:"pageSize"`
	CacheLineSize   int    `json:"cacheLineSize" yaml:"cacheLineSize"`
	CPUCount        int    `json:"cpuCount" yaml:"cpuCount"`
	DefaultCPUHz    uint64 `json:"defaultCpuHz" yaml:"defaultCpuHz"`
	DefaultCPUHzMax uint64 `json:"defaultCpuHzMax" yaml:"defaultCpuHzMax"`
	CPUArchInfo     `yaml:",inline"`
	CPUs            []CPUSnapshot `json:"cpus" yaml:"cpus"`

	HugePageSize  uint64   `json:"hugePageSize" yaml:"hugePageSize"`
	HugePageSizes []uint64 `json:"hugePageSizes" yaml:"hugePageSizes"`
	HugePageDir   string   `json:"hugePageDir,omitempty" yaml:"hugePageDir,omitempty"`
}

// Snapshot copies the record, it reads the current clock of every tracked
// cpu so it is meant for diagnostics rather than hot paths.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		PageSize:        s.PageSize(),
		CacheLineSize:   s.CacheLineSize(),
		CPUCount:        s.CPUCount(),
		DefaultCPUHz:    s.DefaultCPUHz(),
		DefaultCPUHzMax: s.DefaultCPUHzMax(),
		CPUArchInfo:     s.SystemInfo(),
		HugePageSize:    s.HugePageSize(),
	}

	for id := 0; id < s.CPUCount() && validCPUID(id); id++ {
		model, _ := s.ModelStrID(id)
		snap.CPUs = append(snap.CPUs, CPUSnapshot{
			ID:        id,
			Model:     model,
			HzMax:     s.CPUHzMaxID(id),
			HzCurrent: s.CPUHzCurrent(id),
		})
	}

	if n := s.HugePageSizeAll(nil); n > 0 {
		sizes := make([]uint64, n)
		if total := s.HugePageSizeAll(sizes); total < n {
			sizes = sizes[:total]
		}
		snap.HugePageSizes = sizes
	}
	snap.HugePageDir, _ = s.HugePageDir()
	return snap
}
