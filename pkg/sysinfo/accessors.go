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

import (
	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/machine"
)

// Accessors are only defined between a successful Init and Term.

// CPUArchInfo carries the architecture tags of the host.
type CPUArchInfo struct {
	CPUArch  string `json:"cpuArch" yaml:"cpuArch"`
	CPUISASW string `json:"cpuIsaSw" yaml:"cpuIsaSw"`
	CPUISAHW string `json:"cpuIsaHw" yaml:"cpuIsaHw"`
}

func validCPUID(id int) bool {
	return id >= 0 && id < consts.MaxCPUIDs
}

func (s *Store) CPUCount() int {
	return s.info.CPUCount
}

func (s *Store) PageSize() uint64 {
	return s.info.PageSize
}

func (s *Store) CacheLineSize() int {
	return s.info.CacheLineSize
}

func (s *Store) DefaultCPUHz() uint64 {
	return s.info.DefaultCPUHz
}

func (s *Store) DefaultCPUHzMax() uint64 {
	return s.info.DefaultCPUHzMax
}

// CPUHzMax returns the maximum clock of cpu 0.
func (s *Store) CPUHzMax() uint64 {
	return s.CPUHzMaxID(0)
}

// CPUHzMaxID returns the maximum clock of a cpu in Hz, 0 when unknown or
// the id is out of range.
func (s *Store) CPUHzMaxID(id int) uint64 {
	if !validCPUID(id) {
		return 0
	}
	return s.info.CPUHzMax[id]
}

// CPUHzCurrent reads the current clock of a cpu, cpufreq first and then the
// architecture specific estimate. It is never cached.
func (s *Store) CPUHzCurrent(id int) uint64 {
	hz := machine.ReadCPUFreq(s.conf.SysFSRoot, consts.CPUFreqCurrentAttribute, id)
	if hz == 0 {
		hz = s.hzEstimator.HzCurrent(id)
	}
	return hz
}

// CPUHz returns the current clock of the cpu the caller runs on.
func (s *Store) CPUHz() uint64 {
	return s.CPUHzCurrent(s.currentCPU())
}

func (s *Store) CPUHzID(id int) uint64 {
	return s.CPUHzCurrent(id)
}

// ModelStr returns the model string of cpu 0.
func (s *Store) ModelStr() string {
	model, _ := s.ModelStrID(0)
	return model
}

// ModelStrID returns the model string of a cpu, false when the id is out
// of range.
func (s *Store) ModelStrID(id int) (string, bool) {
	if !validCPUID(id) {
		return "", false
	}
	return s.info.ModelStr[id], true
}

func (s *Store) SystemInfo() CPUArchInfo {
	return CPUArchInfo{
		CPUArch:  s.info.CPUArch,
		CPUISASW: s.info.CPUISASW,
		CPUISAHW: s.info.CPUISAHW,
	}
}

// HugePageSize returns the default huge page size, 0 if not supported.
func (s *Store) HugePageSize() uint64 {
	return s.hugePage.DefaultHugePageSize
}

// HugePageSizeAll returns how many huge page sizes the host supports and
// fills sizes with up to len(sizes) of them in ascending order.
func (s *Store) HugePageSizeAll(sizes []uint64) int {
	return machine.HugePageSizes(s.conf.SysFSRoot, sizes)
}

// HugePageDir returns the mount point serving the default huge page size.
func (s *Store) HugePageDir() (string, bool) {
	if s.hugePage.DefaultHugePageDir == nil {
		return "", false
	}
	return *s.hugePage.DefaultHugePageDir, true
}

// HugePageDirFor looks up the mount point serving the given huge page
// size, 0 stands for the default size.
func (s *Store) HugePageDirFor(size uint64) (string, bool) {
	return machine.HugePageDir(s.mountTable, size, s.hugePage.DefaultHugePageSize)
}
