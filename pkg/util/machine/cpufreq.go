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
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

var clockLogger = general.LoggerWithPrefix("clock", general.LoggingPKGShort)

// CPUFreqPath returns the cpufreq attribute file of the given cpu.
func CPUFreqPath(sysfsRoot, attribute string, cpuID int) string {
	return filepath.Join(sysfsRoot, consts.SysCPUDir, fmt.Sprintf("cpu%d", cpuID), "cpufreq", attribute)
}

// ReadCPUFreq returns the frequency in Hz stored in a cpufreq attribute
// (the kernel exports kHz). Not every system exposes cpufreq, so a missing
// or unparsable file yields 0 rather than an error.
func ReadCPUFreq(sysfsRoot, attribute string, cpuID int) uint64 {
	path := CPUFreqPath(sysfsRoot, attribute, cpuID)
	line, err := general.ReadFirstLine(path)
	if err != nil {
		clockLogger.InfofV(6, "skip %s: %v", path, err)
		return 0
	}
	return parseCPUFreq(line)
}

func parseCPUFreq(line string) uint64 {
	khz, ok := parseLeadingUint(line)
	if !ok {
		return 0
	}
	return khz * 1000
}

// ArchHzEstimator is the architecture specific source of the current
// frequency of a cpu, consulted when cpufreq does not report one.
type ArchHzEstimator interface {
	HzCurrent(cpuID int) uint64
}

// ArchHzEstimatorFunc adapts a plain function to ArchHzEstimator.
type ArchHzEstimatorFunc func(cpuID int) uint64

func (f ArchHzEstimatorFunc) HzCurrent(cpuID int) uint64 {
	return f(cpuID)
}
