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
	"math"

	"github.com/prometheus/procfs"
)

// procCPUInfoEstimator takes the current frequency from the "cpu MHz"
// field the kernel keeps refreshing in /proc/cpuinfo.
type procCPUInfoEstimator struct {
	fs  procfs.FS
	err error
}

// NewProcCPUInfoEstimator returns an ArchHzEstimator reading cpuinfo below
// the given procfs root.
func NewProcCPUInfoEstimator(procfsRoot string) ArchHzEstimator {
	fs, err := procfs.NewFS(procfsRoot)
	return &procCPUInfoEstimator{fs: fs, err: err}
}

func (e *procCPUInfoEstimator) HzCurrent(cpuID int) uint64 {
	if e.err != nil || cpuID < 0 {
		return 0
	}

	infos, err := e.fs.CPUInfo()
	if err != nil {
		clockLogger.InfofV(6, "failed to read cpuinfo: %v", err)
		return 0
	}

	for _, info := range infos {
		if int(info.Processor) == cpuID {
			return uint64(math.Round(info.CPUMHz * 1e6))
		}
	}
	return 0
}
