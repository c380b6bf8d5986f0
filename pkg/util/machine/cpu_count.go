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
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs/sysfs"

	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

// ConfiguredCPUCount returns the number of logical CPUs configured at boot,
// i.e. every cpuN entry below /sys/devices/system/cpu no matter whether it is
// online. It is the value glibc reports as get_nprocs_conf.
func ConfiguredCPUCount(sysfsRoot string) (int, error) {
	fs, err := sysfs.NewFS(sysfsRoot)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open sysfs %s", sysfsRoot)
	}

	cpus, err := fs.CPUs()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to list cpus in %s", sysfsRoot)
	}

	return len(cpus), nil
}

// CPUCount is ConfiguredCPUCount degraded to the number of CPUs visible to
// the go runtime when sysfs can not be read at all.
func CPUCount(sysfsRoot string) int {
	count, err := ConfiguredCPUCount(sysfsRoot)
	if err != nil {
		general.Warningf("fall back to runtime cpu count: %v", err)
		return runtime.NumCPU()
	}
	return count
}

// parseLeadingUint parses the integer at the start of s the way
// strtoull(s, &end, 0) does: a 0x prefix selects hex, a leading 0 selects
// octal, and parsing stops at the first character outside the base.
func parseLeadingUint(s string) (uint64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	base := 10
	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && isBaseDigit(s[2], 16):
		base, s = 16, s[2:]
	case len(s) > 0 && s[0] == '0':
		base = 8
	}

	end := 0
	for end < len(s) && isBaseDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	v, err := strconv.ParseUint(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isBaseDigit(c byte, base int) bool {
	switch base {
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return c >= '0' && c <= '9'
	}
}
