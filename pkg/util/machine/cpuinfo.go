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
	"io"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

const unknownTag = "unknown"

var modelGHzRegexp = regexp.MustCompile(`@\s*([0-9]+(\.[0-9]+)?)\s*GHz`)

// CPUModelInfo holds what the cpuinfo parser contributes to the system info:
// per cpu model strings, maximum frequencies cpufreq did not provide, and
// the architecture tags of the host.
type CPUModelInfo struct {
	CPUHzMax [consts.MaxCPUIDs]uint64
	ModelStr [consts.MaxCPUIDs]string

	CPUArch  string
	CPUISASW string
	CPUISAHW string
}

// CPUInfoParser is the architecture specific reader of /proc/cpuinfo.
// Parse must leave CPUHzMax entries that are already set untouched, Dummy
// is used instead of Parse when cpuinfo can not be opened.
type CPUInfoParser interface {
	Parse(r io.Reader, info *CPUModelInfo) error
	Dummy(info *CPUModelInfo)
}

// GenericCPUInfoParser understands the x86, powerpc, mips and arm flavours
// of cpuinfo well enough to pick up model names and clock rates.
type GenericCPUInfoParser struct{}

var _ CPUInfoParser = GenericCPUInfoParser{}

func (GenericCPUInfoParser) Parse(r io.Reader, info *CPUModelInfo) error {
	setArchTags(info, true)

	lines := general.NewLines(r)
	id, nextModelID, seenProcessor := 0, 0, false
	for lines.Next() {
		key, value, ok := splitCPUInfoLine(lines.Text())
		if !ok {
			continue
		}

		switch key {
		case "processor":
			n, err := strconv.Atoi(value)
			if err == nil {
				id, seenProcessor = n, true
				continue
			}
			// old arm kernels put the model into a "Processor" line
			fallthrough
		case "model name", "cpu model", "cpu":
			if !seenProcessor {
				id = nextModelID
				nextModelID++
			}
			if !validCPUID(id) {
				continue
			}
			info.ModelStr[id] = value
			if info.CPUHzMax[id] == 0 {
				info.CPUHzMax[id] = parseModelHz(value)
			}
		case "cpu mhz", "clock":
			if !validCPUID(id) || info.CPUHzMax[id] != 0 {
				continue
			}
			info.CPUHzMax[id] = parseMHz(value)
		}
	}

	return lines.Err()
}

func (GenericCPUInfoParser) Dummy(info *CPUModelInfo) {
	setArchTags(info, false)
}

func validCPUID(id int) bool {
	return id >= 0 && id < consts.MaxCPUIDs
}

// splitCPUInfoLine splits "key<tabs>: value", the key is lower cased so
// that "Processor" and "processor" are treated alike.
func splitCPUInfoLine(line string) (string, string, bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	key := strings.ToLower(strings.TrimSpace(line[:idx]))
	value := strings.TrimSpace(line[idx+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

// parseModelHz picks the nominal clock out of model names such as
// "Intel(R) Xeon(R) Gold 6130 CPU @ 2.10GHz".
func parseModelHz(model string) uint64 {
	matches := modelGHzRegexp.FindStringSubmatch(model)
	if len(matches) < 2 {
		return 0
	}
	ghz, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}
	return uint64(ghz*1000+0.5) * 1000000
}

// parseMHz handles both "2100.000" and "3425.000000MHz".
func parseMHz(value string) uint64 {
	value = strings.TrimSuffix(strings.TrimSpace(value), "MHz")
	mhz, err := strconv.ParseFloat(value, 64)
	if err != nil || mhz <= 0 {
		return 0
	}
	return uint64(mhz*1e6 + 0.5)
}

func setArchTags(info *CPUModelInfo, probeHW bool) {
	info.CPUArch, info.CPUISASW = archTags(runtime.GOARCH)
	info.CPUISAHW = unknownTag

	if !probeHW {
		return
	}
	if level := cpuid.CPU.X64Level(); level > 0 {
		info.CPUISAHW = fmt.Sprintf("x86_64_v%d", level)
	}
}

func archTags(goarch string) (arch, isa string) {
	switch goarch {
	case "amd64":
		return "x86", "x86_64"
	case "386":
		return "x86", "x86_32"
	case "arm64":
		return "arm", "armv8"
	case "arm":
		return "arm", "armv7"
	case "mips64", "mips64le":
		return "mips", "mips64"
	case "ppc64", "ppc64le":
		return "powerpc", "ppc64"
	case "riscv64":
		return "riscv", "rv64"
	}
	return unknownTag, unknownTag
}
