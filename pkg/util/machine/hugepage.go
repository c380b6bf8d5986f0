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
	"regexp"
	"sort"
	"strconv"
	"strings"

	units "github.com/docker/go-units"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

var hugePageLogger = general.LoggerWithPrefix("hugepage", general.LoggingPKGShort)

var (
	hugePageSizeRegexp    = regexp.MustCompile(`^Hugepagesize:\s*([0-9]+)\s*kB`)
	hugePageDirNameRegexp = regexp.MustCompile(`^` + regexp.QuoteMeta(consts.HugePageDirPrefix) + `([0-9]+)kB`)
)

// ParseDefaultHugePageSize looks for the Hugepagesize line of meminfo and
// returns its value in bytes. A file without such line yields 0 and the
// error that ended the scan, if any.
func ParseDefaultHugePageSize(lines general.Lines) (uint64, error) {
	for lines.Next() {
		matches := hugePageSizeRegexp.FindStringSubmatch(lines.Text())
		if len(matches) != 2 {
			continue
		}

		kb, err := strconv.ParseUint(matches[1], 10, 64)
		if err != nil {
			return 0, err
		}
		return kb * 1024, nil
	}
	return 0, lines.Err()
}

// DefaultHugePageSize returns the default huge page size of the host in
// bytes, 0 when huge pages are not supported.
func DefaultHugePageSize(procfsRoot string) uint64 {
	path := filepath.Join(procfsRoot, consts.ProcMemInfoFile)

	var size uint64
	err := general.WithFileLines(path, func(lines general.Lines) error {
		var err error
		size, err = ParseDefaultHugePageSize(lines)
		return err
	})
	if err != nil {
		hugePageLogger.Errorf("failed to parse %s: %v", path, err)
		return 0
	}

	if size == 0 {
		hugePageLogger.Warningf("unable to get default huge page size from %s", path)
	} else {
		hugePageLogger.InfofV(4, "default huge page size is %d kB", size/1024)
	}
	return size
}

// HugePageSizes lists the huge page sizes supported by the kernel. It always
// returns the total number of sizes found, stores at most len(sizes) of
// them and sorts the stored ones ascending. A nil slice just counts, so
// callers usually ask for the count first and call again with enough room.
func HugePageSizes(sysfsRoot string, sizes []uint64) int {
	dir := filepath.Join(sysfsRoot, consts.SysHugePagesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		hugePageLogger.Warningf("failed to read %s: %v", dir, err)
		return 0
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return collectHugePageSizes(names, sizes)
}

func collectHugePageSizes(names []string, sizes []uint64) int {
	total, saved := 0, 0
	for _, name := range names {
		matches := hugePageDirNameRegexp.FindStringSubmatch(name)
		if len(matches) != 2 {
			continue
		}

		kb, err := strconv.ParseUint(matches[1], 10, 64)
		if err != nil {
			continue
		}

		if saved < len(sizes) {
			sizes[saved] = kb * 1024
			saved++
		}
		total++
	}

	filled := sizes[:saved]
	sort.Slice(filled, func(i, j int) bool {
		return filled[i] < filled[j]
	})
	return total
}

// HugePageDir returns the mount point of the first hugetlbfs mount serving
// the requested page size, a requested size of 0 stands for the default
// one. Mounts without an explicit pagesize option use the default size.
func HugePageDir(table MountTable, requested, defaultSize uint64) (string, bool) {
	if requested == 0 {
		requested = defaultSize
	}

	var dir string
	found := false
	err := table.Walk(func(m MountEntry) bool {
		if !strings.HasPrefix(m.FSType, consts.HugetlbfsType) {
			return true
		}

		size, explicit := mountPageSize(m.Options)
		if !explicit {
			size = defaultSize
		}
		if size != requested {
			return true
		}

		dir, found = m.MountPoint, true
		return false
	})
	if err != nil {
		hugePageLogger.Errorf("failed to walk mount table %s: %v", table, err)
		return "", false
	}
	return dir, found
}

// mountPageSize extracts the pagesize= option of a hugetlbfs mount,
// explicit is false when the option is absent. An unparsable value is
// explicit but never matches a real page size.
func mountPageSize(options string) (size uint64, explicit bool) {
	idx := strings.Index(options, consts.HugePageSizeOpt)
	if idx < 0 {
		return 0, false
	}

	value := options[idx+len(consts.HugePageSizeOpt):]
	if end := strings.IndexAny(value, ", \t"); end >= 0 {
		value = value[:end]
	}

	bytes, err := units.RAMInBytes(value)
	if err != nil || bytes <= 0 {
		hugePageLogger.Warningf("invalid hugetlbfs option %s%s: %v", consts.HugePageSizeOpt, value, err)
		return 0, true
	}
	return uint64(bytes), true
}
