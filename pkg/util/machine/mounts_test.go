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
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

const testProcMounts = `sysfs /sys sysfs rw,nosuid,nodev,noexec,relatime 0 0
proc /proc proc rw,nosuid,nodev,noexec,relatime 0 0
hugetlbfs /dev/hugepages hugetlbfs rw,relatime,pagesize=2M 0 0
none /mnt/huge hugetlbfs rw,pagesize=2M 0 0
none /mnt/huge1G hugetlbfs rw,pagesize=1G 0 0
`

func collectMounts(t *testing.T, table MountTable) []MountEntry {
	t.Helper()

	var entries []MountEntry
	require.NoError(t, table.Walk(func(m MountEntry) bool {
		entries = append(entries, m)
		return true
	}))
	return entries
}

func TestWalkMountLines(t *testing.T) {
	t.Parallel()

	var entries []MountEntry
	err := WalkMountLines(general.NewLines(strings.NewReader(testProcMounts)), func(m MountEntry) bool {
		entries = append(entries, m)
		return len(entries) < 3
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, MountEntry{
		Device:     "hugetlbfs",
		MountPoint: "/dev/hugepages",
		FSType:     "hugetlbfs",
		Options:    "rw,relatime,pagesize=2M",
	}, entries[2])
}

func TestWalkMountLinesMalformed(t *testing.T) {
	t.Parallel()

	input := "none /mnt/a hugetlbfs rw 0 0\nbroken line\nnone /mnt/b hugetlbfs rw 0 0\n"

	var seen []string
	err := WalkMountLines(general.NewLines(strings.NewReader(input)), func(m MountEntry) bool {
		seen = append(seen, m.MountPoint)
		return true
	})
	assert.Error(t, err)
	assert.Equal(t, []string{"/mnt/a"}, seen)
}

func TestProcMountsTable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSysFile(t, root, consts.ProcMountsFile, testProcMounts)

	table := NewMountTable(consts.MountTableProcMounts, root)
	assert.Equal(t, filepath.Join(root, "mounts"), table.String())
	assert.Len(t, collectMounts(t, table), 5)

	dir, ok := HugePageDir(table, 2<<20, 2<<20)
	assert.True(t, ok)
	assert.Equal(t, "/dev/hugepages", dir)

	dir, ok = HugePageDir(table, 1<<30, 2<<20)
	assert.True(t, ok)
	assert.Equal(t, "/mnt/huge1G", dir)

	missing := NewProcMountsTable(t.TempDir())
	assert.Error(t, missing.Walk(func(MountEntry) bool { return true }))
	_, ok = HugePageDir(missing, 0, 2<<20)
	assert.False(t, ok)
}

func TestHugePageDirSingleMount(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSysFile(t, root, consts.ProcMountsFile, "none /mnt/huge hugetlbfs rw,pagesize=2M 0 0\n")
	table := NewProcMountsTable(root)

	dir, ok := HugePageDir(table, 2097152, 2097152)
	assert.True(t, ok)
	assert.Equal(t, "/mnt/huge", dir)

	_, ok = HugePageDir(table, 1073741824, 2097152)
	assert.False(t, ok)
}

func overlayMountLine(size int) string {
	line := "overlay /var/lib/docker/overlay2/merged overlay rw,relatime,lowerdir="
	layers := make([]string, 0)
	for n := len(line); n <= size; n += 73 {
		layers = append(layers, "/var/lib/docker/overlay2/l/"+strings.Repeat("A", 45))
	}
	line += strings.Join(layers, ":")
	return line[:size] + " 0 0"
}

func TestHugePageDirAfterLongMountLine(t *testing.T) {
	t.Parallel()

	for _, size := range []int{4929, general.MaxLineLength - 100, general.MaxLineLength + 1, 3 * general.MaxLineLength} {
		root := t.TempDir()
		writeSysFile(t, root, consts.ProcMountsFile,
			"sysfs /sys sysfs rw 0 0\n"+overlayMountLine(size)+"\nnone /mnt/huge hugetlbfs rw,pagesize=2M 0 0\n")

		dir, ok := HugePageDir(NewProcMountsTable(root), 2<<20, 2<<20)
		assert.True(t, ok, size)
		assert.Equal(t, "/mnt/huge", dir, size)
	}
}
