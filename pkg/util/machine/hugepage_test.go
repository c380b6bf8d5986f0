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
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

const testMemInfo = `MemTotal:       32657712 kB
MemFree:         1234567 kB
HugePages_Total:       0
HugePages_Free:        0
HugePages_Rsvd:        0
HugePages_Surp:        0
Hugepagesize:       2048 kB
Hugetlb:               0 kB
`

func TestParseDefaultHugePageSize(t *testing.T) {
	t.Parallel()

	size, err := ParseDefaultHugePageSize(general.NewLines(strings.NewReader(testMemInfo)))
	require.NoError(t, err)
	assert.Equal(t, uint64(2097152), size)

	size, err = ParseDefaultHugePageSize(general.NewLines(strings.NewReader("Hugepagesize:    2048 kB\n")))
	require.NoError(t, err)
	assert.Equal(t, uint64(2097152), size)

	size, err = ParseDefaultHugePageSize(general.NewLines(strings.NewReader("MemTotal: 1 kB\nHugePages_Total: 0\n")))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), size)

	overlong := "MemTotal: 1 kB\n" + strings.Repeat("x", general.MaxLineLength+1) + "\nHugepagesize: 2048 kB\n"
	size, err = ParseDefaultHugePageSize(general.NewLines(strings.NewReader(overlong)))
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Equal(t, uint64(0), size)
}

func TestDefaultHugePageSize(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSysFile(t, root, consts.ProcMemInfoFile, testMemInfo)
	assert.Equal(t, uint64(2097152), DefaultHugePageSize(root))

	noHugePages := t.TempDir()
	writeSysFile(t, noHugePages, consts.ProcMemInfoFile, "MemTotal: 1 kB\n")
	assert.Equal(t, uint64(0), DefaultHugePageSize(noHugePages))

	assert.Equal(t, uint64(0), DefaultHugePageSize(t.TempDir()))
}

func TestHugePageSizes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"hugepages-2048kB", "hugepages-1048576kB", "hugepages-64kB", "not-hugepages", "hugepages-xkB"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, consts.SysHugePagesDir, name), 0o755))
	}

	total := HugePageSizes(root, nil)
	assert.Equal(t, 3, total)

	sizes := make([]uint64, total)
	assert.Equal(t, total, HugePageSizes(root, sizes))
	assert.Equal(t, []uint64{65536, 2097152, 1073741824}, sizes)

	// a short buffer keeps the total and sorts what it holds
	short := make([]uint64, 2)
	assert.Equal(t, 3, HugePageSizes(root, short))
	assert.True(t, short[0] <= short[1])

	assert.Equal(t, 0, HugePageSizes(t.TempDir(), make([]uint64, 4)))
}

func TestCollectHugePageSizes(t *testing.T) {
	t.Parallel()

	names := []string{"hugepages-1048576kB", "hugepages-2048kB", "hugepages-64kB"}

	sizes := make([]uint64, 5)
	assert.Equal(t, 3, collectHugePageSizes(names, sizes))
	assert.Equal(t, []uint64{65536, 2097152, 1073741824, 0, 0}, sizes)

	one := make([]uint64, 1)
	assert.Equal(t, 3, collectHugePageSizes(names, one))
	assert.Equal(t, []uint64{1073741824}, one)

	assert.Equal(t, 0, collectHugePageSizes(nil, nil))
}

type staticMountTable struct {
	entries []MountEntry
	err     error
}

func (s *staticMountTable) String() string {
	return "static"
}

func (s *staticMountTable) Walk(fn func(m MountEntry) bool) error {
	if s.err != nil {
		return s.err
	}
	for _, m := range s.entries {
		if !fn(m) {
			break
		}
	}
	return nil
}

func TestHugePageDir(t *testing.T) {
	t.Parallel()

	Convey("Test HugePageDir", t, func() {
		const (
			size2M = 2 << 20
			size1G = 1 << 30
		)

		Convey("explicit pagesize option", func() {
			table := &staticMountTable{entries: []MountEntry{
				{"sysfs", "/sys", "sysfs", "rw,nosuid"},
				{"none", "/mnt/huge", "hugetlbfs", "rw,pagesize=2M"},
			}}

			dir, ok := HugePageDir(table, size2M, size2M)
			So(ok, ShouldBeTrue)
			So(dir, ShouldEqual, "/mnt/huge")

			dir, ok = HugePageDir(table, size1G, size2M)
			So(ok, ShouldBeFalse)
			So(dir, ShouldBeEmpty)

			dir, ok = HugePageDir(table, 0, size2M)
			So(ok, ShouldBeTrue)
			So(dir, ShouldEqual, "/mnt/huge")
		})

		Convey("mounts without pagesize use the default size", func() {
			table := &staticMountTable{entries: []MountEntry{
				{"hugetlbfs", "/dev/hugepages", "hugetlbfs", "rw,relatime"},
				{"none", "/mnt/huge1G", "hugetlbfs", "rw,relatime,pagesize=1024M"},
			}}

			dir, ok := HugePageDir(table, 0, size2M)
			So(ok, ShouldBeTrue)
			So(dir, ShouldEqual, "/dev/hugepages")

			dir, ok = HugePageDir(table, size1G, size2M)
			So(ok, ShouldBeTrue)
			So(dir, ShouldEqual, "/mnt/huge1G")

			_, ok = HugePageDir(table, 64<<10, size2M)
			So(ok, ShouldBeFalse)
		})

		Convey("first match wins", func() {
			table := &staticMountTable{entries: []MountEntry{
				{"none", "/mnt/a", "hugetlbfs", "rw,pagesize=1G"},
				{"none", "/mnt/b", "hugetlbfs", "pagesize=1G,rw"},
			}}

			dir, ok := HugePageDir(table, size1G, size2M)
			So(ok, ShouldBeTrue)
			So(dir, ShouldEqual, "/mnt/a")
		})

		Convey("invalid pagesize never matches", func() {
			table := &staticMountTable{entries: []MountEntry{
				{"none", "/mnt/bad", "hugetlbfs", "rw,pagesize=huge"},
			}}

			_, ok := HugePageDir(table, 0, size2M)
			So(ok, ShouldBeFalse)
		})

		Convey("unreadable table", func() {
			table := &staticMountTable{err: os.ErrNotExist}

			_, ok := HugePageDir(table, size2M, size2M)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMountPageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		options  string
		size     uint64
		explicit bool
	}{
		{options: "rw,pagesize=2M", size: 2 << 20, explicit: true},
		{options: "pagesize=1G,rw", size: 1 << 30, explicit: true},
		{options: "rw,pagesize=64K", size: 64 << 10, explicit: true},
		{options: "rw,pagesize=2048k", size: 2 << 20, explicit: true},
		{options: "rw,pagesize=bad", explicit: true},
		{options: "rw,relatime"},
	}
	for _, tt := range tests {
		size, explicit := mountPageSize(tt.options)
		assert.Equal(t, tt.size, size, tt.options)
		assert.Equal(t, tt.explicit, explicit, tt.options)
	}
}

func TestHugePageDirWithoutDefaultSize(t *testing.T) {
	t.Parallel()

	table := &staticMountTable{entries: []MountEntry{
		{"nodev", "/dev/hugepages", "hugetlbfs", "rw,relatime"},
		{"none", "/mnt/huge", "hugetlbfs", "rw,pagesize=2M"},
	}}

	// without a known default, mounts lacking pagesize= still serve it
	dir, ok := HugePageDir(table, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, "/dev/hugepages", dir)

	dir, ok = HugePageDir(table, 2<<20, 0)
	assert.True(t, ok)
	assert.Equal(t, "/mnt/huge", dir)
}
