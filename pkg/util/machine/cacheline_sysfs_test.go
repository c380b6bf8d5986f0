//go:build linux && (amd64 || 386 || ppc64 || ppc64le || mips64 || mips64le)

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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
)

func TestSysfsCacheLineProber(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSysFile(t, root, consts.SysCacheLineSizeFile, "64\n")
	assert.Equal(t, 64, NewCacheLineProber(root).CacheLineSize())

	broken := t.TempDir()
	writeSysFile(t, broken, consts.SysCacheLineSizeFile, "n/a\n")
	assert.Equal(t, 0, NewCacheLineProber(broken).CacheLineSize())

	assert.Equal(t, 0, NewCacheLineProber(t.TempDir()).CacheLineSize())
}
