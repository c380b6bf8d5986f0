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
	"path/filepath"

	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

type sysfsCacheLineProber struct {
	path string
}

// NewCacheLineProber reads the coherency line size the kernel reports for
// the first cache of cpu0.
func NewCacheLineProber(sysfsRoot string) CacheLineProber {
	return &sysfsCacheLineProber{path: filepath.Join(sysfsRoot, consts.SysCacheLineSizeFile)}
}

func (p *sysfsCacheLineProber) CacheLineSize() int {
	line, err := general.ReadFirstLine(p.path)
	if err != nil {
		general.Warningf("failed to read %s: %v", p.path, err)
		return 0
	}
	return parseCacheLineSize(line)
}
