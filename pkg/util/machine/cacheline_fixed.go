//go:build !linux || !(amd64 || 386 || ppc64 || ppc64le || mips64 || mips64le)

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

// fixedCacheLineSize is reported where the kernel does not export the cache
// topology in sysfs.
const fixedCacheLineSize = 64

type fixedCacheLineProber struct{}

func NewCacheLineProber(_ string) CacheLineProber {
	return fixedCacheLineProber{}
}

func (fixedCacheLineProber) CacheLineSize() int {
	return fixedCacheLineSize
}
