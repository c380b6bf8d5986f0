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
	"strings"
)

// CacheLineProber reports the cache line size of the host in bytes,
// 0 means it could not be determined.
type CacheLineProber interface {
	CacheLineSize() int
}

// CacheLineProberFunc adapts a plain function to CacheLineProber.
type CacheLineProberFunc func() int

func (f CacheLineProberFunc) CacheLineSize() int {
	return f()
}

// parseCacheLineSize takes the first integer token of the line, 0 if there
// is none or it does not fit an int.
func parseCacheLineSize(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}

	size, ok := parseLeadingUint(fields[0])
	if !ok || size > math.MaxInt32 {
		return 0
	}
	return int(size)
}
