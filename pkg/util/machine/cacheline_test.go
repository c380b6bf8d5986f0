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
)

func TestParseCacheLineSize(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"64":         64,
		"128\n":      128,
		"  64 bytes": 64,
		"0x80":       128,
		"":           0,
		"unknown":    0,
		"4294967296": 0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseCacheLineSize(in), in)
	}
}

func TestCacheLineProberFunc(t *testing.T) {
	t.Parallel()

	var p CacheLineProber = CacheLineProberFunc(func() int { return 32 })
	assert.Equal(t, 32, p.CacheLineSize())
}
