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

package sysinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStore(t *testing.T) {
	var released []string
	f := newFixture(t)
	require.NoError(t, InitDefault(f.options(WithHugePageDirRelease(func(dir string) {
		released = append(released, dir)
	}))...))

	s := Default()
	assert.Same(t, s, Default())
	assert.Equal(t, 4, s.CPUCount())
	assert.Equal(t, uint64(2100000000), s.DefaultCPUHz())
	assert.Equal(t, uint64(3700000000), s.CPUHzMax())
	dir, ok := s.HugePageDir()
	assert.True(t, ok)
	assert.Equal(t, "/dev/hugepages", dir)

	// built once, later options are refused instead of ignored
	assert.True(t, errors.Is(InitDefault(f.options()...), ErrInvalidState))
	assert.True(t, errors.Is(InitDefault(), ErrInvalidState))

	require.NoError(t, TermDefault())
	assert.Equal(t, []string{"/dev/hugepages"}, released)
	assert.True(t, errors.Is(TermDefault(), ErrInvalidState))
}
