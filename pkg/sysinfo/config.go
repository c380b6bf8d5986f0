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
	"math"

	"github.com/pkg/errors"

	"github.com/kubewharf/katalyst-sysinfo/pkg/config/overlay"
	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
)

const (
	hzPerMHz = 1000000
	// maxMHz is the largest clock whose Hz value still fits an uint64
	maxMHz = math.MaxUint64 / hzPerMHz
)

// readDefaultCPUHz returns the default and maximum cpu clock configured in
// MHz, converted to Hz. Timing code depends on both, so there is no
// fallback for a missing key.
func readDefaultCPUHz(o overlay.Overlay) (hz, hzMax uint64, err error) {
	mhz, err := lookupMHz(o, consts.CPUMHzConfigKey)
	if err != nil {
		return 0, 0, err
	}

	mhzMax, err := lookupMHz(o, consts.CPUMHzMaxConfigKey)
	if err != nil {
		return 0, 0, err
	}

	return mhz * hzPerMHz, mhzMax * hzPerMHz, nil
}

func lookupMHz(o overlay.Overlay, key string) (uint64, error) {
	if o == nil {
		return 0, errors.Wrapf(ErrConfigKeyNotFound, "config option %q", key)
	}

	v, ok := o.LookupInt(key)
	if !ok {
		return 0, errors.Wrapf(ErrConfigKeyNotFound, "config option %q", key)
	}
	if v < 0 {
		return 0, errors.Errorf("config option %q is negative: %d", key, v)
	}
	if uint64(v) > maxMHz {
		return 0, errors.Errorf("config option %q is too large: %d", key, v)
	}
	return uint64(v), nil
}
