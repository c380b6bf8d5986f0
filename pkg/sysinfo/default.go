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
	"sync"

	"github.com/pkg/errors"
)

var (
	initDefaultOnce sync.Once
	defaultStore    *Store
)

func buildDefault(opts []Option) bool {
	built := false
	initDefaultOnce.Do(func() {
		defaultStore = NewStore(opts...)
		built = true
	})
	return built
}

// Default returns the process wide store the rest of the runtime reads. It
// is built with default options unless InitDefault ran first.
func Default() *Store {
	buildDefault(nil)
	return defaultStore
}

// InitDefault builds the process wide store from opts and initializes it.
// Options can only be given while the store is not built yet.
func InitDefault(opts ...Option) error {
	if !buildDefault(opts) && len(opts) > 0 {
		return errors.Wrap(ErrInvalidState, "default store is already built")
	}
	return defaultStore.Init()
}

// TermDefault terminates the process wide store.
func TermDefault() error {
	return Default().Term()
}
