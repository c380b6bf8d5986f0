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
	"github.com/pkg/errors"
)

var (
	// ErrConfigKeyNotFound is returned by Init when a mandatory setting is missing.
	ErrConfigKeyNotFound = errors.New("config key not found")
	// ErrNoCPUs is returned by Init when no logical cpu is configured.
	ErrNoCPUs = errors.New("no cpu configured")
	// ErrCacheLineSize is returned by Init when the cache line size is unknown.
	ErrCacheLineSize = errors.New("unable to determine cache line size")
	// ErrCacheLineMismatch is returned by Init when the host cache line size
	// differs from the one the binary is built for.
	ErrCacheLineMismatch = errors.New("cache line size mismatch")
	// ErrInvalidState is returned when Init or Term is called out of order.
	ErrInvalidState = errors.New("invalid system info state")
)
