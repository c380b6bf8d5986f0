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

// Package sysinfo discovers static facts about the host once at startup:
// cpu count, cache line size, cpu clock rates and huge page setup. The
// record is committed by Init, read without locking afterwards, and
// released by Term.
package sysinfo

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/kubewharf/katalyst-sysinfo/pkg/config/generic"
	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/machine"
)

const (
	stateUninitialized int32 = iota
	stateReady
	stateTerminated
)

// SystemInfo is the cpu part of the discovered record.
type SystemInfo struct {
	PageSize      uint64
	CacheLineSize int
	CPUCount      int

	// DefaultCPUHz and DefaultCPUHzMax come from configuration, not from the host
	DefaultCPUHz    uint64
	DefaultCPUHzMax uint64

	machine.CPUModelInfo
}

// HugePageInfo is the huge page part of the discovered record.
type HugePageInfo struct {
	// DefaultHugePageSize is 0 when the host has no huge page support
	DefaultHugePageSize uint64
	// DefaultHugePageDir is owned by the store and released by Term
	DefaultHugePageDir *string
}

// Store owns one discovered record. Init and Term must be called from a
// single goroutine, before any reader starts and after all readers are
// done. In between the record never changes and every accessor is safe for
// concurrent use.
type Store struct {
	conf *generic.SystemInfoConfiguration

	cacheLineProber machine.CacheLineProber
	cpuInfoParser   machine.CPUInfoParser
	hzEstimator     machine.ArchHzEstimator
	mountTable      machine.MountTable
	currentCPU      func() int
	releaseDir      func(dir string)

	state    atomic.Int32
	info     *SystemInfo
	hugePage HugePageInfo
}

type Option func(s *Store)

// WithConfiguration replaces the default configuration.
func WithConfiguration(conf *generic.SystemInfoConfiguration) Option {
	return func(s *Store) {
		s.conf = conf
	}
}

func WithCacheLineProber(p machine.CacheLineProber) Option {
	return func(s *Store) {
		s.cacheLineProber = p
	}
}

func WithCPUInfoParser(p machine.CPUInfoParser) Option {
	return func(s *Store) {
		s.cpuInfoParser = p
	}
}

func WithArchHzEstimator(e machine.ArchHzEstimator) Option {
	return func(s *Store) {
		s.hzEstimator = e
	}
}

func WithMountTable(t machine.MountTable) Option {
	return func(s *Store) {
		s.mountTable = t
	}
}

// WithCurrentCPU replaces the lookup of the cpu the caller runs on.
func WithCurrentCPU(fn func() int) Option {
	return func(s *Store) {
		s.currentCPU = fn
	}
}

// WithHugePageDirRelease registers a hook Term calls with the owned huge
// page directory right before dropping it.
func WithHugePageDirRelease(fn func(dir string)) Option {
	return func(s *Store) {
		s.releaseDir = fn
	}
}

// NewStore returns an uninitialized store, collaborators not given as
// options are derived from the configuration.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	if s.conf == nil {
		s.conf = generic.NewSystemInfoConfiguration()
	}
	if s.cacheLineProber == nil {
		s.cacheLineProber = machine.NewCacheLineProber(s.conf.SysFSRoot)
	}
	if s.cpuInfoParser == nil {
		s.cpuInfoParser = machine.GenericCPUInfoParser{}
	}
	if s.hzEstimator == nil {
		s.hzEstimator = machine.NewProcCPUInfoEstimator(s.conf.ProcFSRoot)
	}
	if s.mountTable == nil {
		s.mountTable = machine.NewMountTable(s.conf.MountTable, s.conf.ProcFSRoot)
	}
	if s.currentCPU == nil {
		s.currentCPU = currentCPU
	}
	if s.releaseDir == nil {
		s.releaseDir = func(string) {}
	}
	return s
}

// Init discovers the record and makes it available to the accessors. On
// error nothing is committed and the store stays uninitialized.
func (s *Store) Init() error {
	if s.state.Load() != stateUninitialized {
		return errors.Wrap(ErrInvalidState, "init on an initialized store")
	}

	info, hugePage, err := s.discover()
	if err != nil {
		return err
	}

	s.info, s.hugePage = info, hugePage
	s.state.Store(stateReady)
	return nil
}

// Term releases the owned huge page directory. The record must not be read
// afterwards.
func (s *Store) Term() error {
	if !s.state.CAS(stateReady, stateTerminated) {
		return errors.Wrap(ErrInvalidState, "term on a store that is not ready")
	}

	if dir := s.hugePage.DefaultHugePageDir; dir != nil {
		s.releaseDir(*dir)
		s.hugePage.DefaultHugePageDir = nil
	}
	return nil
}

func (s *Store) discover() (*SystemInfo, HugePageInfo, error) {
	info := &SystemInfo{PageSize: consts.PageSize}
	if host := hostPageSize(); host != consts.PageSize {
		general.Warningf("host page size %d differs from %d", host, consts.PageSize)
	}

	var err error
	info.DefaultCPUHz, info.DefaultCPUHzMax, err = readDefaultCPUHz(s.conf.Overlay)
	if err != nil {
		return nil, HugePageInfo{}, errors.Wrap(err, "failed to read config")
	}

	numCPUs := machine.CPUCount(s.conf.SysFSRoot)
	if numCPUs > consts.MaxCPUIDs {
		general.Warningf("unable to handle all %d cpu ids, only the first %d are tracked",
			numCPUs, consts.MaxCPUIDs)
	}

	for id := 0; id < consts.MaxCPUIDs; id++ {
		if hz := machine.ReadCPUFreq(s.conf.SysFSRoot, consts.CPUFreqMaxAttribute, id); hz != 0 {
			info.CPUHzMax[id] = hz
		}
	}

	s.parseCPUInfo(&info.CPUModelInfo)

	if err := checkCPUs(info, numCPUs, s.cacheLineProber); err != nil {
		return nil, HugePageInfo{}, err
	}

	hugePage := HugePageInfo{DefaultHugePageSize: machine.DefaultHugePageSize(s.conf.ProcFSRoot)}
	// no directory simply means no huge page support
	if dir, ok := machine.HugePageDir(s.mountTable, 0, hugePage.DefaultHugePageSize); ok {
		hugePage.DefaultHugePageDir = &dir
	}

	general.InfoS("discovered system info", "cpus", info.CPUCount,
		"cacheLineSize", info.CacheLineSize, "hugePageSize", hugePage.DefaultHugePageSize)
	return info, hugePage, nil
}

// parseCPUInfo fills model strings and the maximum clock of cpus cpufreq
// knows nothing about.
func (s *Store) parseCPUInfo(info *machine.CPUModelInfo) {
	path := filepath.Join(s.conf.ProcFSRoot, consts.ProcCPUInfoFile)
	f, err := os.Open(path)
	if err != nil {
		general.Warningf("failed to open %s, use dummy cpu info: %v", path, err)
		s.cpuInfoParser.Dummy(info)
		return
	}
	defer func() {
		_ = f.Close()
	}()

	if err := s.cpuInfoParser.Parse(f, info); err != nil {
		general.Errorf("failed to parse %s, keep what was parsed: %v", path, err)
	}
}

func checkCPUs(info *SystemInfo, numCPUs int, prober machine.CacheLineProber) error {
	if numCPUs <= 0 {
		return ErrNoCPUs
	}
	info.CPUCount = numCPUs

	size := prober.CacheLineSize()
	if size == 0 {
		return ErrCacheLineSize
	}
	info.CacheLineSize = size

	if size != consts.CacheLineSize {
		return errors.Wrapf(ErrCacheLineMismatch, "host reports %d, built for %d", size, consts.CacheLineSize)
	}
	return nil
}
