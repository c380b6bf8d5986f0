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

package options

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubewharf/katalyst-sysinfo/pkg/config/generic"
	"github.com/kubewharf/katalyst-sysinfo/pkg/config/overlay"
	"github.com/kubewharf/katalyst-sysinfo/pkg/consts"
)

const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// unsetMHz marks a clock flag that was not given on the command line.
const unsetMHz = -1

var (
	outputFormats = sets.NewString(OutputYAML, OutputJSON)
	mountTables   = sets.NewString(string(consts.MountTableProcMounts), string(consts.MountTableMountInfo))
)

// Options holds the configurations for katalyst-sysinfo.
type Options struct {
	// ConfigFile is a yaml document carrying the system.cpu_mhz and
	// system.cpu_mhz_max keys
	ConfigFile string
	// CPUMHz and CPUMHzMax take precedence over the config file when set
	CPUMHz    int
	CPUMHzMax int

	SysFSRoot  string
	ProcFSRoot string
	MountTable string

	Output string

	logsOptions *LogsOptions
}

// NewOptions creates a new Options with a default config.
func NewOptions() *Options {
	return &Options{
		CPUMHz:      unsetMHz,
		CPUMHzMax:   unsetMHz,
		SysFSRoot:   consts.DefaultSysFSRoot,
		ProcFSRoot:  consts.DefaultProcFSRoot,
		MountTable:  string(consts.MountTableProcMounts),
		Output:      OutputYAML,
		logsOptions: NewLogsOptions(),
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *Options) AddFlags(fss *cliflag.NamedFlagSets) {
	fs := fss.FlagSet("sysinfo")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile,
		"path of the yaml config file holding system.cpu_mhz and system.cpu_mhz_max")
	fs.IntVar(&o.CPUMHz, "cpu-mhz", o.CPUMHz,
		"default cpu clock in MHz, overrides system.cpu_mhz of the config file if not negative")
	fs.IntVar(&o.CPUMHzMax, "cpu-mhz-max", o.CPUMHzMax,
		"default maximum cpu clock in MHz, overrides system.cpu_mhz_max of the config file if not negative")
	fs.StringVar(&o.SysFSRoot, "sysfs-root", o.SysFSRoot, "mount point of sysfs")
	fs.StringVar(&o.ProcFSRoot, "procfs-root", o.ProcFSRoot, "mount point of procfs")
	fs.StringVar(&o.MountTable, "mount-table", o.MountTable,
		fmt.Sprintf("mount table used to find hugetlbfs mounts, one of %v", mountTables.List()))
	fs.StringVarP(&o.Output, "output", "o", o.Output,
		fmt.Sprintf("output format, one of %v", outputFormats.List()))

	o.logsOptions.AddFlags(fss.FlagSet("logs"))
}

// ApplyTo fills up config with options
func (o *Options) ApplyTo(c *generic.SystemInfoConfiguration) error {
	var errList []error

	errList = append(errList, o.logsOptions.ApplyTo())

	if !outputFormats.Has(o.Output) {
		errList = append(errList, fmt.Errorf("unsupported output format %q", o.Output))
	}
	if !mountTables.Has(o.MountTable) {
		errList = append(errList, fmt.Errorf("unsupported mount table %q", o.MountTable))
	}

	c.SysFSRoot = o.SysFSRoot
	c.ProcFSRoot = o.ProcFSRoot
	c.MountTable = consts.MountTableSource(o.MountTable)

	overrides := overlay.Map{}
	if o.CPUMHz >= 0 {
		overrides[consts.CPUMHzConfigKey] = o.CPUMHz
	}
	if o.CPUMHzMax >= 0 {
		overrides[consts.CPUMHzMaxConfigKey] = o.CPUMHzMax
	}

	if o.ConfigFile == "" {
		c.Overlay = overrides
	} else if doc, err := overlay.LoadFile(o.ConfigFile); err != nil {
		errList = append(errList, err)
	} else {
		c.Overlay = overlay.Chain(overrides, doc)
	}

	return errors.NewAggregate(errList)
}

// Config returns a new configuration instance.
func (o *Options) Config() (*generic.SystemInfoConfiguration, error) {
	c := generic.NewSystemInfoConfiguration()
	if err := o.ApplyTo(c); err != nil {
		return nil, err
	}
	return c, nil
}
