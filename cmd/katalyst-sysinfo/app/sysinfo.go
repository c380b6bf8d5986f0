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

package app

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kubewharf/katalyst-sysinfo/cmd/katalyst-sysinfo/app/options"
	"github.com/kubewharf/katalyst-sysinfo/pkg/config/generic"
	"github.com/kubewharf/katalyst-sysinfo/pkg/sysinfo"
	"github.com/kubewharf/katalyst-sysinfo/pkg/util/general"
)

// NewSysInfoCommand creates the katalyst-sysinfo command, the snapshot is
// written to out.
func NewSysInfoCommand(out io.Writer) *cobra.Command {
	opt := options.NewOptions()

	cmd := &cobra.Command{
		Use:          "katalyst-sysinfo",
		Short:        "Discover and print the static system info of this host",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opt.Config()
			if err != nil {
				return errors.Wrap(err, "parse config error")
			}
			return Run(conf, opt.Output, out)
		},
	}

	fss := &cliflag.NamedFlagSets{}
	opt.AddFlags(fss)
	fs := cmd.Flags()
	for _, f := range fss.FlagSets {
		fs.AddFlagSet(f)
	}
	return cmd
}

// Run discovers the system info, writes its snapshot in the given format
// and releases it again.
func Run(conf *generic.SystemInfoConfiguration, format string, out io.Writer) error {
	store := sysinfo.NewStore(
		sysinfo.WithConfiguration(conf),
		sysinfo.WithHugePageDirRelease(func(dir string) {
			general.InfofV(4, "release huge page dir %s", dir)
		}),
	)
	if err := store.Init(); err != nil {
		general.ErrorS(err, "failed to discover system info", "sysfs", conf.SysFSRoot, "procfs", conf.ProcFSRoot)
		return errors.Wrap(err, "failed to discover system info")
	}
	defer func() {
		if err := store.Term(); err != nil {
			general.Errorf("failed to terminate system info: %v", err)
		}
	}()

	return writeSnapshot(out, format, store.Snapshot())
}

func writeSnapshot(out io.Writer, format string, snap sysinfo.Snapshot) error {
	switch format {
	case options.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case options.OutputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
}
