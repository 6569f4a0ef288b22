// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/microarch/pkg/defaults"
	"github.com/NVIDIA/microarch/pkg/detector"
	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/probe"
	"github.com/NVIDIA/microarch/pkg/serializer"
)

func detectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "detect",
		EnableShellCompletion: true,
		Usage:                 "Identify the microarchitecture of the host CPU",
		Description: `Read the host CPU information and report the best matching known
microarchitecture, including its feature set, vendor, and ancestry.

Detection never fails: when the host cannot be matched against any known
target, the generic target for the machine family is reported instead.

With --compiler and --compiler-version the output also carries the
optimization flags the compiler release should use for the detected
microarchitecture.

# Examples

Detect the current host:
  march detect

Detect from a recorded host description (for testing and support):
  march detect --fixture host.yaml

Include optimization flags for a compiler:
  march detect --compiler gcc --compiler-version 9.3.0

Emit JSON to a file:
  march detect --format json --output host.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fixture",
				Usage: "Path to a recorded host description to detect instead of the live host",
			},
			&cli.StringFlag{
				Name:    "compiler",
				Aliases: []string{"c"},
				Usage:   "Also resolve optimization flags for this compiler",
			},
			&cli.StringFlag{
				Name:    "compiler-version",
				Aliases: []string{"V"},
				Usage:   "Compiler release to resolve flags for (required with --compiler)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			var p probe.Probe = probe.New()
			if path := cmd.String("fixture"); path != "" {
				f, err := probe.LoadFixture(path)
				if err != nil {
					return err
				}
				p = probe.NewFixtureProbe(f)
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CLIDetectTimeout)
			defer cancel()

			host := detector.New(p).Detect(ctx)

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()

			compiler := cmd.String("compiler")
			release := cmd.String("compiler-version")
			if compiler == "" {
				return w.Serialize(ctx, host.Summary())
			}
			if release == "" {
				return fmt.Errorf("--compiler-version is required with --compiler")
			}

			flags, err := host.OptimizationFlags(compiler, release)
			if err != nil {
				return err
			}
			return w.Serialize(ctx, detectResult{
				Host: host.Summary(),
				Flags: &flagsResult{
					Target:   host.Name(),
					Compiler: compiler,
					Version:  release,
					Flags:    flags,
				},
			})
		},
	}
}

// detectResult is the payload written when detect also resolves flags.
type detectResult struct {
	Host  march.Summary `json:"host" yaml:"host"`
	Flags *flagsResult  `json:"flags,omitempty" yaml:"flags,omitempty"`
}
