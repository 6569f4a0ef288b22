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

// flagsResult is the payload written by the flags command.
type flagsResult struct {
	Target   string `json:"target" yaml:"target"`
	Compiler string `json:"compiler" yaml:"compiler"`
	Version  string `json:"version" yaml:"version"`
	Flags    string `json:"flags" yaml:"flags"`
}

func flagsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "flags",
		EnableShellCompletion: true,
		Usage:                 "Resolve compiler optimization flags for a target",
		Description: `Resolve the optimization flags a compiler release should use to produce
a binary tuned for a microarchitecture target.

When the named compiler release cannot target the microarchitecture
directly, the flags of the nearest supported ancestor are used instead.
A compiler the registry does not know at all yields empty flags. When
--target is omitted the host microarchitecture is detected and used.

# Examples

Flags for a named target:
  march flags --target broadwell --compiler gcc --compiler-version 9.3.0

Flags for the current host:
  march flags --compiler clang --compiler-version 14.0.6`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "target",
				Usage: "Microarchitecture target (default: detect the host)",
			},
			&cli.StringFlag{
				Name:     "compiler",
				Aliases:  []string{"c"},
				Required: true,
				Usage:    "Compiler name (e.g., gcc, clang)",
			},
			&cli.StringFlag{
				Name:     "compiler-version",
				Aliases:  []string{"V"},
				Required: true,
				Usage:    "Compiler release (e.g., 9.3.0)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			target, err := resolveTarget(ctx, cmd.String("target"))
			if err != nil {
				return err
			}

			compiler := cmd.String("compiler")
			release := cmd.String("compiler-version")
			flags, err := target.OptimizationFlags(compiler, release)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, flagsResult{
				Target:   target.Name(),
				Compiler: compiler,
				Version:  release,
				Flags:    flags,
			})
		},
	}
}

// resolveTarget looks up a named target, or detects the host when the
// name is empty.
func resolveTarget(ctx context.Context, name string) (*march.Microarchitecture, error) {
	if name != "" {
		return march.Target(name)
	}
	ctx, cancel := context.WithTimeout(ctx, defaults.CLIDetectTimeout)
	defer cancel()
	return detector.New(probe.New()).Detect(ctx), nil
}
