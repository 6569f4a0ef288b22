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

	"github.com/NVIDIA/microarch/pkg/errors"
	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/serializer"
)

// compareResult is the payload written by the compare command.
type compareResult struct {
	Left       string `json:"left" yaml:"left"`
	Right      string `json:"right" yaml:"right"`
	Ordering   string `json:"ordering" yaml:"ordering"`
	Comparable bool   `json:"comparable" yaml:"comparable"`
}

func compareCmd() *cli.Command {
	return &cli.Command{
		Name:                  "compare",
		EnableShellCompletion: true,
		Usage:                 "Order two microarchitectures by ancestry",
		ArgsUsage:             "LEFT RIGHT",
		Description: `Compare two microarchitecture targets under the ancestry partial order.
A target is less than another when it is a strict ancestor, meaning any
binary tuned for it also runs on the other.

Targets from different architecture families carry no order; the result
reports them as not comparable.

# Examples

  march compare broadwell skylake
  march compare zen broadwell`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			args := cmd.Args()
			if args.Len() != 2 {
				return fmt.Errorf("expected exactly two arguments: LEFT RIGHT")
			}

			left, err := march.Target(args.Get(0))
			if err != nil {
				return err
			}
			right, err := march.Target(args.Get(1))
			if err != nil {
				return err
			}

			result := compareResult{
				Left:       left.Name(),
				Right:      right.Name(),
				Comparable: true,
			}
			ord, err := left.Compare(right)
			switch {
			case err == nil:
				result.Ordering = ord.String()
			case errors.HasCode(err, errors.ErrCodeIncomparableArchitectures):
				result.Ordering = march.Incomparable.String()
				result.Comparable = false
			default:
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, result)
		},
	}
}
