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
	"net/url"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/microarch/pkg/march"
	"github.com/NVIDIA/microarch/pkg/serializer"
	"github.com/NVIDIA/microarch/pkg/server"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List known microarchitecture targets",
		Description: `List the names of all known microarchitecture targets, optionally
restricted to one architecture family.

By default the embedded registry is used. With --server the list is
fetched from a running marchd instance instead, which is useful when the
local binary is older than the deployed registry.

# Examples

List everything:
  march list

List one family:
  march list --family ppc64le

List from a marchd server:
  march list --server http://marchd.internal:8080`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "family",
				Usage: "Restrict the list to one architecture family (e.g., x86_64, aarch64)",
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Base URL of a marchd server to query instead of the embedded registry",
				Sources: cli.EnvVars("MARCH_SERVER"),
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			resp, err := listTargets(ctx, cmd.String("server"), cmd.String("family"))
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, resp)
		},
	}
}

// listTargets resolves the target list locally or from a marchd server.
func listTargets(ctx context.Context, serverURL, family string) (*server.TargetsResponse, error) {
	if serverURL != "" {
		return listRemoteTargets(ctx, serverURL, family)
	}

	targets, err := march.Targets()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(targets))
	for name, t := range targets {
		if family != "" && t.Family() != family {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return &server.TargetsResponse{
		Count:   len(names),
		Family:  family,
		Targets: names,
	}, nil
}

func listRemoteTargets(ctx context.Context, serverURL, family string) (*server.TargetsResponse, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	u.Path = "/v1/targets"
	if family != "" {
		u.RawQuery = url.Values{"family": []string{family}}.Encode()
	}

	r := serializer.NewHttpReader()
	return serializer.ReadJSON[server.TargetsResponse](ctx, r, u.String())
}
