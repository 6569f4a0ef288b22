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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/microarch/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the marchd HTTP server in the foreground",
		Description: `Run the microarchitecture API server in the foreground until
interrupted. This serves the same endpoints as the standalone marchd
binary and is mostly useful for local development.

# Examples

  march serve
  march serve --port 9090`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Sources: cli.EnvVars("PORT"),
				Value:   0,
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Address to bind (default: all interfaces)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config := server.NewConfig()
			config.Version = version
			if port := cmd.Int("port"); port != 0 {
				config.Port = int(port)
			}
			if addr := cmd.String("address"); addr != "" {
				config.Address = addr
			}

			s, err := server.NewServer(config)
			if err != nil {
				return err
			}
			return s.Start(ctx)
		},
	}
}
