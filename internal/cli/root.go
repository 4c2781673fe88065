// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the reqget command line tool, a thin wrapper
// around the reqx library for issuing one-off requests from scripts
// and for smoke-testing endpoints through the pooled session.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogama/reqx/request"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reqget",
	Short: "Issue HTTP requests through a shared pooled session",
	Long: `reqget issues HTTP requests using the reqx library: one shared
connection pool, exactly one attempt per call, and typed errors that
distinguish client status, server status, connection and timeout
failures.

Get started:
  reqget send https://api.example.com/users/1
  reqget send -X POST -d '{"name":"x"}' https://api.example.com/users
  reqget send --config session.yaml --repeat 100 --rate 10 https://api.example.com/health`,
	Version: request.Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
