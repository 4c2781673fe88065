// Copyright 2021 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/gogama/reqx"
	"github.com/gogama/reqx/request"
	"github.com/gogama/reqx/session"
)

var (
	sendMethod  string
	sendHeaders []string
	sendData    string
	sendTimeout time.Duration
	configPath  string
	sendRepeat  int
	sendRate    float64
	quietBody   bool
)

var sendCmd = &cobra.Command{
	Use:   "send [flags] URL",
	Short: "Send a request to a URL and print the response",
	Long: `Send one request (or several independent requests with --repeat) to
the given URL over the shared pooled session.

Example:
  reqget send https://api.example.com/users/1
  reqget send -X POST -H 'X-Env: staging' -d '{"k":"v"}' https://api.example.com/items
  reqget send --config session.yaml --repeat 50 --rate 5 https://api.example.com/health`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendMethod, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE, HEAD)")
	sendCmd.Flags().StringArrayVarP(&sendHeaders, "header", "H", nil, "Request header as 'Name: value' (repeatable)")
	sendCmd.Flags().StringVarP(&sendData, "data", "d", "", "Request body")
	sendCmd.Flags().DurationVarP(&sendTimeout, "timeout", "t", 0, "Per-call round-trip timeout (0 = session default)")
	sendCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML session configuration file")
	sendCmd.Flags().IntVar(&sendRepeat, "repeat", 1, "Number of independent calls to make")
	sendCmd.Flags().Float64Var(&sendRate, "rate", 0, "Maximum calls per second when repeating (0 = unlimited)")
	sendCmd.Flags().BoolVarP(&quietBody, "quiet", "q", false, "Print status lines only, no response bodies")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	url := args[0]

	var cfg session.Config
	if configPath != "" {
		loaded, err := session.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	factory := session.NewFactory()
	defer factory.Close()

	handler := &reqx.Handler{
		Factory: factory,
		Config:  cfg,
	}

	var limiter *rate.Limiter
	if sendRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(sendRate), 1)
	}

	failed := 0
	for i := 0; i < sendRepeat; i++ {
		if limiter != nil {
			if err := limiter.Wait(cmd.Context()); err != nil {
				return err
			}
		}
		if err := sendOne(cmd.Context(), handler, url); err != nil {
			failed++
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d calls failed", failed, sendRepeat)
	}
	return nil
}

func sendOne(ctx context.Context, handler *reqx.Handler, url string) error {
	var body interface{}
	if sendData != "" {
		body = sendData
	}
	d, err := request.NewDescriptorWithContext(ctx, sendMethod, url, body)
	if err != nil {
		return err
	}
	d.Timeout = sendTimeout
	for _, h := range sendHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("malformed header %q (want 'Name: value')", h)
		}
		d.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	r, err := handler.Execute(d)
	if err != nil {
		return err
	}

	fmt.Printf("%d %s (%d bytes)\n", r.Status, r.Reason, len(r.Body))
	if !quietBody && len(r.Body) > 0 {
		os.Stdout.Write(r.Body)
		if r.Body[len(r.Body)-1] != '\n' {
			fmt.Println()
		}
	}
	return nil
}
