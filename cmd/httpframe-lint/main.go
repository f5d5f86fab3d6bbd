// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command httpframe-lint reads a single raw HTTP/1.1 message off stdin
// or a file, deserializes and validates it, and reports the result. It
// is a consumer of the framing library, not part of it: the library
// itself stays free of CLI and logging concerns.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hyperfields/httpframe/framing"
	"github.com/hyperfields/httpframe/semantics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	asResponse bool
	reqMethod  string
	obsFold    string
	runID      = uuid.New()
)

func buildRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "httpframe-lint [file]",
		Short: "Parse and validate an HTTP/1.1 message against RFC 9112 framing rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			buf, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return lint(cmd, logger, buf)
		},
	}
	root.Flags().BoolVar(&asResponse, "response", false, "parse the input as a response instead of a request")
	root.Flags().StringVar(&reqMethod, "method", "GET", "method of the request this response answers (only used with --response)")
	root.Flags().StringVar(&obsFold, "obs-fold", "reject", "obsolete line-folding policy: reject|replace|discard")
	return root
}

func resolveObsFoldPolicy() (framing.ObsFoldPolicy, error) {
	switch obsFold {
	case "reject":
		return framing.ObsFoldReject, nil
	case "replace":
		return framing.ObsFoldReplaceWithSpace, nil
	case "discard":
		return framing.ObsFoldDiscard, nil
	default:
		return 0, fmt.Errorf("unknown --obs-fold value %q", obsFold)
	}
}

func lint(cmd *cobra.Command, logger *zap.Logger, buf []byte) error {
	policy, err := resolveObsFoldPolicy()
	if err != nil {
		return err
	}
	limits := framing.DefaultLimits()
	logger.Info("linting message", zap.String("run_id", runID.String()), zap.Int("bytes", len(buf)), zap.Bool("response", asResponse))

	if asResponse {
		resp, consumed, err := framing.DeserializeResponse(buf, semantics.Method{Raw: reqMethod}, policy, limits)
		if err != nil {
			reportError(cmd, logger, err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "status=%d headers=%d body_bytes=%d consumed=%d\n",
			resp.Status.Code, len(resp.Headers), len(resp.Body), consumed)
		return nil
	}

	req, consumed, err := framing.DeserializeRequest(buf, policy, limits)
	if err != nil {
		reportError(cmd, logger, err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "method=%s target=%s headers=%d body_bytes=%d consumed=%d\n",
		req.Method.Raw, req.TargetRaw, len(req.Headers), len(req.Body), consumed)
	return nil
}

func reportError(cmd *cobra.Command, logger *zap.Logger, err error) {
	fe, ok := err.(*framing.Error)
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return
	}
	logger.Warn("framing error", zap.String("kind", fe.Kind.String()), zap.Bool("security", framing.IsFramingSecurity(fe)))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", fe.Kind, fe)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := buildRootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
