package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/zwift-ocr/internal/server"
)

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions <WxH>",
		Short: "Print the field regions used for a resolution and where they came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, height, err := parseResolution(args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			return writeJSON(cmd.OutOrStdout(), server.ResolveRegions(a.opts.Regions, width, height))
		},
	}
}

// parseResolution parses "1920x1080".
func parseResolution(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid resolution %q, want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return width, height, nil
}
