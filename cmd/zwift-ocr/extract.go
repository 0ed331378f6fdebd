package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/zwift-ocr/internal/extractor"
	"github.com/ironsheep/zwift-ocr/internal/logging"
)

func newExtractCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract telemetry from a screenshot and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ex, err := a.extractor(mode)
			if err != nil {
				return err
			}
			log := logging.WithOperation(a.log, "extract", args[0])
			log.Debug("extracting", zap.String("mode", mode))

			td, err := ex.Extract(args[0])
			if err != nil {
				log.Error("extraction failed", zap.Error(err))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), td)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", extractor.ModeParallel, "extraction mode: parallel or sequential")
	return cmd
}

func newPoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pose <image>",
		Short: "Classify the rider pose and print the silhouette features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			report, err := extractor.AnalyzePose(args[0], a.opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
}
