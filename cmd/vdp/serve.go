package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vdp/host/session"
)

var (
	serveDevice   string
	serveBaud     int
	serveMaxDepth int
	serveMetrics  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Process the command stream arriving on the serial link",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("device") {
			cfg.Serial.Device = serveDevice
		}
		if flags.Changed("baud") {
			cfg.Serial.Baud = serveBaud
		}
		if flags.Changed("max-call-depth") {
			cfg.VDU.MaxCallDepth = serveMaxDepth
		}
		if flags.Changed("metrics") {
			cfg.Metrics.Listen = serveMetrics
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		s, err := session.Open(cfg, nil, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveDevice, "device", "d", "", "Serial device path")
	serveCmd.Flags().IntVarP(&serveBaud, "baud", "b", 0, "Baud rate")
	serveCmd.Flags().IntVar(&serveMaxDepth, "max-call-depth", 0, "Limit nested buffer calls (0 = unbounded)")
	serveCmd.Flags().StringVar(&serveMetrics, "metrics", "", "Prometheus listen address, e.g. :9100")
}
