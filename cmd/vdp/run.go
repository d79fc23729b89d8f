package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vdp/buffer"
	"vdp/protocol"
	"vdp/vdu"
)

var runMaxDepth int

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Execute a command script against an in-memory processor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stream, err := encodeFile(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-call-depth") {
			cfg.VDU.MaxCallDepth = runMaxDepth
		}

		var out bytes.Buffer
		var rendered []byte
		renderer := vdu.RenderFunc(func(code byte, in protocol.Source, w io.Writer) error {
			rendered = append(rendered, code)
			return nil
		})

		store := buffer.NewStore()
		proc := vdu.New(protocol.NewSliceSource(stream), &out, store, vdu.Options{
			Renderer:     renderer,
			Logger:       logger,
			MaxCallDepth: cfg.VDU.MaxCallDepth,
		})
		if err := proc.Run(context.Background()); err != nil {
			return err
		}

		return report(cmd.OutOrStdout(), out.Bytes(), rendered, store)
	},
}

func init() {
	runCmd.Flags().IntVar(&runMaxDepth, "max-call-depth", 0, "Limit nested buffer calls (0 = unbounded)")
}

func report(w io.Writer, output, rendered []byte, store *buffer.Store) error {
	fmt.Fprintf(w, "output (%d bytes):\n%s", len(output), hex.Dump(output))
	fmt.Fprintf(w, "rendered (%d codes): % X\n", len(rendered), rendered)
	fmt.Fprintf(w, "buffers: %d\n", store.Len())
	for _, id := range store.IDs() {
		segs, _ := store.Lookup(id)
		for i, seg := range segs {
			fmt.Fprintf(w, "  %5d[%d] %-9s %4d bytes  % X\n", id, i, seg.Kind(), seg.Len(), seg.Bytes())
		}
	}
	return nil
}
