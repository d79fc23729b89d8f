package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vdp/script"
)

var encodeOutput string

var encodeCmd = &cobra.Command{
	Use:   "encode <script>",
	Short: "Encode a command script into the binary VDU stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stream, err := encodeFile(args[0])
		if err != nil {
			return err
		}

		if encodeOutput != "" {
			return writeFile(encodeOutput, stream)
		}
		_, err = cmd.OutOrStdout().Write(stream)
		return err
	},
}

// writeFile writes stream to path. A failed close is reported since it
// can be the first sign of a short write.
func writeFile(path string, stream []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(stream); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "Write the stream to a file instead of stdout")
}

// encodeFile encodes the script at path, "-" reading stdin
func encodeFile(path string) ([]byte, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		r = f
	}
	stream, err := script.Encode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stream, nil
}
