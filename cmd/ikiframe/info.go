package main

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/gen2brain/mdec"
)

var infoCmd = &cobra.Command{
	Use:   "info <frame>",
	Short: "Print the header of a frame and a hash of its pixels",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	frame, err := readFrame(args[0])
	if err != nil {
		return err
	}

	h, err := mdec.ParseHeader(frame)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	fmt.Printf("  Format:      %s\n", h)
	fmt.Printf("  Size:        %d bytes (%d table, %d bitstream)\n",
		len(frame), h.CompressedSize, len(frame)-h.DataOffset())
	fmt.Printf("  Macroblocks: %dx%d\n", (h.Width+15)/16, (h.Height+15)/16)

	img, err := mdec.DecodeFrame(frame)
	if img == nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	status := "ok"
	var ce *mdec.CorruptError
	if errors.As(err, &ce) {
		status = ce.Error()
	}

	fmt.Printf("  Decode:      %s\n", status)
	fmt.Printf("  Pixel hash:  %016x\n", xxhash.Sum64(img.Pix))

	return nil
}
