package main

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gen2brain/mdec"
)

var (
	decodeOutput string
	decodeWidth  int
)

var decodeCmd = &cobra.Command{
	Use:   "decode <frame> -o <image>",
	Short: "Decode a frame to png, jpeg, bmp or tiff",
	Long: `Decode a frame to an image, the format is taken from the output extension.

Corrupt frames are written too: everything after the first broken block is gray.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "output image (.png, .jpg, .bmp, .tiff)")
	decodeCmd.Flags().IntVar(&decodeWidth, "width", 0, "scale the image to this width")
	_ = decodeCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, args []string) error {
	frame, err := readFrame(args[0])
	if err != nil {
		return err
	}

	rgba, err := mdec.DecodeFrame(frame)
	if rgba == nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	var ce *mdec.CorruptError
	if errors.As(err, &ce) {
		slog.Warn("partial frame", "macroblock", ce.Macroblock, "x", ce.MbX, "y", ce.MbY, "block", ce.Block, "error", ce)
	}

	slog.Debug("decoded", "width", rgba.Bounds().Dx(), "height", rgba.Bounds().Dy(), "hash", fmt.Sprintf("%016x", xxhash.Sum64(rgba.Pix)))

	var img image.Image = rgba
	if decodeWidth > 0 && decodeWidth != rgba.Bounds().Dx() {
		img = imaging.Resize(rgba, decodeWidth, 0, imaging.Lanczos)
	}

	w, err := os.Create(decodeOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", decodeOutput, err)
	}

	if err := encodeImage(w, img, decodeOutput); err != nil {
		w.Close()

		return fmt.Errorf("encode %s: %w", decodeOutput, err)
	}

	return w.Close()
}

func encodeImage(w io.Writer, img image.Image, name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unknown image format %q", filepath.Ext(name))
	}
}
