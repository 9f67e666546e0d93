package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gen2brain/mdec"
)

var (
	replaceOutput   string
	replaceNoRefine bool
	replacePad      bool
	replaceMaxScale int
)

var replaceCmd = &cobra.Command{
	Use:   "replace <frame> <image> -o <frame>",
	Short: "Encode an image in place of a frame",
	Long: `Encode an image as an iki frame no larger than the original one.

The image is scaled and cropped to the frame size. The lowest quantization
scale that fits is used, then the macroblocks with the most detail get a finer
scale while the frame still fits. With --pad the output is zero padded to the
size of the original frame, so it can be written back over it.`,
	Args: cobra.ExactArgs(2),
	RunE: runReplace,
}

func init() {
	replaceCmd.Flags().StringVarP(&replaceOutput, "output", "o", "", "output frame, zstd compressed when it ends in .zst")
	replaceCmd.Flags().BoolVar(&replaceNoRefine, "no-refine", false, "use a single quantization scale for the whole frame")
	replaceCmd.Flags().BoolVar(&replacePad, "pad", false, "pad the output to the size of the original frame")
	replaceCmd.Flags().IntVar(&replaceMaxScale, "max-qscale", 63, "largest quantization scale to try")
	_ = replaceCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(replaceCmd)
}

func runReplace(_ *cobra.Command, args []string) error {
	original, err := readFrame(args[0])
	if err != nil {
		return err
	}

	h, err := mdec.ParseHeader(original)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	img, err := loadImage(args[1])
	if err != nil {
		return err
	}

	if b := img.Bounds(); b.Dx() != h.Width || b.Dy() != h.Height {
		slog.Info("scaling image", "from", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "to", fmt.Sprintf("%dx%d", h.Width, h.Height))
		img = imaging.Fill(img, h.Width, h.Height, imaging.Center, imaging.Lanczos)
	}

	f, err := mdec.NewFrameEncoder(img)
	if err != nil {
		return fmt.Errorf("encode %s: %w", args[1], err)
	}

	enc := mdec.NewEncoder()
	enc.SetLogger(slog.Default())
	enc.SetRefine(!replaceNoRefine)
	enc.SetMaxQscale(replaceMaxScale)

	frame, err := enc.Encode(f, len(original))
	if err != nil {
		return fmt.Errorf("encode %s: %w", args[1], err)
	}

	slog.Info("encoded", "size", len(frame), "budget", len(original))

	if replacePad {
		frame = append(frame, make([]byte, len(original)-len(frame))...)
	}

	return writeFrame(replaceOutput, frame)
}

func loadImage(name string) (image.Image, error) {
	r, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return img, nil
}

func writeFrame(name string, frame []byte) error {
	w, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	if strings.HasSuffix(name, ".zst") {
		err = encodeZstd(w, frame)
	} else {
		_, err = w.Write(frame)
	}

	if err != nil {
		w.Close()

		return fmt.Errorf("write %s: %w", name, err)
	}

	return w.Close()
}
