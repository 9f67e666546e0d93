package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jfbus/httprs"
	"github.com/klauspost/compress/zstd"
)

func openFile(arg string) (io.ReadSeekCloser, error) {
	var err error
	var r io.ReadSeekCloser

	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		res, err := http.Get(arg)
		if err != nil {
			return nil, err
		}

		if res.StatusCode != http.StatusOK {
			res.Body.Close()

			return nil, fmt.Errorf("get %s: %s", arg, res.Status)
		}

		r = httprs.NewHttpReadSeeker(res)
	} else {
		r, err = os.Open(arg)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// readFrame reads the frame selected by --offset and --size from a file or URL.
// Sources ending in .zst are decompressed first, the offset then applies to the
// decompressed data.
func readFrame(arg string) ([]byte, error) {
	r, err := openFile(arg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", arg, err)
	}
	defer r.Close()

	if strings.HasSuffix(arg, ".zst") {
		data, err := decodeZstd(r)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", arg, err)
		}

		return sliceFrame(data)
	}

	if offset > 0 {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek %s: %w", arg, err)
		}
	}

	var src io.Reader = r
	if size > 0 {
		src = io.LimitReader(r, size)
	}

	frame, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}

	if size > 0 && int64(len(frame)) < size {
		return nil, fmt.Errorf("read %s: %w", arg, io.ErrUnexpectedEOF)
	}

	return frame, nil
}

func sliceFrame(data []byte) ([]byte, error) {
	if offset > int64(len(data)) {
		return nil, fmt.Errorf("offset %d: %w", offset, io.ErrUnexpectedEOF)
	}
	data = data[offset:]

	if size > 0 {
		if size > int64(len(data)) {
			return nil, fmt.Errorf("size %d: %w", size, io.ErrUnexpectedEOF)
		}
		data = data[:size]
	}

	return data, nil
}

func decodeZstd(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

func encodeZstd(w io.Writer, data []byte) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	if _, err := io.Copy(enc, bytes.NewReader(data)); err != nil {
		enc.Close()

		return err
	}

	return enc.Close()
}
