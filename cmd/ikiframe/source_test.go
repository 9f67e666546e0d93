package main

import (
	"bytes"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var grayFrame = []byte{
	0x08, 0x00, 0x00, 0x38, 0x10, 0x00, 0x10, 0x00, 0x04, 0x00,
	0x02, 0x00, 0x08, 0x00,
	0xa0, 0xaa,
}

func withRange(t *testing.T, o, s int64) {
	t.Helper()

	offset, size = o, s
	t.Cleanup(func() {
		offset, size = 0, 0
	})
}

func TestReadFrame(t *testing.T) {
	dir := t.TempDir()

	dump := append(append([]byte("junk"), grayFrame...), []byte("trailer")...)

	plain := filepath.Join(dir, "dump.bin")
	if err := os.WriteFile(plain, dump, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := encodeZstd(&buf, dump); err != nil {
		t.Fatal(err)
	}

	compressed := filepath.Join(dir, "dump.bin.zst")
	if err := os.WriteFile(compressed, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	withRange(t, 4, int64(len(grayFrame)))

	for _, name := range []string{plain, compressed} {
		frame, err := readFrame(name)
		if err != nil {
			t.Fatalf("readFrame %s: %v", filepath.Base(name), err)
		}

		if !bytes.Equal(frame, grayFrame) {
			t.Errorf("readFrame %s: got % x, want % x", filepath.Base(name), frame, grayFrame)
		}
	}

	size = 1000
	if _, err := readFrame(plain); err == nil {
		t.Error("readFrame: got no error past the end")
	}
	if _, err := readFrame(compressed); err == nil {
		t.Error("readFrame zst: got no error past the end")
	}
}

func TestReadFrameURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "frame.iki", time.Time{}, bytes.NewReader(grayFrame))
	}))
	defer srv.Close()

	withRange(t, 0, 0)

	frame, err := readFrame(srv.URL + "/frame.iki")
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(frame, grayFrame) {
		t.Errorf("readFrame: got % x, want % x", frame, grayFrame)
	}
}

func TestEncodeImage(t *testing.T) {
	for _, name := range []string{"a.png", "a.JPG", "a.bmp", "a.tiff"} {
		var buf bytes.Buffer
		if err := encodeImage(&buf, testImage(), name); err != nil {
			t.Errorf("encodeImage %s: %v", name, err)
		}

		if buf.Len() == 0 {
			t.Errorf("encodeImage %s: no output", name)
		}
	}

	if err := encodeImage(&bytes.Buffer{}, testImage(), "a.gif"); err == nil {
		t.Error("encodeImage gif: got no error")
	}
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 64, A: 255})
		}
	}

	return img
}
