package drm

import (
	"testing"

	"github.com/wudi/hovacui/device/swcanvas"
)

func TestBestModePicksLargestArea(t *testing.T) {
	modes := []drmModeModeinfo{
		{Hdisplay: 800, Vdisplay: 600},
		{Hdisplay: 1920, Vdisplay: 1080},
		{Hdisplay: 1024, Vdisplay: 768},
	}
	best := bestMode(modes)
	if best.Hdisplay != 1920 || best.Vdisplay != 1080 {
		t.Fatalf("expected the 1920x1080 mode, got %dx%d", best.Hdisplay, best.Vdisplay)
	}
}

func TestBestModeOfEmptySliceIsZero(t *testing.T) {
	best := bestMode(nil)
	if best.Hdisplay != 0 || best.Vdisplay != 0 {
		t.Fatalf("expected a zero mode, got %dx%d", best.Hdisplay, best.Vdisplay)
	}
}

func newTestDevice(width, height, bpp int) *Device {
	d := &Device{
		width:  width,
		height: height,
		pitch:  width * bpp,
		bpp:    bpp,
		pixels: make([]byte, width*height*bpp),
	}
	d.canvas = swcanvas.New(d)
	return d
}

func TestSetPixelPacksRGB24InBGRAOrder(t *testing.T) {
	d := newTestDevice(4, 4, 4)
	d.SetPixel(2, 1, 0, 1, 0) // pure green
	off := 1*d.pitch + 2*4
	if d.pixels[off] != 0 || d.pixels[off+1] != 255 || d.pixels[off+2] != 0 {
		t.Fatalf("expected BGR(0,255,0) for pure green, got %v", d.pixels[off:off+3])
	}
}

func TestSetPixelOutOfBoundsIsNoop(t *testing.T) {
	d := newTestDevice(4, 4, 4)
	d.SetPixel(-1, 0, 1, 1, 1)
	d.SetPixel(0, 4, 1, 1, 1)
	for _, b := range d.pixels {
		if b != 0 {
			t.Fatal("expected an untouched buffer")
		}
	}
}

func TestClearPaintsEveryPixelThroughTheSharedCanvas(t *testing.T) {
	d := newTestDevice(2, 2, 4)
	d.Clear()
	for off := 0; off+3 <= len(d.pixels); off += 4 {
		if d.pixels[off] != 255 || d.pixels[off+1] != 255 || d.pixels[off+2] != 255 {
			t.Fatal("expected Clear to paint every pixel white")
		}
	}
}
