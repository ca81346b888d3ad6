package fbdev

import "testing"

// newTestDevice builds a Device around a plain in-memory buffer, sized
// exactly as cairofb_init would lay out a framebuffer, without touching
// /dev/fb0 or any ioctl.
func newTestDevice(width, height, bpp int) *Device {
	d := &Device{
		width:   width,
		height:  height,
		lineLen: width * bpp,
		bpp:     bpp,
		pixels:  make([]byte, width*height*bpp),
	}
	d.canvas = newCanvas(d)
	return d
}

func TestSetPixelRGB24PacksBGRAOrder(t *testing.T) {
	d := newTestDevice(4, 4, 4)
	d.SetPixel(1, 1, 1, 0, 0) // pure red
	off := 1*d.lineLen + 1*4
	if d.pixels[off] != 0 || d.pixels[off+1] != 0 || d.pixels[off+2] != 255 {
		t.Fatalf("expected BGR(0,0,255) for pure red, got %v", d.pixels[off:off+3])
	}
}

func TestSetPixelRGB16PacksHighColorOrder(t *testing.T) {
	d := newTestDevice(4, 4, 2)
	d.SetPixel(0, 0, 0, 1, 0) // pure green
	v := uint16(d.pixels[0]) | uint16(d.pixels[1])<<8
	if v != uint16(63)<<5 {
		t.Fatalf("expected the green 6-bit field set and nothing else, got %#04x", v)
	}
}

func TestSetPixelOutOfBoundsIsNoop(t *testing.T) {
	d := newTestDevice(4, 4, 4)
	d.SetPixel(-1, 0, 1, 1, 1)
	d.SetPixel(4, 0, 1, 1, 1)
	for _, b := range d.pixels {
		if b != 0 {
			t.Fatalf("expected untouched buffer, found a nonzero byte")
		}
	}
}

func TestClearPaintsEveryPixelThroughTheSharedCanvas(t *testing.T) {
	d := newTestDevice(2, 2, 4)
	d.Clear()
	for off := 0; off+3 <= len(d.pixels); off += 4 {
		if d.pixels[off] != 255 || d.pixels[off+1] != 255 || d.pixels[off+2] != 255 {
			t.Fatalf("expected Clear to paint every pixel white")
		}
	}
}
