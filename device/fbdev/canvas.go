package fbdev

import "github.com/wudi/hovacui/device/swcanvas"

// pixel surface adapter onto the Device's mmap'd framebuffer; actual
// rasterization is shared with the drm backend via device/swcanvas.

func (d *Device) PixelWidth() int  { return d.width }
func (d *Device) PixelHeight() int { return d.height }

// SetPixel writes one RGB pixel (0..1 components) at (x, y), packing it
// as RGB16_565 or RGB24 the way cairofb_init selects between the two by
// bits-per-pixel.
func (d *Device) SetPixel(x, y int, r, g, b float64) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	off := y*d.lineLen + x*d.bpp
	if off < 0 || off+d.bpp > len(d.pixels) {
		return
	}
	switch d.bpp {
	case 2:
		v := uint16(r*31)<<11 | uint16(g*63)<<5 | uint16(b*31)
		d.pixels[off] = byte(v)
		d.pixels[off+1] = byte(v >> 8)
	case 4:
		d.pixels[off] = byte(b * 255)
		d.pixels[off+1] = byte(g * 255)
		d.pixels[off+2] = byte(r * 255)
		d.pixels[off+3] = 0
	}
}

func newCanvas(d *Device) *swcanvas.Canvas { return swcanvas.New(d) }
