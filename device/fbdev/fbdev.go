// Package fbdev is a device.Device backed by the Linux framebuffer:
// mmap the device file for pixels, an ioctl pair for its geometry, and
// a raw terminal for keystrokes. Grounded on
// _examples/original_source/cairofb.c/.h (spec.md §4.I). Libraries:
// golang.org/x/sys/unix (ioctl, mmap — the same dependency
// other_examples' gazed-vu and esimov-caire manifests pull in for
// framebuffer/device access) and golang.org/x/term (raw tty mode).
package fbdev

import (
	"bufio"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/wudi/hovacui/device"
	"github.com/wudi/hovacui/device/swcanvas"
	"github.com/wudi/hovacui/ui"
)

// ioctl request numbers from linux/fb.h; golang.org/x/sys/unix does not
// wrap fbdev ioctls directly, so the numeric requests are reproduced
// here the way every Go framebuffer binding does.
const (
	fbiogetVScreenInfo = 0x4600
	fbiogetFScreenInfo = 0x4602

	fbTypePackedPixels = 0
	fbVisualTrueColor  = 2
)

// fbFixScreeninfo mirrors struct fb_fix_screeninfo field for field;
// this package reads only id/smem_start/smem_len/type/visual/
// line_length.
type fbFixScreeninfo struct {
	ID          [16]byte
	SmemStart   uintptr
	SmemLen     uint32
	Type        uint32
	TypeAux     uint32
	Visual      uint32
	Xpanstep    uint16
	Ypanstep    uint16
	Ywrapstep   uint16
	LineLength  uint32
	MmioStart   uintptr
	MmioLen     uint32
	Accel       uint32
	Capabilities uint16
	Reserved    [2]uint16
}

// fbVarScreeninfo mirrors struct fb_var_screeninfo's geometry fields
// (xres/yres/bits_per_pixel), again skipping the rest.
type fbVarScreeninfo struct {
	Xres           uint32
	Yres           uint32
	XresVirtual    uint32
	YresVirtual    uint32
	Xoffset        uint32
	Yoffset        uint32
	BitsPerPixel   uint32
	Grayscale      uint32
	_              [6 * 4]byte // red/green/blue/transp bitfields
	Nonstd         uint32
	Activate       uint32
	Height         uint32
	Width          uint32
	_              [40]byte
}

// Device drives a framebuffer device file plus the controlling
// terminal's raw keystrokes.
type Device struct {
	fd       int
	pixels   []byte
	width    int
	height   int
	lineLen  int
	bpp      int

	canvas *swcanvas.Canvas

	termFD    int
	oldState  *term.State
	input     *bufio.Reader
}

// Open mmaps devicePath (typically /dev/fb0) and puts the terminal
// attached to stdin into raw mode for keystrokes. Grounded on
// cairofb_init.
func Open(devicePath string) (*Device, error) {
	fd, err := unix.Open(devicePath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", devicePath, err)
	}

	var fix fbFixScreeninfo
	if err := ioctl(fd, fbiogetFScreenInfo, unsafe.Pointer(&fix)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: FBIOGET_FSCREENINFO: %w", err)
	}
	var vinfo fbVarScreeninfo
	if err := ioctl(fd, fbiogetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: FBIOGET_VSCREENINFO: %w", err)
	}

	if fix.Type != fbTypePackedPixels || fix.Visual != fbVisualTrueColor {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: unsupported framebuffer type/visual")
	}
	if vinfo.BitsPerPixel != 32 && vinfo.BitsPerPixel != 16 {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: unsupported bits-per-pixel %d", vinfo.BitsPerPixel)
	}

	mem, err := unix.Mmap(fd, 0, int(fix.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: mmap: %w", err)
	}

	d := &Device{
		fd:      fd,
		pixels:  mem,
		width:   int(vinfo.Xres),
		height:  int(vinfo.Yres),
		lineLen: int(fix.LineLength),
		bpp:     int(vinfo.BitsPerPixel) / 8,
		termFD:  int(os.Stdin.Fd()),
		input:   bufio.NewReader(os.Stdin),
	}
	d.canvas = newCanvas(d)

	if state, err := term.MakeRaw(d.termFD); err == nil {
		d.oldState = state
	}

	return d, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Finish restores the terminal and unmaps the framebuffer.
func (d *Device) Finish() {
	if d.oldState != nil {
		term.Restore(d.termFD, d.oldState)
	}
	unix.Munmap(d.pixels)
	unix.Close(d.fd)
}

func (d *Device) Context() device.Canvas { return d.canvas }
func (d *Device) Width() float64         { return float64(d.width) }
func (d *Device) Height() float64        { return float64(d.height) }
func (d *Device) ScreenWidth() float64   { return float64(d.width) }
func (d *Device) ScreenHeight() float64  { return float64(d.height) }
func (d *Device) DoubleBuffering() bool  { return false }
func (d *Device) IsActive() bool         { return true }

func (d *Device) Clear() { d.canvas.ClearRGB(1, 1, 1) }
func (d *Device) Blank() { d.canvas.ClearRGB(0, 0, 0) }
func (d *Device) Flush() {}

// Input blocks for at most timeout (device.NoTimeout means forever)
// reading one key from the terminal, translating arrow-key escape
// sequences into ui.Key values.
func (d *Device) Input(timeout time.Duration) (device.Event, error) {
	if timeout >= 0 {
		deadline := time.Now().Add(timeout)
		unix.SetNonblock(d.termFD, true)
		defer unix.SetNonblock(d.termFD, false)
		for d.input.Buffered() == 0 {
			if time.Now().After(deadline) {
				return device.Event{Signal: device.SignalTimeout}, nil
			}
			time.Sleep(5 * time.Millisecond)
		}
	}

	r, _, err := d.input.ReadRune()
	if err != nil {
		return device.Event{Signal: device.SignalNone}, err
	}
	return device.Event{Signal: device.SignalKey, Input: runeToInput(r, d.input)}, nil
}

func runeToInput(r rune, in *bufio.Reader) ui.Input {
	switch r {
	case '\r', '\n':
		return ui.Input{Key: ui.KeyEnter}
	case 127, 8:
		return ui.Input{Key: ui.KeyBackspace}
	case 27:
		if in.Buffered() >= 2 {
			b1, _ := in.ReadByte()
			b2, _ := in.ReadByte()
			if b1 == '[' {
				switch b2 {
				case 'A':
					return ui.Input{Key: ui.KeyUp}
				case 'B':
					return ui.Input{Key: ui.KeyDown}
				case 'C':
					return ui.Input{Key: ui.KeyRight}
				case 'D':
					return ui.Input{Key: ui.KeyLeft}
				}
			}
		}
		return ui.Input{Key: ui.KeyEscape}
	default:
		return ui.Input{Key: ui.KeyRune, Rune: r}
	}
}
