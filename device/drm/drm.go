// Package drm is a device.Device backed by the Linux Direct Rendering
// Manager: a "dumb" scanout buffer allocated in kernel memory, mmap'd,
// and linked to one connector's best mode. Grounded on
// _examples/original_source/cairodrm.c/.h (spec.md §4.I), scoped down
// from its full multi-connector mirroring algorithm to the single best
// connected connector — see DESIGN.md for why. Libraries:
// golang.org/x/sys/unix, the same ioctl/mmap dependency fbdev uses (no
// DRM-specific Go binding exists in the retrieval pack, so the ioctl
// structs are reproduced locally, as fbdev already does for fbdev
// ioctls).
package drm

import (
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

const (
	drmIoctlModeGetResources = 0xc04064a0
	drmIoctlModeGetConnector = 0xc05064a7
	drmIoctlModeGetEncoder   = 0xc01464a6
	drmIoctlModeGetCrtc      = 0xc06c64a1
	drmIoctlModeSetCrtc      = 0xc06c64a2
	drmIoctlModeCreateDumb   = 0xc02064b2
	drmIoctlModeMapDumb      = 0xc01064b3
	drmIoctlModeDestroyDumb  = 0xc00464b4
	drmIoctlModeAddFB        = 0xc01c64a8
	drmIoctlModeRmFB         = 0xc00464a9

	drmModeConnected = 1

	maxConnectors = 16
	maxEncoders   = 16
	maxModes      = 64
)

type drmModeCard struct {
	FbID    []uint32
	CrtcID  []uint32
	ConnID  []uint32
	EncID   []uint32
}

type drmModeModeinfo struct {
	Clock                    uint32
	Hdisplay, HsyncStart     uint16
	HsyncEnd, Htotal, Hskew  uint16
	Vdisplay, VsyncStart     uint16
	VsyncEnd, Vtotal, Vscan  uint16
	Vrefresh                 uint32
	Flags, Type              uint32
	Name                     [32]byte
}

type drmModeGetResources struct {
	FbIDPtr, CrtcIDPtr, ConnIDPtr, EncIDPtr                     uint64
	CountFbs, CountCrtcs, CountConns, CountEncs                 uint32
	MinWidth, MaxWidth, MinHeight, MaxHeight                    uint32
}

type drmModeGetConnector struct {
	EncodersPtr, ModesPtr, PropsPtr, PropValuesPtr uint64
	CountModes                                     uint32
	CountProps                                     uint32
	CountEncoders                                  uint32
	EncoderID, ConnectorID                         uint32
	ConnectorType, ConnectorTypeID                 uint32
	Connection                                     uint32
	MmWidth, MmHeight                              uint32
	Subpixel                                       uint32
	Pad                                             uint32
}

type drmModeGetEncoder struct {
	EncoderID   uint32
	EncoderType uint32
	CrtcID      uint32
	PossibleCrtcs, PossibleClones uint32
}

type drmModeCrtc struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CrtcID           uint32
	FbID             uint32
	X, Y             uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             drmModeModeinfo
}

type drmModeCreateDumb struct {
	Height, Width uint32
	Bpp, Flags    uint32
	Handle        uint32
	Pitch         uint32
	Size          uint64
}

type drmModeMapDumb struct {
	Handle uint32
	Pad    uint32
	Offset uint64
}

type drmModeDestroyDumb struct {
	Handle uint32
}

type drmModeFBCmd struct {
	FbID                  uint32
	Width, Height         uint32
	Pitch                 uint32
	Bpp, Depth            uint32
	Handle                uint32
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Device drives one DRM dumb-buffer scanout linked to its best
// connected connector's highest-resolution mode.
type Device struct {
	fd     int
	pixels []byte
	width  int
	height int
	pitch  int
	bpp    int

	fbID      uint32
	handle    uint32
	crtcID    uint32
	connID    uint32
	prevCrtc  drmModeCrtc

	canvas *swcanvas.Canvas

	termFD   int
	oldState *term.State
}

// Open links a dumb buffer to one connector's best mode on devicePath
// (typically /dev/dri/card0): among the connected connectors it picks the
// one whose best mode has the largest area. It drives that single
// connector only; the output is not mirrored onto other connectors.
func Open(devicePath string) (*Device, error) {
	fd, err := unix.Open(devicePath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("drm: open %s: %w", devicePath, err)
	}

	connIDs := make([]uint32, maxConnectors)
	crtcIDs := make([]uint32, maxConnectors)
	encIDs := make([]uint32, maxEncoders)
	res := drmModeGetResources{
		ConnIDPtr: uint64(uintptr(unsafe.Pointer(&connIDs[0]))),
		CrtcIDPtr: uint64(uintptr(unsafe.Pointer(&crtcIDs[0]))),
		EncIDPtr:  uint64(uintptr(unsafe.Pointer(&encIDs[0]))),
	}
	// query counts first, the two-ioctl pattern every drmMode_Get* call
	// follows: first to learn sizes, again with buffers sized to match.
	if err := ioctl(fd, drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_GETRESOURCES: %w", err)
	}
	if res.CountConns == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: no connectors")
	}
	res.ConnIDPtr = uint64(uintptr(unsafe.Pointer(&connIDs[0])))
	res.CrtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	res.EncIDPtr = uint64(uintptr(unsafe.Pointer(&encIDs[0])))
	if err := ioctl(fd, drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_GETRESOURCES: %w", err)
	}

	var chosenConn drmModeGetConnector
	var chosenMode drmModeModeinfo
	found := false
	modes := make([]drmModeModeinfo, maxModes)
	for i := uint32(0); i < res.CountConns && int(i) < maxConnectors; i++ {
		conn := drmModeGetConnector{
			ConnectorID: connIDs[i],
			ModesPtr:    uint64(uintptr(unsafe.Pointer(&modes[0]))),
		}
		if err := ioctl(fd, drmIoctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
			continue
		}
		if conn.Connection != drmModeConnected || conn.CountModes == 0 {
			continue
		}
		conn.ModesPtr = uint64(uintptr(unsafe.Pointer(&modes[0])))
		if err := ioctl(fd, drmIoctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
			continue
		}
		best := bestMode(modes[:min(int(conn.CountModes), maxModes)])
		if !found || int(best.Hdisplay)*int(best.Vdisplay) > int(chosenMode.Hdisplay)*int(chosenMode.Vdisplay) {
			chosenConn, chosenMode, found = conn, best, true
		}
	}
	if !found {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: no connected connector with a usable mode")
	}

	enc := drmModeGetEncoder{EncoderID: chosenConn.EncoderID}
	if err := ioctl(fd, drmIoctlModeGetEncoder, unsafe.Pointer(&enc)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_GETENCODER: %w", err)
	}

	width, height := int(chosenMode.Hdisplay), int(chosenMode.Vdisplay)
	create := drmModeCreateDumb{Width: uint32(width), Height: uint32(height), Bpp: 32}
	if err := ioctl(fd, drmIoctlModeCreateDumb, unsafe.Pointer(&create)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_CREATE_DUMB: %w", err)
	}

	fbcmd := drmModeFBCmd{Width: uint32(width), Height: uint32(height), Pitch: create.Pitch, Bpp: 32, Depth: 24, Handle: create.Handle}
	if err := ioctl(fd, drmIoctlModeAddFB, unsafe.Pointer(&fbcmd)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_ADDFB: %w", err)
	}

	mapdumb := drmModeMapDumb{Handle: create.Handle}
	if err := ioctl(fd, drmIoctlModeMapDumb, unsafe.Pointer(&mapdumb)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_MAP_DUMB: %w", err)
	}

	mem, err := unix.Mmap(fd, int64(mapdumb.Offset), int(create.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("drm: mmap: %w", err)
	}

	var prev drmModeCrtc
	prev.CrtcID = enc.CrtcID
	ioctl(fd, drmIoctlModeGetCrtc, unsafe.Pointer(&prev))

	crtc := drmModeCrtc{
		CrtcID:           enc.CrtcID,
		FbID:             fbcmd.FbID,
		CountConnectors:  1,
		SetConnectorsPtr: uint64(uintptr(unsafe.Pointer(&chosenConn.ConnectorID))),
		Mode:             chosenMode,
		ModeValid:        1,
	}
	if err := ioctl(fd, drmIoctlModeSetCrtc, unsafe.Pointer(&crtc)); err != nil {
		unix.Munmap(mem)
		unix.Close(fd)
		return nil, fmt.Errorf("drm: DRM_IOCTL_MODE_SETCRTC: %w", err)
	}

	d := &Device{
		fd:       fd,
		pixels:   mem,
		width:    width,
		height:   height,
		pitch:    int(create.Pitch),
		bpp:      4,
		fbID:     fbcmd.FbID,
		handle:   create.Handle,
		crtcID:   enc.CrtcID,
		connID:   chosenConn.ConnectorID,
		prevCrtc: prev,
		termFD:   int(os.Stdin.Fd()),
	}
	d.canvas = swcanvas.New(d)
	if state, err := term.MakeRaw(d.termFD); err == nil {
		d.oldState = state
	}
	return d, nil
}

func bestMode(modes []drmModeModeinfo) drmModeModeinfo {
	var best drmModeModeinfo
	for _, m := range modes {
		if int(m.Hdisplay)*int(m.Vdisplay) > int(best.Hdisplay)*int(best.Vdisplay) {
			best = m
		}
	}
	return best
}

// Finish restores the previous crtc-connector link, removes the dumb
// framebuffer and releases its memory, mirroring cairodrm_finish.
func (d *Device) Finish() {
	if d.oldState != nil {
		term.Restore(d.termFD, d.oldState)
	}
	unix.Munmap(d.pixels)
	crtc := d.prevCrtc
	crtc.SetConnectorsPtr = uint64(uintptr(unsafe.Pointer(&d.connID)))
	crtc.CountConnectors = 1
	ioctl(d.fd, drmIoctlModeSetCrtc, unsafe.Pointer(&crtc))
	ioctl(d.fd, drmIoctlModeRmFB, unsafe.Pointer(&d.fbID))
	destroy := drmModeDestroyDumb{Handle: d.handle}
	ioctl(d.fd, drmIoctlModeDestroyDumb, unsafe.Pointer(&destroy))
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

// Flush does nothing: the canvas draws straight into the mapped dumb
// buffer, which is the scanout buffer, and no dirty-FB call is made.
func (d *Device) Flush() {}

func (d *Device) PixelWidth() int  { return d.width }
func (d *Device) PixelHeight() int { return d.height }

// SetPixel writes one RGB24 pixel (0..1 components) at (x, y).
func (d *Device) SetPixel(x, y int, r, g, b float64) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	off := y*d.pitch + x*d.bpp
	if off < 0 || off+d.bpp > len(d.pixels) {
		return
	}
	d.pixels[off] = byte(b * 255)
	d.pixels[off+1] = byte(g * 255)
	d.pixels[off+2] = byte(r * 255)
	d.pixels[off+3] = 0
}

// Input blocks for at most timeout reading one keystroke from the
// controlling terminal, the same stdin-based input path fbdev uses
// (the DRM scanout itself has no input device of its own).
func (d *Device) Input(timeout time.Duration) (device.Event, error) {
	if timeout >= 0 {
		deadline := time.Now().Add(timeout)
		buf := make([]byte, 1)
		for {
			unix.SetNonblock(d.termFD, true)
			n, err := unix.Read(d.termFD, buf)
			unix.SetNonblock(d.termFD, false)
			if n > 0 {
				return device.Event{Signal: device.SignalKey, Input: ui.Input{Key: ui.KeyRune, Rune: rune(buf[0])}}, nil
			}
			if err != nil && err != unix.EAGAIN {
				return device.Event{Signal: device.SignalNone}, err
			}
			if time.Now().After(deadline) {
				return device.Event{Signal: device.SignalTimeout}, nil
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	buf := make([]byte, 1)
	if _, err := unix.Read(d.termFD, buf); err != nil {
		return device.Event{Signal: device.SignalNone}, err
	}
	return device.Event{Signal: device.SignalKey, Input: ui.Input{Key: ui.KeyRune, Rune: rune(buf[0])}}, nil
}
