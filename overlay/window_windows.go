//go:build windows

package overlay

import (
	"fmt"
	"image"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"screen-measure/monitor"
)

// platformWindow is one monitor's Win32 overlay: a topmost popup
// covering the monitor, painted from the renderer's composed frames.
type platformWindow struct {
	hwnd      win.HWND
	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	frame *image.RGBA
}

var (
	windowsMu sync.Mutex
	windows   = map[win.HWND]*platformWindow{}
)

// NewWindow creates the overlay window for a monitor. The window runs
// its own message loop on a locked OS thread.
func NewWindow(mon monitor.Descriptor) (Window, error) {
	w := &platformWindow{
		events: make(chan Event, 16),
		closed: make(chan struct{}),
	}
	created := make(chan error, 1)
	go w.windowLoop(mon, created)
	if err := <-created; err != nil {
		return nil, err
	}
	return w, nil
}

func (w *platformWindow) windowLoop(mon monitor.Descriptor, created chan<- error) {
	// Win32 windows have thread affinity.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer w.Close()

	classNameStr := fmt.Sprintf("MeasureOverlay_%d_%d", mon.ID, time.Now().UnixNano())
	className := syscall.StringToUTF16Ptr(classNameStr)
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
		HbrBackground: 0, // painted entirely by us
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		created <- fmt.Errorf("failed to register overlay window class")
		return
	}
	defer win.UnregisterClass(className)

	hwnd := win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		className,
		syscall.StringToUTF16Ptr("Screen Measure"),
		win.WS_POPUP|win.WS_VISIBLE,
		int32(mon.Bounds.Min.X), int32(mon.Bounds.Min.Y),
		int32(mon.Bounds.Dx()), int32(mon.Bounds.Dy()),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		created <- fmt.Errorf("failed to create overlay window for monitor %d", mon.ID)
		return
	}
	w.hwnd = hwnd
	windowsMu.Lock()
	windows[hwnd] = w
	windowsMu.Unlock()
	defer func() {
		windowsMu.Lock()
		delete(windows, hwnd)
		windowsMu.Unlock()
	}()

	win.ShowWindow(hwnd, win.SW_SHOW)
	win.SetForegroundWindow(hwnd)
	win.UpdateWindow(hwnd)
	created <- nil

	var msg win.MSG
	for {
		switch win.GetMessage(&msg, 0, 0, 0) {
		case 0, -1:
			win.DestroyWindow(hwnd)
			return
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
		select {
		case <-w.closed:
			win.DestroyWindow(hwnd)
			return
		default:
		}
	}
}

func (w *platformWindow) Handle() uintptr { return uintptr(w.hwnd) }

func (w *platformWindow) Present(img *image.RGBA) {
	w.mu.Lock()
	w.frame = img
	hwnd := w.hwnd
	w.mu.Unlock()
	if hwnd != 0 {
		win.InvalidateRect(hwnd, nil, false)
	}
}

func (w *platformWindow) Events() <-chan Event { return w.events }

func (w *platformWindow) Closed() <-chan struct{} { return w.closed }

func (w *platformWindow) Close() {
	w.closeOnce.Do(func() {
		close(w.closed)
		if w.hwnd != 0 {
			win.PostMessage(w.hwnd, win.WM_CLOSE, 0, 0)
		}
	})
}

// post queues an event, dropping it when the renderer is behind; input
// is sampled again next frame anyway.
func (w *platformWindow) post(ev Event) {
	select {
	case w.events <- ev:
	default:
	}
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	windowsMu.Lock()
	w := windows[hwnd]
	windowsMu.Unlock()
	if w == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_MOUSEMOVE:
		w.post(Event{Kind: EventPointerMove, Pos: lparamPoint(lParam)})
		return 0

	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		w.post(Event{Kind: EventPointerDown, Pos: lparamPoint(lParam)})
		return 0

	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		w.post(Event{Kind: EventPointerUp, Pos: lparamPoint(lParam)})
		return 0

	case win.WM_MOUSEWHEEL:
		delta := int16(win.HIWORD(uint32(wParam)))
		w.post(Event{Kind: EventWheel, WheelSteps: int(delta) / 120})
		return 0

	case win.WM_KEYDOWN:
		switch wParam {
		case win.VK_ESCAPE:
			w.post(Event{Kind: EventKey, Key: KeyEscape})
		case win.VK_UP:
			w.post(Event{Kind: EventKey, Key: KeyUp})
		case win.VK_DOWN:
			w.post(Event{Kind: EventKey, Key: KeyDown})
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		w.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_NCHITTEST:
		// Whole window is client area so it receives mouse input.
		return uintptr(win.HTCLIENT)

	case win.WM_CLOSE:
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		w.Close()
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// paint blits the latest composed frame through a DIB section,
// converting RGBA to the BGRA layout GDI expects.
func (w *platformWindow) paint(hdc win.HDC) {
	w.mu.Lock()
	frame := w.frame
	w.mu.Unlock()
	if frame == nil {
		return
	}

	width := frame.Bounds().Dx()
	height := frame.Bounds().Dy()

	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)

	bitmapInfo := win.BITMAPINFO{
		BmiHeader: win.BITMAPINFOHEADER{
			BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
			BiWidth:       int32(width),
			BiHeight:      -int32(height), // top-down
			BiPlanes:      1,
			BiBitCount:    32,
			BiCompression: win.BI_RGB,
		},
	}

	var pBits unsafe.Pointer
	hBitmap := win.CreateDIBSection(memDC, &bitmapInfo.BmiHeader, win.DIB_RGB_COLORS, &pBits, 0, 0)
	if hBitmap == 0 {
		return
	}
	defer win.DeleteObject(win.HGDIOBJ(hBitmap))

	oldBitmap := win.SelectObject(memDC, win.HGDIOBJ(hBitmap))
	defer win.SelectObject(memDC, oldBitmap)

	dst := unsafe.Slice((*byte)(pBits), width*height*4)
	src := frame.Pix
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i] = src[i+2]   // B
		dst[i+1] = src[i+1] // G
		dst[i+2] = src[i]   // R
		dst[i+3] = src[i+3] // A
	}

	win.BitBlt(hdc, 0, 0, int32(width), int32(height), memDC, 0, 0, win.SRCCOPY)
}

func lparamPoint(lParam uintptr) image.Point {
	return image.Point{
		X: int(int16(win.LOWORD(uint32(lParam)))),
		Y: int(int16(win.HIWORD(uint32(lParam)))),
	}
}
