// Package core owns the GLFW window, its OpenGL context and the event loop
// that drives a Host.
package core

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"orrery/input"
)

func init() {
	runtime.LockOSThread()
}

// Host receives window callbacks, all on the locked main thread with the
// GL context current.
type Host interface {
	Initialize() error
	Resize(width, height int)
	Paint()
	Keyboard(key input.Key, action input.Action)
	Timer()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1024,
		Height:    768,
		Title:     "Solar Viewer",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow opens a window with a forward-compatible OpenGL 4.1 core
// context and makes it current.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}, nil
}

// maxCatchUp bounds how many timer ticks one frame may run after a stall.
const maxCatchUp = 5

// Run initializes host and loops until the window is closed or ctx is
// cancelled. Events are dispatched first, then due timer ticks, then a
// paint and a buffer swap.
func (w *Window) Run(ctx context.Context, host Host, tickInterval time.Duration) error {
	if err := host.Initialize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	w.Handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width, w.Height = width, height
		host.Resize(width, height)
	})
	w.Handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if k := translateKey(key); k != input.KeyUnknown {
			host.Keyboard(k, translateAction(action))
		}
	})

	fw, fh := w.Handle.GetFramebufferSize()
	w.Width, w.Height = fw, fh
	host.Resize(fw, fh)

	ticks := newStepper(tickInterval, maxCatchUp)
	ticks.reset(time.Now())
	for !w.Handle.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		glfw.PollEvents()
		for n := ticks.due(time.Now()); n > 0; n-- {
			host.Timer()
		}
		host.Paint()
		w.Handle.SwapBuffers()
	}
	return nil
}

// Close asks the loop to exit after the current frame.
func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

var keyMap = map[glfw.Key]input.Key{
	glfw.Key1:          input.Key1,
	glfw.Key2:          input.Key2,
	glfw.Key3:          input.Key3,
	glfw.Key4:          input.Key4,
	glfw.Key5:          input.Key5,
	glfw.Key6:          input.Key6,
	glfw.Key7:          input.Key7,
	glfw.Key8:          input.Key8,
	glfw.Key9:          input.Key9,
	glfw.KeyA:          input.KeyA,
	glfw.KeyC:          input.KeyC,
	glfw.KeyD:          input.KeyD,
	glfw.KeyG:          input.KeyG,
	glfw.KeyM:          input.KeyM,
	glfw.KeyP:          input.KeyP,
	glfw.KeyR:          input.KeyR,
	glfw.KeyS:          input.KeyS,
	glfw.KeyT:          input.KeyT,
	glfw.KeyW:          input.KeyW,
	glfw.KeySpace:      input.KeySpace,
	glfw.KeyEscape:     input.KeyEscape,
	glfw.KeyLeft:       input.KeyLeft,
	glfw.KeyRight:      input.KeyRight,
	glfw.KeyUp:         input.KeyUp,
	glfw.KeyDown:       input.KeyDown,
	glfw.KeyEqual:      input.KeyEqual,
	glfw.KeyMinus:      input.KeyMinus,
	glfw.KeyKPAdd:      input.KeyKPAdd,
	glfw.KeyKPSubtract: input.KeyKPSubtract,
}

func translateKey(k glfw.Key) input.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return input.KeyUnknown
}

func translateAction(a glfw.Action) input.Action {
	switch a {
	case glfw.Press:
		return input.Press
	case glfw.Repeat:
		return input.Repeat
	}
	return input.Release
}
