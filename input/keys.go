// Package input defines window-system independent key and action codes.
// The GLFW window translates its events into these before dispatching them
// to a host, so command handling can be exercised without a display.
package input

type Key int

const (
	KeyUnknown Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyC
	KeyD
	KeyG
	KeyM
	KeyP
	KeyR
	KeyS
	KeyT
	KeyW
	KeySpace
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEqual
	KeyMinus
	KeyKPAdd
	KeyKPSubtract
)

// Digit returns the key for d in 1..9, KeyUnknown otherwise.
func Digit(d int) Key {
	if d < 1 || d > 9 {
		return KeyUnknown
	}
	return Key1 + Key(d-1)
}

// IsDigit reports whether k is one of Key1..Key9 and its value.
func (k Key) IsDigit() (int, bool) {
	if k >= Key1 && k <= Key9 {
		return int(k-Key1) + 1, true
	}
	return 0, false
}

type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Triggers reports whether the action should fire a command. Held keys
// repeat the command.
func (a Action) Triggers() bool {
	return a == Press || a == Repeat
}
