package core

// Event model. Platform windows translate OS callbacks into these and the
// engine forwards them to Input, which fans them out to subscribers.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

type EventPointerMove struct{ Pointer PointerEvent }

func (EventPointerMove) isEvent() {}

type EventPointerPress struct{ Pointer PointerEvent }

func (EventPointerPress) isEvent() {}

type EventPointerRelease struct{ Pointer PointerEvent }

func (EventPointerRelease) isEvent() {}

type EventPointerDoubleClick struct{ Pointer PointerEvent }

func (EventPointerDoubleClick) isEvent() {}

type EventTextInput struct{ Text TextInputEvent }

func (EventTextInput) isEvent() {}

type EventCommand struct{ Command CommandType }

func (EventCommand) isEvent() {}

type EventVirtualButton struct {
	Button VirtualButton
	Device int
}

func (EventVirtualButton) isEvent() {}

type EventWindowFocus struct {
	Window  RenderWindow
	Focused bool
}

func (EventWindowFocus) isEvent() {}

type EventMouseLeftWindow struct{ Window RenderWindow }

func (EventMouseLeftWindow) isEvent() {}

// EventDragEnded is emitted by a drag-and-drop source when its payload is
// released over the window. Receivers set Info.Processed.
type EventDragEnded struct{ Drag PointerDrag }

func (EventDragEnded) isEvent() {}

// ---- pointer ----

type PointerButton int

const (
	PointerLeft PointerButton = iota
	PointerRight
	PointerMiddle
	PointerButtonCount
)

func (b PointerButton) String() string {
	switch b {
	case PointerLeft:
		return "left"
	case PointerRight:
		return "right"
	case PointerMiddle:
		return "middle"
	}
	return "unknown"
}

// PointerEvent describes the pointer in screen coordinates.
type PointerEvent struct {
	Screen  Vec2
	Button  PointerButton // button that changed, for press/release
	Buttons [PointerButtonCount]bool
	Mods    Mod
}

func (p PointerEvent) Shift() bool   { return p.Mods&ModShift != 0 }
func (p PointerEvent) Control() bool { return p.Mods&ModCtrl != 0 }
func (p PointerEvent) Alt() bool     { return p.Mods&ModAlt != 0 }

// TextInputEvent carries one typed character.
type TextInputEvent struct {
	Char rune
	Mods Mod
}

// CommandType is a semantic editing command produced from key input.
type CommandType int

const (
	CommandNone CommandType = iota
	CommandBackspace
	CommandDelete
	CommandMoveLeft
	CommandMoveRight
	CommandMoveUp
	CommandMoveDown
	CommandSelectLeft
	CommandSelectRight
	CommandSelectUp
	CommandSelectDown
	CommandSelectAll
	CommandCopy
	CommandCut
	CommandPaste
	CommandUndo
	CommandRedo
	CommandReturn
	CommandConfirm
	CommandTab
	CommandEscape
)

var commandNames = [...]string{
	"none", "backspace", "delete",
	"move-left", "move-right", "move-up", "move-down",
	"select-left", "select-right", "select-up", "select-down", "select-all",
	"copy", "cut", "paste", "undo", "redo",
	"return", "confirm", "tab", "escape",
}

func (c CommandType) String() string {
	if c >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

// VirtualButton is a named, rebindable input (e.g. "Submit" bound to Enter
// and a gamepad face button).
type VirtualButton struct {
	ID   uint32
	Name string
}

// DragCallbackInfo is shared between the drag-and-drop source and the
// receivers of the drop.
type DragCallbackInfo struct {
	Payload   any
	Processed bool
}

// ---- keys ----

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyP
	KeyC
	KeyV
	KeyX
	KeyZ
	KeyY
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// KeyCommand maps a key chord onto an editing command, if any.
func KeyCommand(k Key, mods Mod) CommandType {
	shift := mods&ModShift != 0
	ctrl := mods&(ModCtrl|ModSuper) != 0
	switch k {
	case KeyBackspace:
		return CommandBackspace
	case KeyDelete:
		return CommandDelete
	case KeyLeft:
		if shift {
			return CommandSelectLeft
		}
		return CommandMoveLeft
	case KeyRight:
		if shift {
			return CommandSelectRight
		}
		return CommandMoveRight
	case KeyUp:
		if shift {
			return CommandSelectUp
		}
		return CommandMoveUp
	case KeyDown:
		if shift {
			return CommandSelectDown
		}
		return CommandMoveDown
	case KeyEnter:
		if shift {
			return CommandReturn
		}
		return CommandConfirm
	case KeyTab:
		return CommandTab
	case KeyEscape:
		return CommandEscape
	}
	if !ctrl {
		return CommandNone
	}
	switch k {
	case KeyA:
		return CommandSelectAll
	case KeyC:
		return CommandCopy
	case KeyX:
		return CommandCut
	case KeyV:
		return CommandPaste
	case KeyZ:
		return CommandUndo
	case KeyY:
		return CommandRedo
	}
	return CommandNone
}
