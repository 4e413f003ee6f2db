package gui

import "github.com/hubastard/grove/engine/core"

type MouseEventType int

const (
	MouseIn MouseEventType = iota
	MouseOut
	MouseMove
	MousePress
	MouseRelease
	MouseClick
	MouseDoubleClick
	MouseDragStart
	MouseDrag
	MouseDragEnd
	MouseDragAndDropDropped
)

var mouseEventNames = [...]string{
	"mouse-in", "mouse-out", "mouse-move", "mouse-press", "mouse-release",
	"mouse-click", "mouse-double-click", "mouse-drag-start", "mouse-drag",
	"mouse-drag-end", "mouse-drag-and-drop-dropped",
}

func (t MouseEventType) String() string {
	if t >= 0 && int(t) < len(mouseEventNames) {
		return mouseEventNames[t]
	}
	return "mouse-unknown"
}

// MouseEvent is delivered to elements. Positions are in the coordinate
// space of the receiving element's widget.
type MouseEvent struct {
	Type     MouseEventType
	Position core.Vec2
	Button   core.PointerButton
	Buttons  [core.PointerButtonCount]bool
	Mods     core.Mod

	// Drag events: where the press happened and how far the pointer moved
	// since, in screen pixels.
	DragStart  core.Vec2
	DragAmount core.Vec2

	// Set for MouseDragAndDropDropped.
	DragInfo *core.DragCallbackInfo
}

type TextInputEvent struct {
	Char rune
	Mods core.Mod
}

type CommandEventType int

const (
	// CommandInput carries an editing command in Input.
	CommandInput CommandEventType = iota
	CommandFocusGained
	CommandFocusLost
)

func (t CommandEventType) String() string {
	switch t {
	case CommandInput:
		return "command"
	case CommandFocusGained:
		return "focus-gained"
	case CommandFocusLost:
		return "focus-lost"
	}
	return "command-unknown"
}

type CommandEvent struct {
	Type  CommandEventType
	Input core.CommandType
}

type VirtualButtonEvent struct {
	Button core.VirtualButton
	Device int
}
