package core

// Signal is an event source with ordered subscribers. Not safe for
// concurrent use; events are delivered on the main thread.
type Signal[T any] struct {
	slots  []slot[T]
	nextID uint32
}

type slot[T any] struct {
	id uint32
	fn func(T)
}

// Conn is a subscription handle returned by Connect.
type Conn struct {
	id         uint32
	disconnect func(id uint32)
}

// Disconnect removes the subscription. Calling it twice is harmless.
func (c *Conn) Disconnect() {
	if c == nil || c.disconnect == nil {
		return
	}
	c.disconnect(c.id)
	c.disconnect = nil
}

// Connected reports whether the subscription is still live.
func (c *Conn) Connected() bool { return c != nil && c.disconnect != nil }

func (s *Signal[T]) Connect(fn func(T)) *Conn {
	s.nextID++
	s.slots = append(s.slots, slot[T]{id: s.nextID, fn: fn})
	return &Conn{id: s.nextID, disconnect: s.remove}
}

func (s *Signal[T]) remove(id uint32) {
	for i := range s.slots {
		if s.slots[i].id == id {
			// copy-on-write so an Emit in progress keeps its snapshot
			next := make([]slot[T], 0, len(s.slots)-1)
			next = append(next, s.slots[:i]...)
			s.slots = append(next, s.slots[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber connected at the time of the call.
func (s *Signal[T]) Emit(v T) {
	for _, sl := range s.slots {
		sl.fn(v)
	}
}

// Len returns the number of live subscribers.
func (s *Signal[T]) Len() int { return len(s.slots) }

// ---- input hub ----

type PointerDrag struct {
	Pointer PointerEvent
	Info    *DragCallbackInfo
}

type VirtualButtonPress struct {
	Button VirtualButton
	Device int
}

// Input tracks key and pointer state and republishes platform events as
// typed signals.
type Input struct {
	PointerMoved         Signal[PointerEvent]
	PointerPressed       Signal[PointerEvent]
	PointerReleased      Signal[PointerEvent]
	PointerDoubleClicked Signal[PointerEvent]
	TextInput            Signal[TextInputEvent]
	InputCommand         Signal[CommandType]
	VirtualButtonDown    Signal[VirtualButtonPress]
	DragEnded            Signal[PointerDrag]
	WindowFocusGained    Signal[RenderWindow]
	WindowFocusLost      Signal[RenderWindow]
	MouseLeftWindow      Signal[RenderWindow]

	keys    map[Key]bool
	pointer PointerEvent
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
		if e.Down {
			if cmd := KeyCommand(e.Key, e.Mods); cmd != CommandNone {
				in.InputCommand.Emit(cmd)
			}
		}
	case EventPointerMove:
		in.pointer = e.Pointer
		in.PointerMoved.Emit(e.Pointer)
	case EventPointerPress:
		in.pointer = e.Pointer
		in.PointerPressed.Emit(e.Pointer)
	case EventPointerRelease:
		in.pointer = e.Pointer
		in.PointerReleased.Emit(e.Pointer)
	case EventPointerDoubleClick:
		in.PointerDoubleClicked.Emit(e.Pointer)
	case EventTextInput:
		in.TextInput.Emit(e.Text)
	case EventCommand:
		in.InputCommand.Emit(e.Command)
	case EventVirtualButton:
		in.VirtualButtonDown.Emit(VirtualButtonPress{Button: e.Button, Device: e.Device})
	case EventWindowFocus:
		if e.Focused {
			in.WindowFocusGained.Emit(e.Window)
		} else {
			in.WindowFocusLost.Emit(e.Window)
		}
	case EventMouseLeftWindow:
		in.MouseLeftWindow.Emit(e.Window)
	case EventDragEnded:
		in.pointer = e.Drag.Pointer
		in.DragEnded.Emit(e.Drag)
	}
}

func (in *Input) IsKeyDown(k Key) bool  { return in.keys[k] }
func (in *Input) Pointer() PointerEvent { return in.pointer }
