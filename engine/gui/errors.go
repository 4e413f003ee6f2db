package gui

import (
	"errors"
	"fmt"

	"github.com/hubastard/grove/engine/logger"
)

var (
	ErrContractViolation = errors.New("element contract violation")
	ErrCallbackPanic     = errors.New("element callback panicked")
	ErrElementAttached   = errors.New("element already attached to a widget")
	ErrElementDestroyed  = errors.New("element destroyed")
)

// ContractError reports an element that broke the geometry contract. The
// element's contribution to the mesh is dropped; the element itself is left
// alone so it can be inspected.
type ContractError struct {
	Element Element
	Group   int
	Reason  string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%T render group %d: %s", e.Element, e.Group, e.Reason)
}

func (e *ContractError) Unwrap() error { return ErrContractViolation }

// CallbackError reports a panic raised by an element while handling an event.
type CallbackError struct {
	Element Element
	Event   string
	Value   any
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%T handling %s: %v", e.Element, e.Event, e.Value)
}

func (e *CallbackError) Unwrap() error { return ErrCallbackPanic }

// report sends err down the error channel: the central log and, if set, the
// manager's error handler.
func (m *Manager) report(err error) {
	logger.Log("gui", err.Error())
	if m.onError != nil {
		m.onError(err)
	}
}

// safeCall runs fn, turning a panic into a CallbackError so dispatch can
// continue with the next recipient.
func (m *Manager) safeCall(e Element, what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.report(&CallbackError{Element: e, Event: what, Value: r})
		}
	}()
	fn()
}
