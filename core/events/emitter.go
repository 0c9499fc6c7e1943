// Package events provides an in-process event emitter.
package events

import (
	"io"

	"github.com/chuckpreslar/emission"
)

// Emitter dispatches events to registered listeners.
// It wraps emission.Emitter so that a registration can be canceled through an io.Closer.
type Emitter struct {
	*emission.Emitter
}

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{Emitter: emission.NewEmitter()}
}

// On invokes listener every time event occurs.
// Closing the returned io.Closer cancels the registration.
func (em *Emitter) On(event, listener any) io.Closer {
	em.Emitter.On(event, listener)
	return cancelFunc(func() { em.Emitter.Off(event, listener) })
}

// Once invokes listener the first time event occurs.
// Closing the returned io.Closer cancels the registration.
func (em *Emitter) Once(event, listener any) io.Closer {
	em.Emitter.Once(event, listener)
	return cancelFunc(func() { em.Emitter.Off(event, listener) })
}

type cancelFunc func()

func (f cancelFunc) Close() error {
	f()
	return nil
}
