package ealthread

import (
	"reflect"
	"time"
)

// Stopper tells a running thread to stop.
type Stopper interface {
	// BeforeWait is invoked before waiting for the lcore to finish.
	BeforeWait()

	// AfterWait is invoked after the lcore has finished.
	AfterWait()
}

var sleepEnabled = false

// EnableSleep makes StopChan.Continue sleep briefly on every poll.
// Floating lcore threads can then share a processor, at the cost of throughput.
func EnableSleep() {
	sleepEnabled = true
}

// StopChan signals a stop request by sending to a channel.
// The thread main function must check Continue() once per iteration.
type StopChan chan bool

// NewStopChan constructs a StopChan.
func NewStopChan() StopChan {
	return make(StopChan)
}

// Continue returns true unless a stop has been requested.
// It must be invoked from the running thread.
func (stop StopChan) Continue() bool {
	select {
	case <-stop:
		return false
	default:
	}
	if sleepEnabled {
		time.Sleep(time.Microsecond)
	}
	return true
}

// RequestStop asks the thread to stop.
// It can be used without a Thread.
func (stop StopChan) RequestStop() { stop <- true }

// BeforeWait signals the stop request.
func (stop StopChan) BeforeWait() { stop.RequestStop() }

// AfterWait implements Stopper.
func (stop StopChan) AfterWait() {}

// StopClose signals a stop request by closing a channel.
// A thread stopped this way is not restartable.
type StopClose struct {
	ch reflect.Value
}

// NewStopClose wraps a send-capable channel in a StopClose.
func NewStopClose(ch any) StopClose {
	v := reflect.ValueOf(ch)
	if v.Type().ChanDir()&reflect.SendDir == 0 {
		panic("NewStopClose: not a send-capable channel")
	}
	return StopClose{ch: v}
}

// BeforeWait closes the channel to request a stop.
func (stop StopClose) BeforeWait() { stop.ch.Close() }

// AfterWait implements Stopper.
func (stop StopClose) AfterWait() {}
