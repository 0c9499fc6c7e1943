// Package eal provides bindings of the DPDK Environment Abstraction Layer.
package eal

import (
	"math/rand"
	"sort"

	"github.com/flier/go-dpdk/core/logging"
)

var logger = logging.New("eal")

// Version is the DPDK version string, assigned by package ealinit.
var Version string

// Runtime topology, assigned during ealinit.Init.
var (
	// MainLCore is the lcore designated as main.
	MainLCore LCore
	// Workers lists the worker lcores in ascending ID order.
	Workers LCores
	// Sockets lists the NUMA sockets covered by enabled lcores.
	Sockets []NumaSocket

	// MainThread executes functions on the OS thread where EAL was initialized.
	MainThread PollThread
)

var lcoreToSocket = map[int]int{}

// UpdateLCoreSockets records the lcore to NUMA socket mapping.
// The returned undo function reverts the changes, for mocking in unit tests.
func UpdateLCoreSockets(lcoreSockets map[int]int, mainLCoreID int) (undo func()) {
	prevMain, prevWorkers, prevSockets, prevMap := MainLCore, Workers, Sockets, lcoreToSocket
	undo = func() {
		MainLCore, Workers, Sockets, lcoreToSocket = prevMain, prevWorkers, prevSockets, prevMap
	}

	MainLCore = LCoreFromID(mainLCoreID)
	Workers, Sockets = nil, nil
	lcoreToSocket = map[int]int{}

	seenSockets := map[int]bool{}
	for id, sid := range lcoreSockets {
		lcoreToSocket[id] = sid
		if !seenSockets[sid] {
			seenSockets[sid] = true
			Sockets = append(Sockets, NumaSocketFromID(sid))
		}
		if id == mainLCoreID {
			continue
		}
		Workers = append(Workers, LCoreFromID(id))
	}
	sort.Slice(Workers, func(i, j int) bool { return Workers[i].ID() < Workers[j].ID() })
	sort.Slice(Sockets, func(i, j int) bool { return Sockets[i].ID() < Sockets[j].ID() })

	return
}

// RandomSocket picks a NumaSocket at random among sockets with enabled lcores.
func RandomSocket() NumaSocket {
	if len(Sockets) == 0 {
		return NumaSocket{}
	}
	return Sockets[rand.Intn(len(Sockets))]
}

// PollThread accepts functions for execution on its own thread.
type PollThread interface {
	Post(fn func())
}

// PostMain schedules fn to run on the main thread without waiting for it.
func PostMain(fn func()) { MainThread.Post(fn) }

// CallMain runs fn on the main thread and blocks until it returns.
func CallMain(fn func()) {
	if CurrentLCore() == MainLCore {
		fn()
		return
	}
	done := make(chan struct{})
	PostMain(func() {
		defer close(done)
		fn()
	})
	<-done
}
