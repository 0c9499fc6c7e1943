package eal

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
)

// NumaSocket identifies a NUMA socket.
// The zero value means SOCKET_ID_ANY.
type NumaSocket struct {
	v int // ID plus one, so that the zero value is SOCKET_ID_ANY
}

// NumaSocketFromID converts a socket ID to NumaSocket.
func NumaSocketFromID(id int) NumaSocket {
	if id < 0 || id > C.RTE_MAX_NUMA_NODES {
		return NumaSocket{}
	}
	return NumaSocket{v: id + 1}
}

// ID returns the NUMA socket ID.
func (socket NumaSocket) ID() int { return socket.v - 1 }

// IsAny reports whether this is SOCKET_ID_ANY.
func (socket NumaSocket) IsAny() bool { return socket.v == 0 }

// Match reports whether the two sockets are equal or either is SOCKET_ID_ANY.
func (socket NumaSocket) Match(other NumaSocket) bool {
	return socket.v == other.v || socket.IsAny() || other.IsAny()
}

func (socket NumaSocket) String() string {
	if socket.v == 0 {
		return "any"
	}
	return strconv.Itoa(socket.ID())
}

// MarshalJSON encodes the socket ID as a number, with SOCKET_ID_ANY as null.
func (socket NumaSocket) MarshalJSON() ([]byte, error) {
	if socket.IsAny() {
		return []byte("null"), nil
	}
	return json.Marshal(socket.ID())
}

// ZapField returns a zap.Field for logging.
func (socket NumaSocket) ZapField(key string) zap.Field {
	if socket.IsAny() {
		return zap.String(key, "any")
	}
	return zap.Int(key, socket.ID())
}

// WithNumaSocket is implemented by types residing on or preferring a NUMA socket.
type WithNumaSocket interface {
	NumaSocket() NumaSocket
}

// NumaSocketsOf returns the NUMA socket of each object in a list.
func NumaSocketsOf[T WithNumaSocket](list []T) []NumaSocket {
	sockets := make([]NumaSocket, len(list))
	for i, obj := range list {
		sockets[i] = obj.NumaSocket()
	}
	return sockets
}
