package mempool

// #cgo pkg-config: libdpdk
import "C"
