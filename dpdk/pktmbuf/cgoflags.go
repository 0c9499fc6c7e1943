package pktmbuf

// #cgo pkg-config: libdpdk
import "C"
