package ethdev

// #cgo pkg-config: libdpdk
import "C"
