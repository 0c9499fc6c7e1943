package cptr

// #cgo pkg-config: libdpdk
import "C"
