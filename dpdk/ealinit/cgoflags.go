package ealinit

// #cgo pkg-config: libdpdk
import "C"
