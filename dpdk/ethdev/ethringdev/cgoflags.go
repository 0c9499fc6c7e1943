package ethringdev

// #cgo pkg-config: libdpdk
import "C"
