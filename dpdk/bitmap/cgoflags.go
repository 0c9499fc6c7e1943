package bitmap

// #cgo pkg-config: libdpdk
import "C"
