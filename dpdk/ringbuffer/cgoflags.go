package ringbuffer

// #cgo pkg-config: libdpdk
import "C"
