package spinlock

// #cgo pkg-config: libdpdk
import "C"
