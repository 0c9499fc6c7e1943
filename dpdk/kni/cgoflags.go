package kni

// #cgo pkg-config: libdpdk

import "C"
