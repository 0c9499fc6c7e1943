package eal

// #cgo pkg-config: libdpdk
import "C"
