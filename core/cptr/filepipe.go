package cptr

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"errors"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// FilePipeConfig contains options for NewFilePipe.
type FilePipeConfig struct {
	// NonBlock sets the writer to non-blocking mode.
	// Writes are lost instead of blocking the writer when the pipe is full.
	NonBlock bool
}

// FilePipe is a pipe where the writer end is opened as C FILE* stream.
type FilePipe struct {
	// Reader is the reader end of the pipe.
	Reader *os.File

	// Writer is the writer end of the pipe, as C FILE* pointer.
	// It is line buffered.
	Writer unsafe.Pointer
}

// CloseWriter closes the writer end.
func (fp *FilePipe) CloseWriter() error {
	if fp.Writer == nil {
		return nil
	}
	C.fclose((*C.FILE)(fp.Writer))
	fp.Writer = nil
	return nil
}

// Close closes both ends of the pipe.
func (fp *FilePipe) Close() error {
	fp.CloseWriter()
	return fp.Reader.Close()
}

// NewFilePipe creates a pipe whose writer end is a C FILE* stream.
func NewFilePipe(cfg FilePipeConfig) (*FilePipe, error) {
	fds := make([]int, 2)
	if e := syscall.Pipe(fds); e != nil {
		return nil, e
	}
	if cfg.NonBlock {
		if e := unix.SetNonblock(fds[1], true); e != nil {
			syscall.Close(fds[0])
			syscall.Close(fds[1])
			return nil, e
		}
	}

	modeC := C.CString("w")
	defer C.free(unsafe.Pointer(modeC))
	fp := C.fdopen(C.int(fds[1]), modeC)
	if fp == nil {
		syscall.Close(fds[0])
		syscall.Close(fds[1])
		return nil, errors.New("fdopen failed")
	}
	C.setvbuf(fp, nil, C._IOLBF, 0)

	return &FilePipe{
		Reader: os.NewFile(uintptr(fds[0]), "filepipe"),
		Writer: unsafe.Pointer(fp),
	}, nil
}
