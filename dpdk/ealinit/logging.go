package ealinit

/*
#include "../../csrc/core/common.h"
*/
import "C"
import (
	"bufio"
	"bytes"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/dpdk/eal"
	"go.uber.org/zap"
)

// logPkgDPDK is the logging package name assigned to messages from DPDK itself.
const logPkgDPDK = "DPDK"

var logStream *cptr.FilePipe

// syncLogLevels maps the DPDK log level onto the level configured for the DPDK pseudo-package.
func syncLogLevels() {
	pl := logging.GetLevel(logPkgDPDK)
	set := func() {
		lvl := dpdkLogLevel(pl.Level())
		pattern := C.CString("*")
		defer C.free(unsafe.Pointer(pattern))
		C.rte_log_set_level_pattern(pattern, lvl)
		C.rte_log_set_global_level(lvl)
	}
	pl.SetCallback(set)
	set()
}

var dpdkLogLevels = map[byte]C.uint32_t{
	'V': C.RTE_LOG_DEBUG,
	'D': C.RTE_LOG_INFO,
	'I': C.RTE_LOG_NOTICE,
	'W': C.RTE_LOG_WARNING,
	'E': C.RTE_LOG_ERR,
	'F': C.RTE_LOG_CRIT,
	'N': C.RTE_LOG_ALERT,
}

func dpdkLogLevel(letter byte) C.uint32_t {
	if v, ok := dpdkLogLevels[letter]; ok {
		return v
	}
	return C.RTE_LOG_NOTICE
}

// initLogStream redirects the DPDK log stream into zap.
// Writes never block the dataplane; messages are lost if the pipe is full.
func initLogStream() {
	pipe, e := cptr.NewFilePipe(cptr.FilePipeConfig{NonBlock: true})
	if e != nil {
		logger.Error("cptr.NewFilePipe", zap.Error(e))
		return
	}
	logStream = pipe

	if res := C.rte_openlog_stream((*C.FILE)(logStream.Writer)); res != 0 {
		logger.Error("rte_openlog_stream", zap.Error(eal.MakeErrno(res)))
		return
	}

	go pumpLogStream()
}

func pumpLogStream() {
	l := logging.Named(logPkgDPDK)
	rd := bufio.NewReader(logStream.Reader)
	for {
		line, e := rd.ReadBytes('\n')
		if line = bytes.TrimRight(line, "\r\n"); len(line) > 0 {
			l.Info(string(line))
		}
		if e != nil {
			return
		}
	}
}
