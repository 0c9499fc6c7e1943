// Package ealinit initializes DPDK EAL and the main lcore executor.
package ealinit

/*
#include "../../csrc/core/common.h"
#include <rte_eal.h>
#include <rte_lcore.h>
#include <rte_version.h>
*/
import "C"
import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealconfig"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

var logger = logging.New("ealinit")

func init() { ealconfig.PmdPath = C.RTE_EAL_PMD_PATH }

var (
	initOnce      sync.Once
	initErr       error
	remainingArgs []string
)

// mainThread runs posted functions on the OS thread that initialized EAL.
// DPDK designates that thread as the main lcore.
type mainThread struct {
	queue chan func()
}

func (th *mainThread) Post(fn func()) {
	th.queue <- fn
}

func (th *mainThread) serve() {
	for fn := range th.queue {
		fn()
	}
}

// Init initializes DPDK.
// args should not include the program name.
// Returned remainingArgs contains arguments after the "--" separator, if any.
// Calling this function more than once replays the first outcome.
func Init(args []string) ([]string, error) {
	initOnce.Do(func() {
		initLogStream()
		syncLogLevels()

		th := &mainThread{queue: make(chan func(), 64)}
		done := make(chan error)
		go func() {
			runtime.LockOSThread()
			rem, e := initEal(args)
			if e == nil {
				remainingArgs, eal.MainThread = rem, th
			}
			done <- e
			if e == nil {
				th.serve() // never returns
			}
		}()

		if initErr = <-done; initErr != nil {
			return
		}

		syncLogLevels()
		rand.Seed(int64(eal.Rand()))
		eal.CallMain(func() { logger.Debug("main lcore executor ready") })
	})
	if initErr != nil {
		logger.Error("EAL initialization failed", zap.Error(initErr))
	}
	return remainingArgs, initErr
}

func initEal(args []string) (rem []string, e error) {
	entry := logger.With(zap.String("args", shellquote.Join(args...)))

	exe := os.Args[0]
	if self, e := os.Executable(); e == nil {
		exe = self
	}
	argv := append([]string{exe}, args...)
	cargs := cptr.NewCArgs(argv)
	defer cargs.Close()

	C.rte_mp_disable()
	res := int(C.rte_eal_init(C.int(cargs.Argc), (**C.char)(cargs.Argv)))
	if res < 0 {
		return nil, fmt.Errorf("rte_eal_init: %w", eal.GetErrno())
	}
	rem = argv[res:]
	if len(rem) > 0 && rem[0] == "--" {
		rem = rem[1:]
	}

	eal.Version = C.GoString(C.rte_version())
	eal.UpdateLCoreSockets(gatherLCoreSockets(), int(C.rte_get_main_lcore()))
	eal.InitTscUnit()

	entry.Info("EAL ready",
		zap.String("version", eal.Version),
		eal.MainLCore.ZapField("main"),
		zap.Any("sockets", eal.Sockets),
		zap.Array("workers", eal.Workers),
	)
	return rem, nil
}

// gatherLCoreSockets maps every enabled lcore, main included, to its NUMA socket.
func gatherLCoreSockets() map[int]int {
	sockets := map[int]int{}
	for id := 0; id < C.RTE_MAX_LCORE; id++ {
		if C.rte_lcore_is_enabled(C.uint(id)) != 0 {
			sockets[id] = int(C.rte_lcore_to_socket_id(C.uint(id)))
		}
	}
	return sockets
}
