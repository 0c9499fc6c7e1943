// Package ealtestenv prepares EAL for use inside unit tests.
package ealtestenv

import (
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/flier/go-dpdk/core/hwinfo"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ealconfig"
	"github.com/flier/go-dpdk/dpdk/ealinit"
	"github.com/flier/go-dpdk/dpdk/ealthread"
	"github.com/pkg/math"
)

// EnvCpus is an environment variable that limits how many CPU cores the tests may use.
const EnvCpus = "EALTESTENV_CPUS"

// EnvPci is an environment variable that, when set to 1, permits the use of PCI devices.
// PCI devices stay disabled otherwise.
const EnvPci = "EALTESTENV_PCI"

// WantLCores is the number of lcores to be created.
var WantLCores = 6

// UsingThreads becomes true when there are fewer CPU cores than lcores.
var UsingThreads = false

// coreLimiter caps the number of CPU cores visible to EAL, choosing them randomly.
type coreLimiter struct {
	hwinfo.Provider
	Max    int
	picked hwinfo.Cores
}

func (cl *coreLimiter) Cores() hwinfo.Cores {
	if cl.picked == nil {
		cores := cl.Provider.Cores()
		rand.Shuffle(len(cores), func(i, j int) { cores[i], cores[j] = cores[j], cores[i] })
		if cl.Max < len(cores) {
			cores = cores[:cl.Max]
		}
		cl.picked = cores
	}
	return cl.picked
}

// Init initializes EAL for unit testing.
// extraArgs are appended to the computed EAL arguments;
// arguments after a "--" separator are returned to the caller.
func Init(extraArgs ...string) (remainingArgs []string) {
	rand.Seed(time.Now().UnixNano())

	hwInfo := &coreLimiter{Provider: hwinfo.Default, Max: WantLCores}
	if n, e := strconv.Atoi(os.Getenv(EnvCpus)); e == nil {
		hwInfo.Max = math.MinInt(hwInfo.Max, n)
	}

	var cfg ealconfig.Config
	cfg.FilePrefix = "ealtestenv"
	cfg.AllPciDevices = os.Getenv(EnvPci) == "1"

	args, e := cfg.Args(ealconfig.Request{MinLCores: WantLCores}, hwInfo)
	if e != nil {
		panic(e)
	}

	remainingArgs, e = ealinit.Init(append(args, extraArgs...))
	if e != nil {
		panic(e)
	}

	UsingThreads = len(hwInfo.Cores()) < 1+len(eal.Workers)
	if UsingThreads {
		ealthread.EnableSleep()
	}
	return remainingArgs
}
