package events_test

import (
	"github.com/flier/go-dpdk/core/testenv"
)

var makeAR = testenv.MakeAR
