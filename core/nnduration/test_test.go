package nnduration_test

import (
	"github.com/flier/go-dpdk/core/testenv"
)

var (
	makeAR   = testenv.MakeAR
	fromJSON = testenv.FromJSON
	toJSON   = testenv.ToJSON
)
