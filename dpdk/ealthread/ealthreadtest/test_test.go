package ealthreadtest

import (
	"os"
	"testing"

	"github.com/flier/go-dpdk/core/testenv"
	"github.com/flier/go-dpdk/dpdk/ealtestenv"
)

func TestMain(m *testing.M) {
	ealtestenv.Init()
	os.Exit(m.Run())
}

var makeAR = testenv.MakeAR
