package ealtest

import (
	"errors"
	"syscall"
	"testing"

	"github.com/flier/go-dpdk/dpdk/eal"
)

func TestErrno(t *testing.T) {
	assert, _ := makeAR(t)

	setErrno(0x19)
	errno := eal.GetErrno()
	assert.EqualValues(0x19, errno)

	assert.NoError(eal.MakeErrno(0))

	e := eal.MakeErrno(-int(syscall.ENOENT))
	var errno2 eal.Errno
	assert.True(errors.As(e, &errno2))
	assert.EqualValues(syscall.ENOENT, errno2)
	assert.Equal(e, eal.MakeErrno(int(syscall.ENOENT)))
	assert.Contains(e.Error(), "No such")
}
