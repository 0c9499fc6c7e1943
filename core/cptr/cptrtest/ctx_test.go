package cptrtest

import (
	"testing"

	"github.com/flier/go-dpdk/core/cptr"
)

func TestCtx(t *testing.T) {
	assert, _ := makeAR(t)

	obj := "object0"
	ctx := cptr.CtxPut(obj)
	assert.Equal(obj, cptr.CtxGet(ctx))
	assert.Equal(obj, cptr.CtxPop(ctx))
	assert.Panics(func() { cptr.CtxGet(ctx) })

	ctx1 := cptr.CtxPut(42)
	assert.NoError(cptr.CtxCloser(ctx1).Close())
	assert.Panics(func() { cptr.CtxPop(ctx1) })
}
