package eal

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

var lastObjectID atomic.Uint64

// AllocObjectID allocates a unique name for a DPDK object.
// dbgtype appears in the debug log only.
func AllocObjectID(dbgtype string) string {
	id := fmt.Sprintf("G%016x", lastObjectID.Add(1))
	logger.Debug("object ID allocated",
		zap.String("type", dbgtype),
		zap.String("id", id),
	)
	return id
}
