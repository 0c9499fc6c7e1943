// Package ethvdev creates virtual Ethernet devices.
package ethvdev

import (
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/dpdk/eal"
	"github.com/flier/go-dpdk/dpdk/ethdev"
	"go.uber.org/zap"
)

var logger = logging.New("ethvdev")

// New creates a virtual Ethernet device.
// The vdev is destroyed when the EthDev is stopped and detached.
func New(name string, args map[string]any, socket eal.NumaSocket) (ethdev.EthDev, error) {
	vdev, e := eal.NewVDev(name, args, socket)
	if e != nil {
		return ethdev.EthDev{}, e
	}

	dev := ethdev.Find(name)
	if !dev.Valid() {
		logger.Panic("vdev did not create an Ethernet port",
			zap.String("name", name),
		)
	}

	ethdev.OnDetach(dev, func() { vdev.Close() })
	return dev, nil
}
