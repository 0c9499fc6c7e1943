package knibridge

import (
	"fmt"
	"time"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
)

// etht is an ethtool instance, assigned on first use.
var etht *ethtool.Ethtool

// Netifs returns the kernel interface names created by this bridge.
func (b *Bridge) Netifs() (names []string) {
	for _, p := range b.ports {
		for i := range p.knis {
			names = append(names, p.params.kniName(i))
		}
	}
	return names
}

// WaitNetifs waits until every kernel interface of this bridge is visible to
// the kernel, then logs its driver and MAC address.
func (b *Bridge) WaitNetifs(timeout time.Duration) (e error) {
	if etht == nil {
		if etht, e = ethtool.NewEthtool(); e != nil {
			return fmt.Errorf("ethtool.NewEthtool: %w", e)
		}
	}

	deadline := time.Now().Add(timeout)
	for _, name := range b.Netifs() {
		link, e := waitLink(name, deadline)
		if e != nil {
			return e
		}
		driver, _ := etht.DriverName(name)
		logger.Info("kernel interface ready",
			zap.String("netif", name),
			zap.String("driver", driver),
			zap.Stringer("mac", link.Attrs().HardwareAddr),
		)
	}
	return nil
}

func waitLink(name string, deadline time.Time) (netlink.Link, error) {
	for {
		link, e := netlink.LinkByName(name)
		if e == nil {
			return link, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("netlink.LinkByName(%s): %w", name, e)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// SetNetifsUp brings every kernel interface administratively up.
// The kernel delivers the link change as a request served by the ingress
// thread, so this must be called after Launch.
func (b *Bridge) SetNetifsUp() error {
	for _, name := range b.Netifs() {
		link, e := netlink.LinkByName(name)
		if e != nil {
			return fmt.Errorf("netlink.LinkByName(%s): %w", name, e)
		}
		if e := netlink.LinkSetUp(link); e != nil {
			return fmt.Errorf("netlink.LinkSetUp(%s): %w", name, e)
		}
	}
	return nil
}
