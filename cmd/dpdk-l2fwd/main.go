// Command dpdk-l2fwd forwards Ethernet frames between pairs of ports.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/flier/go-dpdk/app/l2fwd"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/core/nnduration"
	"github.com/flier/go-dpdk/core/version"
	"github.com/flier/go-dpdk/core/yamlflag"
	"github.com/flier/go-dpdk/dpdk/ealconfig"
	"github.com/flier/go-dpdk/dpdk/ealinit"
	"github.com/flier/go-dpdk/dpdk/ethdev"
)

var logger = logging.New("main")

var ealCfg ealconfig.Config

var app = &cli.App{
	Name:    "dpdk-l2fwd",
	Usage:   "Forward Ethernet frames between pairs of ports.",
	Version: version.V.String(),
	Flags: []cli.Flag{
		&cli.GenericFlag{
			Name:  "eal",
			Usage: "EAL configuration, `YAML` document or @filename.",
			Value: yamlflag.New(&ealCfg),
		},
		&cli.StringFlag{
			Name:     "portmask",
			Aliases:  []string{"p"},
			Usage:    "hexadecimal `bitmask` of ports to enable",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "queues",
			Aliases: []string{"q"},
			Value:   1,
			Usage:   "`number` of ports polled by each lcore",
		},
		&cli.IntFlag{
			Name:    "stats-interval",
			Aliases: []string{"T"},
			Value:   10,
			Usage:   "statistics refresh period in `seconds`, 0 to disable",
		},
	},
	Action: run,
}

func run(c *cli.Context) error {
	portMask, e := parsePortMask(c.String("portmask"))
	if e != nil {
		return e
	}
	if c.Int("stats-interval") < 0 {
		return errors.New("stats-interval cannot be negative")
	}
	cfg := l2fwd.Config{
		PortMask:         portMask,
		RxQueuesPerLCore: c.Int("queues"),
		StatsInterval:    nnduration.Milliseconds(c.Int("stats-interval")) * 1000,
	}

	ealArgs, e := ealCfg.Args(ealconfig.Request{MinLCores: 2}, nil)
	if e != nil {
		return fmt.Errorf("EAL args: %w", e)
	}
	if _, e = ealinit.Init(ealArgs); e != nil {
		return fmt.Errorf("EAL init: %w", e)
	}

	fwd, e := l2fwd.New(cfg)
	if e != nil {
		return e
	}
	defer fwd.Close()

	waitLinkUp(portMask)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	if e := fwd.Launch(); e != nil {
		return e
	}
	logger.Info("forwarding, press CTRL-C to stop")

	sig := <-interrupt
	logger.Info("stopping", zap.Stringer("signal", sig))
	if e := fwd.Close(); e != nil {
		return e
	}
	fwd.PrintStats(os.Stdout)
	return nil
}

func parsePortMask(input string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	mask, e := strconv.ParseUint(hex, 16, 32)
	if e != nil {
		return 0, fmt.Errorf("invalid portmask %q", input)
	}
	if mask == 0 {
		return 0, errors.New("portmask cannot be zero")
	}
	return uint32(mask), nil
}

// waitLinkUp waits up to 9 seconds for every enabled port to report link up.
func waitLinkUp(portMask uint32) {
	deadline := time.Now().Add(9 * time.Second)
	for _, dev := range ethdev.List() {
		if portMask&(1<<uint(dev.ID())) == 0 {
			continue
		}
		for {
			if st := dev.LinkStatus(false); st.Up {
				logger.Info("link up",
					zap.Int("port", dev.ID()),
					zap.Stringer("status", st),
				)
				break
			}
			if time.Now().After(deadline) {
				logger.Warn("link down", zap.Int("port", dev.ID()))
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func main() {
	if e := app.Run(os.Args); e != nil {
		logger.Fatal("fatal error", zap.Error(e))
	}
}
