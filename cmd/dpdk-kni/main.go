// Command dpdk-kni bridges Ethernet ports to kernel network interfaces.
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

	"github.com/flier/go-dpdk/app/knibridge"
	"github.com/flier/go-dpdk/core/logging"
	"github.com/flier/go-dpdk/core/version"
	"github.com/flier/go-dpdk/core/yamlflag"
	"github.com/flier/go-dpdk/dpdk/ealconfig"
	"github.com/flier/go-dpdk/dpdk/ealinit"
)

var logger = logging.New("main")

var ealCfg ealconfig.Config

var app = &cli.App{
	Name:    "dpdk-kni",
	Usage:   "Bridge Ethernet ports to kernel network interfaces.",
	Version: version.V.String(),
	Flags: []cli.Flag{
		&cli.GenericFlag{
			Name:  "eal",
			Usage: "EAL configuration, `YAML` document or @filename.",
			Value: yamlflag.New(&ealCfg),
		},
		&cli.StringFlag{
			Name:    "portmask",
			Aliases: []string{"p"},
			Usage:   "hexadecimal `bitmask` restricting the configured ports",
		},
		&cli.BoolFlag{
			Name:    "promiscuous",
			Aliases: []string{"P"},
			Usage:   "enable promiscuous mode on the Ethernet ports",
		},
		&cli.StringSliceFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "port assignment \"`port,lcoreRx,lcoreTx[,kthread]...`\", repeatable",
			Required: true,
		},
	},
	Action: run,
}

func run(c *cli.Context) error {
	cfg := knibridge.Config{
		Promisc: c.Bool("promiscuous"),
	}
	if input := c.String("portmask"); input != "" {
		mask, e := parsePortMask(input)
		if e != nil {
			return e
		}
		cfg.PortMask = mask
	}
	for _, item := range c.StringSlice("config") {
		params, e := knibridge.ParsePortParams(item)
		if e != nil {
			return e
		}
		cfg.Ports = append(cfg.Ports, params)
	}

	ealArgs, e := ealCfg.Args(ealconfig.Request{MinLCores: 1 + 2*len(cfg.Ports)}, nil)
	if e != nil {
		return fmt.Errorf("EAL args: %w", e)
	}
	if _, e = ealinit.Init(ealArgs); e != nil {
		return fmt.Errorf("EAL init: %w", e)
	}

	b, e := knibridge.New(cfg)
	if e != nil {
		return e
	}
	defer b.Close()
	if e := b.WaitNetifs(2 * time.Second); e != nil {
		return e
	}

	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	if e := b.Launch(); e != nil {
		return e
	}
	logger.Info("bridging, press CTRL-C to stop",
		zap.Strings("netifs", b.Netifs()),
	)

	for sig := range interrupt {
		switch sig {
		case syscall.SIGUSR1:
			b.PrintStats(os.Stdout)
		case syscall.SIGUSR2:
			b.ResetStats()
			fmt.Println("\n**Statistics have been reset**")
		default:
			logger.Info("stopping", zap.Stringer("signal", sig))
			return b.Close()
		}
	}
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

func main() {
	if e := app.Run(os.Args); e != nil {
		logger.Fatal("fatal error", zap.Error(e))
	}
}
