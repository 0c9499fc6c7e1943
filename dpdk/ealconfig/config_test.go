package ealconfig_test

import (
	"flag"
	"testing"

	"github.com/flier/go-dpdk/core/hwinfo"
	"github.com/flier/go-dpdk/dpdk/ealconfig"
	"github.com/soh335/sliceflag"
)

func init() {
	ealconfig.PmdPath = "/tmp/drivers"
}

// fakeHwInfo provides 16 logical cores on 4 NUMA sockets.
// Logical cores 4-11 are primary hyperthreads; 0-3 and 12-15 are their secondaries.
type fakeHwInfo struct{}

func (fakeHwInfo) Cores() (list hwinfo.Cores) {
	for _, r := range []struct{ first, last, physicalDelta int }{
		{4, 11, -4},
		{0, 3, 0},
		{12, 15, -8},
	} {
		for logical := r.first; logical <= r.last; logical++ {
			list = append(list, hwinfo.CoreInfo{
				NumaSocket:   logical % 4,
				PhysicalCore: logical + r.physicalDelta,
				LogicalCore:  logical,
			})
		}
	}
	return list
}

// baseConfig returns a Config whose sections emit placeholder flags,
// so that a test can enable just the section under test.
func baseConfig() (cfg ealconfig.Config) {
	cfg.LCoreFlags = "--omit-lcore"
	cfg.MemFlags = "--omit-mem"
	cfg.DeviceFlags = "--omit-device"
	return cfg
}

func newFlagSet() *flag.FlagSet {
	fset := flag.NewFlagSet("", flag.PanicOnError)
	for _, placeholder := range []string{"omit-lcore", "omit-mem", "omit-device"} {
		fset.Bool(placeholder, false, "")
	}
	return fset
}

func parseExtra(args []string) (x, y string) {
	fset := newFlagSet()
	fset.StringVar(&x, "opt-x", "", "")
	fset.StringVar(&y, "opt-y", "", "")
	fset.Parse(args)
	return
}

func TestFlagsOverride(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = "--opt-x lcore-x"
	cfg.Flags = "--opt-y override-y"

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	x, y := parseExtra(args)
	assert.Equal("", x)
	assert.Equal("override-y", y)
}

func TestExtraFlags(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = "--opt-x lcore-x"
	cfg.ExtraFlags = "--opt-y extra-y"

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	x, y := parseExtra(args)
	assert.Equal("lcore-x", x)
	assert.Equal("extra-y", y)
}

type parsedLCore struct {
	l         string
	lcores    string
	mainLCore string
}

func parseLCore(args []string) (p parsedLCore) {
	fset := newFlagSet()
	fset.StringVar(&p.l, "l", "", "")
	fset.StringVar(&p.lcores, "lcores", "", "")
	fset.StringVar(&p.mainLCore, "main-lcore", "", "")
	fset.Parse(args)
	return
}

func TestCoreList(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = ""
	cfg.Cores = []int{1, 5, 6, 14, 16} // 16 does not exist

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseLCore(args)
	commaSetEquals(assert, "1,5,6,14", p.l)
	assert.Equal("", p.lcores)
}

func TestCoreListFloating(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = ""
	cfg.Cores = []int{1, 5, 6, 14}

	req := ealconfig.Request{
		MinLCores: 6, // more than len(cfg.Cores)
	}

	args, e := cfg.Args(req, fakeHwInfo{})
	require.NoError(e)
	p := parseLCore(args)
	assert.Equal("", p.l)
	assert.Equal("(0-5)@(1,5,6,14)", p.lcores)
}

func TestCoreListEmpty(t *testing.T) {
	assert, _ := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = ""
	cfg.Cores = []int{16}

	_, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	assert.Error(e)
}

func TestCoresPerNuma(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = ""
	cfg.CoresPerNuma = map[int]int{
		// 0 omitted: 4,8,0,12
		1: 3,  // 5,9,1
		2: -3, // 6
		3: 0,  // none
		5: 2,  // non-existent socket
	}

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseLCore(args)
	commaSetEquals(assert, "4,8,0,12,5,9,1,6", p.l)
	assert.Equal("", p.lcores)
}

func TestLCoresPerNuma(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = ""
	cfg.LCoresPerNuma = map[int]int{1: 3, 2: 2}

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseLCore(args)
	assert.Equal("", p.l)
	assert.Equal("(0,1,2)@(5,9,1,13),(3,4)@(6,10,2,14)", p.lcores)
}

func TestMainLCore(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.LCoreFlags = ""
	cfg.Cores = []int{2, 6, 10}
	main := 2
	cfg.LCoreMain = &main

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseLCore(args)
	commaSetEquals(assert, "2,6,10", p.l)
	assert.Equal("2", p.mainLCore)
}

type parsedMem struct {
	n, socketLimit, filePrefix string
	hugeUnlink                 bool
}

func parseMem(args []string) (p parsedMem) {
	fset := newFlagSet()
	fset.StringVar(&p.n, "n", "", "")
	fset.StringVar(&p.socketLimit, "socket-limit", "", "")
	fset.StringVar(&p.filePrefix, "file-prefix", "", "")
	fset.BoolVar(&p.hugeUnlink, "huge-unlink", false, "")
	fset.Parse(args)
	return
}

func TestMemoryDefaults(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.MemFlags = ""

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseMem(args)
	assert.Equal("", p.n)
	assert.Equal("", p.socketLimit)
	assert.Equal("", p.filePrefix)
	assert.True(p.hugeUnlink)
}

func TestMemoryFull(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.MemFlags = ""
	cfg.MemChannels = 4
	cfg.MemPerNuma = map[int]int{
		0: 12288,
		// 1 omitted: no limit
		2: 0, // becomes 1
		3: 6144,
		7: 1024, // non-existent
	}
	cfg.FilePrefix = "godpdktest"
	cfg.DisableHugeUnlink = true

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseMem(args)
	assert.Equal("4", p.n)
	assert.Equal("12288,0,1,6144", p.socketLimit)
	assert.Equal("godpdktest", p.filePrefix)
	assert.False(p.hugeUnlink)
}

type parsedDevice struct {
	d, a, vdev []string
	noPci      bool
}

func parseDevice(args []string) (p parsedDevice) {
	fset := newFlagSet()
	sliceflag.StringVar(fset, &p.d, "d", nil, "")
	sliceflag.StringVar(fset, &p.a, "a", nil, "")
	sliceflag.StringVar(fset, &p.vdev, "vdev", nil, "")
	fset.BoolVar(&p.noPci, "no-pci", false, "")
	fset.Parse(args)
	return
}

func TestDeviceDefaults(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.DeviceFlags = ""

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseDevice(args)
	assert.Equal([]string{"/tmp/drivers"}, p.d)
	assert.Len(p.a, 0)
	assert.Len(p.vdev, 0)
	assert.True(p.noPci)
}

func TestDevicePci(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.DeviceFlags = ""
	cfg.PciDevices = []ealconfig.PCIAddress{
		ealconfig.MustParsePCIAddress("04:00.1"),
		ealconfig.MustParsePCIAddress("0B:00.0"),
	}
	cfg.VirtualDevices = []string{
		"net_tap1,iface=dpdktap0",
	}

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseDevice(args)
	assert.Equal([]string{"/tmp/drivers"}, p.d)
	assert.Equal([]string{"0000:04:00.1", "0000:0b:00.0"}, p.a)
	assert.Equal([]string{"net_tap1,iface=dpdktap0"}, p.vdev)
	assert.False(p.noPci)
}

func TestDeviceDrivers(t *testing.T) {
	assert, require := makeAR(t)

	cfg := baseConfig()
	cfg.DeviceFlags = ""
	cfg.Drivers = []string{
		"/opt/dpdk/pmd-x.so",
		"/opt/dpdk/pmd-y.so",
	}
	cfg.AllPciDevices = true
	cfg.VirtualDevices = []string{
		"net_null0",
	}

	args, e := cfg.Args(ealconfig.Request{}, fakeHwInfo{})
	require.NoError(e)
	p := parseDevice(args)
	assert.Equal([]string{"/opt/dpdk/pmd-x.so", "/opt/dpdk/pmd-y.so"}, p.d)
	assert.Len(p.a, 0)
	assert.Equal([]string{"net_null0"}, p.vdev)
	assert.False(p.noPci)
}
