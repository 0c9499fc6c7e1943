// Package mbuftestenv provides helpers for constructing mbufs in test code.
package mbuftestenv

import (
	"fmt"

	"github.com/flier/go-dpdk/core/testenv"
	"github.com/flier/go-dpdk/dpdk/pktmbuf"
)

// Headroom overrides the per-segment headroom in MakePacket.
type Headroom int

// MakePacket builds a packet from a list of arguments.
// A []byte or a hexadecimal string contributes one segment, and a []string
// contributes one segment per element.
// A *pktmbuf.Pool argument overrides the Direct pool as the allocation source.
// A Headroom argument adjusts the headroom of every segment.
// The caller owns the returned packet and must Close it.
func MakePacket(args ...any) (pkt *pktmbuf.Packet) {
	var (
		mp       *pktmbuf.Pool
		segments [][]byte
		headroom = -1
	)
	for i, arg := range args {
		switch a := arg.(type) {
		case *pktmbuf.Pool:
			mp = a
		case Headroom:
			headroom = int(a)
		case []byte:
			segments = append(segments, a)
		case string:
			segments = append(segments, testenv.BytesFromHex(a))
		case []string:
			for _, hex := range a {
				segments = append(segments, testenv.BytesFromHex(hex))
			}
		default:
			panic(fmt.Sprintf("MakePacket: unsupported argument %d of type %T", i, arg))
		}
	}
	if mp == nil {
		mp = DirectMempool()
	}
	if len(segments) == 0 {
		segments = [][]byte{{}}
	}

	vec := mp.MustAlloc(len(segments))
	pkt = vec[0]
	for i, payload := range segments {
		seg := vec[i]
		if headroom >= 0 {
			seg.SetHeadroom(headroom)
		}
		if e := seg.Append(payload); e != nil {
			panic(fmt.Errorf("cannot append %d octets: %w", len(payload), e))
		}
		if seg != pkt {
			pkt.Chain(seg)
		}
	}
	return pkt
}
