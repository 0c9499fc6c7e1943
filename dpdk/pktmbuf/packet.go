package pktmbuf

/*
#include "../../csrc/core/common.h"
#include <rte_mbuf.h>

enum { c_packetTypeOffset = offsetof(struct rte_mbuf, packet_type) };
*/
import "C"
import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/flier/go-dpdk/core/cptr"
	"github.com/flier/go-dpdk/dpdk/eal"
)

// DefaultHeadroom is the headroom reserved in each new mbuf by default.
const DefaultHeadroom = C.RTE_PKTMBUF_HEADROOM

// DefaultDataroom is the default dataroom size of an mbuf, headroom included.
const DefaultDataroom = C.RTE_MBUF_DEFAULT_BUF_SIZE

// Packet is a packet stored in a chain of mbufs.
type Packet C.struct_rte_mbuf

// PacketFromPtr converts a *C.struct_rte_mbuf pointer to a Packet.
func PacketFromPtr(ptr unsafe.Pointer) *Packet {
	return (*Packet)(ptr)
}

// Ptr returns the *C.struct_rte_mbuf pointer.
func (pkt *Packet) Ptr() unsafe.Pointer { return unsafe.Pointer(pkt) }

func (pkt *Packet) ptr() *C.struct_rte_mbuf { return (*C.struct_rte_mbuf)(pkt) }

// Close releases the mbuf chain back to its mempool.
func (pkt *Packet) Close() error {
	C.rte_pktmbuf_free(pkt.ptr())
	return nil
}

// Len returns the total packet length in octets.
func (pkt *Packet) Len() int { return int(pkt.pkt_len) }

// Headroom returns the headroom of the first segment.
func (pkt *Packet) Headroom() int { return int(pkt.data_off) }

// SetHeadroom adjusts the headroom of the first segment.
// The packet must be empty.
func (pkt *Packet) SetHeadroom(headroom int) error {
	switch {
	case pkt.Len() > 0:
		return errors.New("non-empty packet cannot change headroom")
	case C.uint16_t(headroom) > pkt.buf_len:
		return errors.New("headroom exceeds buffer length")
	}
	pkt.data_off = C.uint16_t(headroom)
	return nil
}

// Tailroom returns the tailroom of the last segment.
func (pkt *Packet) Tailroom() int {
	last := C.rte_pktmbuf_lastseg(pkt.ptr())
	return int(C.rte_pktmbuf_tailroom(last))
}

// Port returns the input port identifier.
func (pkt *Packet) Port() uint16 { return uint16(pkt.port) }

// SetPort assigns the input port identifier.
func (pkt *Packet) SetPort(port uint16) { pkt.port = C.uint16_t(port) }

func (pkt *Packet) packetTypePtr() *uint32 {
	return (*uint32)(unsafe.Add(pkt.Ptr(), C.c_packetTypeOffset))
}

// Type32 reads the 32-bit packet type field.
func (pkt *Packet) Type32() uint32 {
	return *pkt.packetTypePtr()
}

// SetType32 writes the 32-bit packet type field.
func (pkt *Packet) SetType32(packetType uint32) {
	*pkt.packetTypePtr() = packetType
}

// IsSegmented determines whether the packet spans multiple segments.
func (pkt *Packet) IsSegmented() bool {
	return pkt.nb_segs > 1
}

// SegmentLengths returns the data length of each segment.
func (pkt *Packet) SegmentLengths() (lens []int) {
	for seg := pkt.ptr(); seg != nil; seg = seg.next {
		lens = append(lens, int(seg.data_len))
	}
	return lens
}

// SegmentBytes returns the data of each segment.
// Each []byte aliases the underlying mbuf.
func (pkt *Packet) SegmentBytes() (segs [][]byte) {
	segs = make([][]byte, 0, int(pkt.nb_segs))
	for seg := pkt.ptr(); seg != nil; seg = seg.next {
		data := unsafe.Add(seg.buf_addr, seg.data_off)
		segs = append(segs, unsafe.Slice((*byte)(data), int(seg.data_len)))
	}
	return segs
}

// DataPtr returns a void* pointer to the data in the first segment.
func (pkt *Packet) DataPtr() unsafe.Pointer {
	return unsafe.Add(pkt.buf_addr, pkt.data_off)
}

// Bytes copies the packet data into a new []byte.
func (pkt *Packet) Bytes() []byte {
	return bytes.Join(pkt.SegmentBytes(), nil)
}

// ZeroCopyBytes returns the packet data, aliasing the mbuf when the
// packet is contiguous.
func (pkt *Packet) ZeroCopyBytes() []byte {
	if !pkt.IsSegmented() {
		return unsafe.Slice((*byte)(pkt.DataPtr()), pkt.Len())
	}
	return pkt.Bytes()
}

// ReadFrom performs a single Read into the dataroom.
// The packet must be empty.
func (pkt *Packet) ReadFrom(r io.Reader) (n int64, e error) {
	if pkt.Len() > 0 {
		return 0, errors.New("ReadFrom requires an empty packet")
	}
	buf := unsafe.Slice((*byte)(pkt.DataPtr()), pkt.Tailroom())
	count, e := r.Read(buf)
	if count > 0 {
		pkt.pkt_len = C.uint32_t(count)
		pkt.data_len = C.uint16_t(count)
	}
	return int64(count), e
}

// Prepend inserts data before the packet, consuming headroom of the
// first segment.
func (pkt *Packet) Prepend(data []byte) error {
	count := len(data)
	if count == 0 {
		return nil
	}
	dst := C.rte_pktmbuf_prepend(pkt.ptr(), C.uint16_t(count))
	if dst == nil {
		return fmt.Errorf("headroom too small: %d", pkt.Headroom())
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(dst)), count), data)
	return nil
}

// Append adds data after the packet, consuming tailroom of the last segment.
func (pkt *Packet) Append(data []byte) error {
	count := len(data)
	if count == 0 {
		return nil
	}
	dst := C.rte_pktmbuf_append(pkt.ptr(), C.uint16_t(count))
	if dst == nil {
		return fmt.Errorf("tailroom too small: %d", pkt.Tailroom())
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(dst)), count), data)
	return nil
}

// Adj discards n octets at the front of the packet.
// The first segment must contain at least n octets.
func (pkt *Packet) Adj(n int) error {
	if C.rte_pktmbuf_adj(pkt.ptr(), C.uint16_t(n)) == nil {
		return fmt.Errorf("cannot remove %d octets from front", n)
	}
	return nil
}

// Trim discards n octets at the end of the packet.
// The last segment must contain at least n octets.
func (pkt *Packet) Trim(n int) error {
	if C.rte_pktmbuf_trim(pkt.ptr(), C.uint16_t(n)) != 0 {
		return fmt.Errorf("cannot remove %d octets from end", n)
	}
	return nil
}

// Chain appends tail to this packet.
// The tail is freed together with this packet.
// If the chain would exceed the segment limit, the EOVERFLOW errno is returned.
func (pkt *Packet) Chain(tail *Packet) error {
	return eal.MakeErrno(C.rte_pktmbuf_chain(pkt.ptr(), tail.ptr()))
}

// Clone allocates an indirect clone of this packet from mp.
func (pkt *Packet) Clone(mp *Pool) (*Packet, error) {
	res := C.rte_pktmbuf_clone(pkt.ptr(), mp.ptr())
	if res == nil {
		return nil, eal.GetErrno()
	}
	return PacketFromPtr(unsafe.Pointer(res)), nil
}

// RefCount reads the reference count of the first segment.
func (pkt *Packet) RefCount() int {
	return int(C.rte_mbuf_refcnt_read(pkt.ptr()))
}

// AdjustRefCount applies delta to the reference count of every segment.
func (pkt *Packet) AdjustRefCount(delta int) {
	for seg := pkt.ptr(); seg != nil; seg = seg.next {
		C.rte_mbuf_refcnt_update(seg, C.int16_t(delta))
	}
}

// Dump formats the mbuf layout and up to limit octets of data.
func (pkt *Packet) Dump(limit int) (string, error) {
	data, e := cptr.CaptureFileDump(func(fp unsafe.Pointer) {
		C.rte_pktmbuf_dump((*C.FILE)(fp), pkt.ptr(), C.unsigned(limit))
	})
	return string(data), e
}
