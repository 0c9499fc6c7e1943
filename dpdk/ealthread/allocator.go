package ealthread

import (
	"github.com/flier/go-dpdk/dpdk/eal"
	"go.uber.org/zap"
)

// AllocConfig contains lcore allocation config, indexed by role.
type AllocConfig map[string]AllocRoleConfig

// AllocRoleConfig contains lcore allocation config of one role.
type AllocRoleConfig struct {
	// LCores is a list of lcores reserved for this role.
	LCores []int
	// OnNuma limits how many lcores the role may take on a particular NUMA socket.
	OnNuma map[int]int
	// EachNuma limits how many lcores the role may take on every NUMA socket.
	EachNuma int
}

func (c AllocRoleConfig) socketCap(socket eal.NumaSocket) int {
	if limit, ok := c.OnNuma[socket.ID()]; ok {
		return limit
	}
	return c.EachNuma
}

// LCoreProvider describes the lcores available for allocation.
// The allocation logic goes through this interface so that it can be tested without EAL.
type LCoreProvider interface {
	// Workers returns worker lcores.
	Workers() []eal.LCore

	// IsBusy determines whether an lcore is running a function.
	IsBusy(lc eal.LCore) bool

	// NumaSocketOf returns the NUMA socket of an lcore.
	NumaSocketOf(lc eal.LCore) eal.NumaSocket
}

type ealLCoreProvider struct{}

func (ealLCoreProvider) Workers() []eal.LCore {
	return eal.Workers
}

func (ealLCoreProvider) IsBusy(lc eal.LCore) bool {
	return lc.IsBusy()
}

func (ealLCoreProvider) NumaSocketOf(lc eal.LCore) eal.NumaSocket {
	return lc.NumaSocket()
}

// Allocator hands out worker lcores to roles.
type Allocator struct {
	Config   AllocConfig
	provider LCoreProvider
	held     [eal.MaxLCoreID + 1]string
}

// NewAllocator constructs an Allocator on top of an LCoreProvider.
func NewAllocator(provider LCoreProvider) *Allocator {
	return &Allocator{provider: provider, Config: make(AllocConfig)}
}

type lcPredicate func(lc eal.LCore) bool

func not(pred lcPredicate) lcPredicate {
	return func(lc eal.LCore) bool { return !pred(lc) }
}

func (la *Allocator) lcFree() lcPredicate {
	return func(lc eal.LCore) bool { return la.held[lc.ID()] == "" && !la.provider.IsBusy(lc) }
}

func (la *Allocator) lcOnSocket(socket eal.NumaSocket) lcPredicate {
	if socket.IsAny() {
		return func(eal.LCore) bool { return true }
	}
	return func(lc eal.LCore) bool { return la.provider.NumaSocketOf(lc).ID() == socket.ID() }
}

func lcListed(list []int) lcPredicate {
	members := map[int]bool{}
	for _, id := range list {
		members[id] = true
	}
	return func(lc eal.LCore) bool { return members[lc.ID()] }
}

func (la *Allocator) lcHeldBy(role string) lcPredicate {
	return func(lc eal.LCore) bool { return la.held[lc.ID()] == role }
}

func match(lc eal.LCore, predicates []lcPredicate) bool {
	for _, pred := range predicates {
		if !pred(lc) {
			return false
		}
	}
	return true
}

// filter returns the subset of lcores satisfying all predicates.
func filter(lcores []eal.LCore, predicates ...lcPredicate) (filtered []eal.LCore) {
	for _, lc := range lcores {
		if match(lc, predicates) {
			filtered = append(filtered, lc)
		}
	}
	return filtered
}

// groupBySocket classifies lcores by their NUMA socket.
func (la *Allocator) groupBySocket(lcores []eal.LCore) map[eal.NumaSocket][]eal.LCore {
	bySocket := map[eal.NumaSocket][]eal.LCore{}
	for _, lc := range lcores {
		socket := la.provider.NumaSocketOf(lc)
		bySocket[socket] = append(bySocket[socket], lc)
	}
	return bySocket
}

func (la *Allocator) choose(role string, socket eal.NumaSocket) eal.LCore {
	// without config, any free lcore satisfies any role
	if len(la.Config) == 0 {
		return la.chooseUnconfigured(socket)
	}

	// try the preferred NUMA socket first
	if lcores := la.chooseConfigured(role, socket); len(lcores) > 0 {
		return lcores[0]
	}

	// then whichever remote socket has the most candidates
	candidates := la.groupBySocket(la.provider.Workers())
	for remote := range candidates {
		candidates[remote] = la.chooseConfigured(role, remote)
	}
	return chooseEmptiest(candidates)
}

func (la *Allocator) chooseUnconfigured(socket eal.NumaSocket) eal.LCore {
	avails := filter(la.provider.Workers(), la.lcFree())

	if !socket.IsAny() {
		if onSocket := filter(avails, la.lcOnSocket(socket)); len(onSocket) > 0 {
			return onSocket[0]
		}
	}

	return chooseEmptiest(la.groupBySocket(avails))
}

func (la *Allocator) chooseConfigured(role string, socket eal.NumaSocket) []eal.LCore {
	pool := la.provider.Workers()
	avails := filter(pool, la.lcFree(), la.lcOnSocket(socket))
	roleCfg := la.Config[role]

	// lcores reserved for this role come first
	if listed := filter(avails, lcListed(roleCfg.LCores)); len(listed) > 0 {
		return listed
	}

	// otherwise take an lcore not reserved by any other role,
	// subject to this role's per-socket limit
	var unreservedPred []lcPredicate
	for other, otherCfg := range la.Config {
		if other != role {
			unreservedPred = append(unreservedPred, not(lcListed(otherCfg.LCores)))
		}
	}
	unreserved := filter(avails, unreservedPred...)

	nHeld := len(filter(pool, la.lcOnSocket(socket), la.lcHeldBy(role)))
	if nHeld < roleCfg.socketCap(socket) && len(unreserved) > 0 {
		return unreserved
	}
	return nil
}

func chooseEmptiest(candidates map[eal.NumaSocket][]eal.LCore) (best eal.LCore) {
	bestCount := 0
	for _, lcores := range candidates {
		if len(lcores) > bestCount {
			best, bestCount = lcores[0], len(lcores)
		}
	}
	return best
}

// Alloc allocates an lcore to a role, preferring the given NUMA socket.
// It returns an invalid LCore when no lcore can satisfy the request.
func (la *Allocator) Alloc(role string, socket eal.NumaSocket) (lc eal.LCore) {
	if lc = la.choose(role, socket); !lc.Valid() {
		return lc
	}

	la.held[lc.ID()] = role
	logger.Info("lcore allocated",
		zap.String("role", role),
		socket.ZapField("socket"),
		lc.ZapField("lc"),
		la.provider.NumaSocketOf(lc).ZapField("lc-socket"),
	)
	return lc
}

// AllocMax allocates all remaining lcores to a role.
func (la *Allocator) AllocMax(role string) (list []eal.LCore) {
	for lc := la.Alloc(role, eal.NumaSocket{}); lc.Valid(); lc = la.Alloc(role, eal.NumaSocket{}) {
		list = append(list, lc)
	}
	return list
}

// Free releases a previously allocated lcore.
// Freeing an unallocated lcore panics.
func (la *Allocator) Free(lc eal.LCore) {
	if la.held[lc.ID()] == "" {
		panic("lcore is not held by any role")
	}
	logger.Info("lcore freed",
		zap.String("role", la.held[lc.ID()]),
		lc.ZapField("lc"),
	)
	la.held[lc.ID()] = ""
}

// Clear deletes all allocations.
func (la *Allocator) Clear() {
	for lc, role := range la.held {
		if role != "" {
			la.Free(eal.LCoreFromID(lc))
		}
	}
}

// DefaultAllocator is the default instance of Allocator, backed by EAL worker lcores.
var DefaultAllocator = NewAllocator(ealLCoreProvider{})
