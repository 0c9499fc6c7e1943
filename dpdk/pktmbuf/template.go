package pktmbuf

/*
#include "../../csrc/core/common.h"
#include <rte_mbuf.h>
*/
import "C"
import (
	"strings"

	"github.com/flier/go-dpdk/dpdk/eal"
	"go.uber.org/zap"
)

var templateByID = make(map[string]*poolTemplate)

func isTemplateID(id string) bool {
	return !strings.ContainsFunc(id, func(ch rune) bool {
		return (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9')
	})
}

// PoolInfo describes a created Pool and where it lives.
type PoolInfo struct {
	*Pool
	numa eal.NumaSocket
}

// NumaSocket returns the NUMA socket on which the Pool was created.
func (info PoolInfo) NumaSocket() eal.NumaSocket {
	return info.numa
}

// Template is a set of mempool settings from which per-socket Pools are created.
type Template interface {
	// ID returns the template identifier.
	ID() string

	// Config returns the current settings.
	Config() PoolConfig

	// Update modifies the settings and returns self.
	// PrivSize may only grow.
	// Dataroom is only updatable when the template was registered with a
	// non-zero dataroom.
	Update(update PoolConfig) Template

	// Pools lists the Pools created so far.
	Pools() []PoolInfo

	// Get returns the Pool for a NUMA socket, creating it on first use.
	// Creation failure is fatal.
	Get(socket eal.NumaSocket) *Pool
}

type poolTemplate struct {
	name     string
	current  PoolConfig
	bySocket map[eal.NumaSocket]*Pool
}

func (tpl *poolTemplate) ID() string {
	return tpl.name
}

func (tpl *poolTemplate) Config() PoolConfig {
	return tpl.current
}

func (tpl *poolTemplate) Update(update PoolConfig) Template {
	if update.Capacity > 0 {
		tpl.current.Capacity = update.Capacity
	}

	switch {
	case update.PrivSize > tpl.current.PrivSize:
		tpl.current.PrivSize = update.PrivSize
	case update.PrivSize > 0:
		logger.Info("ignoring attempt to decrease PrivSize",
			zap.String("template", tpl.name),
			zap.Int("oldPrivSize", tpl.current.PrivSize),
			zap.Int("newPrivSize", update.PrivSize),
		)
	}

	if tpl.current.Dataroom > 0 && update.Dataroom > 0 {
		if update.Dataroom < tpl.current.Dataroom {
			logger.Info("decreasing Dataroom",
				zap.String("template", tpl.name),
				zap.Int("oldDataroom", tpl.current.Dataroom),
				zap.Int("newDataroom", update.Dataroom),
			)
		}
		tpl.current.Dataroom = update.Dataroom
	}

	return tpl
}

func (tpl *poolTemplate) Pools() (infos []PoolInfo) {
	for socket, pool := range tpl.bySocket {
		infos = append(infos, PoolInfo{Pool: pool, numa: socket})
	}
	return infos
}

func (tpl *poolTemplate) Get(socket eal.NumaSocket) *Pool {
	target := socket
	if len(eal.Sockets) <= 1 {
		target = eal.NumaSocket{}
	}
	logEntry := logger.With(
		zap.String("template", tpl.name),
		socket.ZapField("socket"),
		target.ZapField("use-socket"),
	)

	if pool, ok := tpl.bySocket[target]; ok {
		logEntry.Debug("mempool found", zap.Stringer("pool", pool))
		return pool
	}

	pool, e := NewPool(tpl.current, target)
	if e != nil {
		logEntry.Fatal("mempool creation failed",
			zap.Any("cfg", tpl.current),
			zap.Error(e),
		)
	}
	tpl.bySocket[target] = pool
	logEntry.Debug("mempool created", zap.Stringer("pool", pool))
	return pool
}

// RegisterTemplate defines a mempool template.
// The identifier must consist of upper-case letters and digits.
func RegisterTemplate(id string, cfg PoolConfig) Template {
	if _, ok := templateByID[id]; ok {
		logger.Panic("duplicate template ID", zap.String("template", id))
	}
	if !isTemplateID(id) {
		logger.Panic("template ID can only contain upper-case letters and digits", zap.String("template", id))
	}
	tpl := &poolTemplate{
		name:     id,
		current:  cfg,
		bySocket: make(map[eal.NumaSocket]*Pool),
	}
	templateByID[id] = tpl
	return tpl
}

// FindTemplate returns a registered template, or nil if the ID is unknown.
func FindTemplate(id string) Template {
	return templateByID[id]
}

// Templates registered by this package.
var (
	// Direct is the mempool template for direct mbufs.
	Direct = RegisterTemplate("DIRECT", PoolConfig{
		Capacity: 524287,
		Dataroom: C.RTE_MBUF_DEFAULT_BUF_SIZE,
	})

	// Indirect is the mempool template for indirect mbufs.
	Indirect = RegisterTemplate("INDIRECT", PoolConfig{Capacity: 1048575})
)

// TemplateUpdates holds setting updates for several templates, keyed by ID.
type TemplateUpdates map[string]PoolConfig

// Apply pushes each update into its template.
func (updates TemplateUpdates) Apply() {
	for key, update := range updates {
		if tpl := FindTemplate(key); tpl != nil {
			tpl.Update(update)
		} else {
			logger.Warn("unknown mempool template", zap.String("template", key))
		}
	}
}
