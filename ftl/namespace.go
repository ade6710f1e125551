package ftl

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pony1357/nvmevirt/internal/geometry"
	"github.com/pony1357/nvmevirt/internal/metrics"
	"github.com/pony1357/nvmevirt/internal/nand"
	"github.com/pony1357/nvmevirt/internal/wbuf"
	"github.com/pony1357/nvmevirt/internal/worker"
)

// Namespace is the shared device context (design note §9): it owns
// the state that genuinely is process-wide — the NAND timing model
// and the write buffer — and holds N independent Partitions by
// reference, rather than via hidden singletons.
type Namespace struct {
	log   zerolog.Logger
	cfg   Config
	parts []*Partition
	nand  *nand.Model
	wbuf  *wbuf.Buffer
	pool  *worker.Pool
}

// New builds a namespace with cfg.NPartitions independent partitions.
func New(cfg Config, log zerolog.Logger) (*Namespace, error) {
	if cfg.NPartitions <= 0 {
		return nil, errors.New("ftl: NPartitions must be positive")
	}
	if cfg.BlksPerPl%cfg.NPartitions != 0 {
		return nil, errors.Errorf("ftl: BlksPerPl (%d) not evenly divisible by NPartitions (%d)",
			cfg.BlksPerPl, cfg.NPartitions)
	}

	nandModel := nand.NewModel(geometry.New(cfg.Channels, cfg.LunsPerCh, 1, cfg.BlksPerPl,
		cfg.PgsPerBlk, cfg.SecsPerPg, cfg.PgSize, cfg.OneshotPgs), cfg.Latencies)

	ns := &Namespace{
		log:  log,
		cfg:  cfg,
		nand: nandModel,
		wbuf: wbuf.New(cfg.WriteBufferBytes),
		pool: worker.New(),
	}
	for i := 0; i < cfg.NPartitions; i++ {
		ns.parts = append(ns.parts, newPartition(i, cfg, nandModel))
	}
	return ns, nil
}

// Partitions implements metrics.NamespaceSource.
func (ns *Namespace) Partitions() []metrics.PartitionStats {
	out := make([]metrics.PartitionStats, len(ns.parts))
	for i, p := range ns.parts {
		out[i] = p
	}
	return out
}

// WriteBufferUsed implements metrics.NamespaceSource.
func (ns *Namespace) WriteBufferUsed() int { return ns.wbuf.Used() }

// WriteBufferCapacity implements metrics.NamespaceSource.
func (ns *Namespace) WriteBufferCapacity() int { return ns.wbuf.Capacity() }

// Pool returns the worker pool that drains scheduled buffer-release
// operations; callers run it with worker.Pool.Run in their own
// goroutine.
func (ns *Namespace) Pool() *worker.Pool { return ns.pool }

// TotalLpn returns the total number of logical pages addressable
// across every partition.
func (ns *Namespace) TotalLpn() uint64 {
	if len(ns.parts) == 0 {
		return 0
	}
	return uint64(ns.parts[0].NumLpn()) * uint64(len(ns.parts))
}

func (ns *Namespace) route(lpn uint64) (part *Partition, localLpn uint64) {
	n := uint64(len(ns.parts))
	return ns.parts[lpn%n], lpn / n
}

// ProcIOCmd dispatches one NVMe command, matching external interface
// §6. Unknown opcodes are logged and acknowledged without a
// meaningful completion time.
func (ns *Namespace) ProcIOCmd(req Request) (Result, bool) {
	switch req.Opcode {
	case OpWrite:
		return ns.write(req)
	case OpRead:
		return ns.read(req)
	case OpFlush:
		return ns.flush(req)
	default:
		ns.log.Warn().Int("opcode", int(req.Opcode)).Msg("proc_io_cmd: unknown opcode")
		return Result{}, true
	}
}

func (ns *Namespace) validateRange(req Request) bool {
	if req.NumPages == 0 {
		return false
	}
	end := req.StartLBA + req.NumPages
	return end <= ns.TotalLpn()
}
