// Package config defines the cmd/ftlsim command-line surface and
// translates it into an ftl.Config, in the style of the
// systemd_exporter's kingpin flag block
// (talyz-systemd_exporter/systemd/systemd.go).
package config

import (
	"github.com/rs/zerolog"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/pony1357/nvmevirt/ftl"
	"github.com/pony1357/nvmevirt/internal/nand"
)

var (
	partitions = kingpin.Flag("partitions", "Number of independent FTL partitions.").Default("1").Int()
	channels   = kingpin.Flag("channels", "Flash channel count.").Default("8").Int()
	lunsPerCh  = kingpin.Flag("luns-per-channel", "LUNs per channel.").Default("2").Int()
	blksPerPl  = kingpin.Flag("blocks-per-plane", "Total blocks per plane across the namespace.").Default("512").Int()
	pgsPerBlk  = kingpin.Flag("pages-per-block", "Pages per block.").Default("512").Int()
	secsPerPg  = kingpin.Flag("sectors-per-page", "Sectors per page.").Default("4").Int()
	pgSize     = kingpin.Flag("page-size", "Page size in bytes.").Default("16384").Int()
	oneshotPgs = kingpin.Flag("oneshot-pages", "Pages programmed per one-shot (wordline) operation.").Default("4").Int()

	opPercent      = kingpin.Flag("op-percent", "Over-provisioning percentage.").Default("20").Int()
	gcThresHigh    = kingpin.Flag("gc-free-line-threshold", "Free-line watermark above which foreground GC is skipped.").Default("2").Int()
	enableGCDelay  = kingpin.Flag("enable-gc-delay", "Charge simulated NAND latency for GC-issued reads, writes and erases.").Default("true").Bool()
	victimPolicy   = kingpin.Flag("victim-policy", "Victim selection policy: greedy, cost-benefit or random.").Default("greedy").Enum("greedy", "cost-benefit", "random")
	randomSeed     = kingpin.Flag("random-seed", "Seed for the random victim-selection policy.").Default("1").Int64()
	writeBufBytes  = kingpin.Flag("write-buffer-bytes", "Shared write-buffer capacity in bytes.").Default("67108864").Int()
	earlyCompleted = kingpin.Flag("early-completion", "Complete non-FUA writes at buffer-transfer time rather than NAND program time.").Default("true").Bool()

	readLatencyNs     = kingpin.Flag("nand-read-latency-ns", "NAND cell read latency in nanoseconds.").Default("40000").Int64()
	programLatencyNs  = kingpin.Flag("nand-program-latency-ns", "NAND cell program latency in nanoseconds.").Default("200000").Int64()
	eraseLatencyNs    = kingpin.Flag("nand-erase-latency-ns", "NAND block erase latency in nanoseconds.").Default("3000000").Int64()
	channelBpsNs      = kingpin.Flag("nand-channel-bytes-per-ns", "Channel transfer bandwidth in bytes/ns.").Default("4.0").Float64()
	fw4kReadLatencyNs = kingpin.Flag("fw-4k-read-latency-ns", "Firmware latency for reads at or below the small-request threshold.").Default("21500").Int64()
	fwReadLatencyNs   = kingpin.Flag("fw-read-latency-ns", "Firmware latency for reads above the small-request threshold.").Default("30490").Int64()
	bufferBpsNs       = kingpin.Flag("write-buffer-bytes-per-ns", "Write-buffer drain bandwidth in bytes/ns.").Default("8.0").Float64()

	listenAddr = kingpin.Flag("web.listen-address", "Address on which to expose metrics.").Default(":9142").String()
	logLevel   = kingpin.Flag("log.level", "Log level: debug, info, warn or error.").Default("info").Enum("debug", "info", "warn", "error")
	workers    = kingpin.Flag("workers", "Number of worker-pool goroutines draining scheduled buffer releases.").Default("4").Int()
)

// Parsed holds the outcome of flag parsing: an FTL config ready for
// ftl.New, plus the driver-level settings that aren't part of the FTL
// domain model itself.
type Parsed struct {
	FTL         ftl.Config
	ListenAddr  string
	LogLevel    zerolog.Level
	Workers     int
}

// Parse parses os.Args (via kingpin.Parse) and builds a Parsed config.
// Callers should register kingpin.Version and kingpin.HelpFlag before
// calling this if they want those conveniences.
func Parse() Parsed {
	kingpin.Parse()

	policy := ftl.PolicyGreedy
	switch *victimPolicy {
	case "cost-benefit":
		policy = ftl.PolicyCostBenefit
	case "random":
		policy = ftl.PolicyRandom
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return Parsed{
		FTL: ftl.Config{
			NPartitions:      *partitions,
			Channels:         *channels,
			LunsPerCh:        *lunsPerCh,
			BlksPerPl:        *blksPerPl,
			PgsPerBlk:        *pgsPerBlk,
			SecsPerPg:        *secsPerPg,
			PgSize:           *pgSize,
			OneshotPgs:       *oneshotPgs,
			OPAreaPercent:    *opPercent,
			GCThresLinesHigh: *gcThresHigh,
			EnableGCDelay:    *enableGCDelay,
			VictimPolicy:     policy,
			RandomSeed:       *randomSeed,
			WriteBufferBytes: *writeBufBytes,
			EarlyCompletion:  *earlyCompleted,
			Latencies: nand.Latencies{
				ReadNs:        *readLatencyNs,
				ProgramNs:     *programLatencyNs,
				EraseNs:       *eraseLatencyNs,
				ChannelBpsNs:  *channelBpsNs,
				FwRead4kLatNs: *fw4kReadLatencyNs,
				FwReadLatNs:   *fwReadLatencyNs,
				BufferBpsNs:   *bufferBpsNs,
			},
		},
		ListenAddr: *listenAddr,
		LogLevel:   level,
		Workers:    *workers,
	}
}
