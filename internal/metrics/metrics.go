// Package metrics exposes the FTL's internal bookkeeping as
// Prometheus gauges and counters. Grounded on the teacher-adjacent
// systemd_exporter's Collector pattern
// (talyz-systemd_exporter/systemd/systemd.go): a NewCollector
// constructor taking a logger, a Describe/Collect pair built from a
// fixed set of *prometheus.Desc values, and const metrics assembled
// on each scrape from live state rather than cached.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// PartitionStats is the narrow read-only view of one partition the
// collector needs. Implemented by ftl.Partition.
type PartitionStats interface {
	ID() int
	FreeLines() int
	FullLines() int
	VictimLines() int
	WriteCredits() int64
	GCCycles() int64
	PagesCopied() int64
	ForegroundGCs() int64
	UserIoNs() int64
	GCIoNs() int64
}

// NamespaceSource is implemented by ftl.Namespace.
type NamespaceSource interface {
	Partitions() []PartitionStats
	WriteBufferUsed() int
	WriteBufferCapacity() int
}

// Collector implements prometheus.Collector over a NamespaceSource.
type Collector struct {
	log    zerolog.Logger
	source NamespaceSource

	freeLines     *prometheus.Desc
	fullLines     *prometheus.Desc
	victimLines   *prometheus.Desc
	writeCredits  *prometheus.Desc
	gcCycles      *prometheus.Desc
	pagesCopied   *prometheus.Desc
	foregroundGCs *prometheus.Desc
	userIoNs      *prometheus.Desc
	gcIoNs        *prometheus.Desc
	bufUsed       *prometheus.Desc
	bufCapacity   *prometheus.Desc
}

// NewCollector builds a Collector over source, logging scrape-time
// anomalies to log.
func NewCollector(log zerolog.Logger, source NamespaceSource) (*Collector, error) {
	ns := "nvmevirt_ftl"
	partLabels := []string{"partition"}
	return &Collector{
		log:    log,
		source: source,
		freeLines: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "free_lines"),
			"Number of free lines in the partition.", partLabels, nil),
		fullLines: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "full_lines"),
			"Number of full lines in the partition.", partLabels, nil),
		victimLines: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "victim_lines"),
			"Number of lines in the victim queue.", partLabels, nil),
		writeCredits: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "write_credits"),
			"Current write-credit balance.", partLabels, nil),
		gcCycles: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "gc_cycles_total"),
			"Total GC cycles run.", partLabels, nil),
		pagesCopied: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "gc_pages_copied_total"),
			"Total valid pages copied by GC.", partLabels, nil),
		foregroundGCs: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "foreground_gc_total"),
			"Total foreground GC invocations triggered by credit exhaustion.", partLabels, nil),
		userIoNs: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "user_io_nanoseconds_total"),
			"Total simulated nanoseconds attributed to host I/O.", partLabels, nil),
		gcIoNs: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "gc_io_nanoseconds_total"),
			"Total simulated nanoseconds attributed to garbage collection.", partLabels, nil),
		bufUsed: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "write_buffer_used_bytes"),
			"Bytes currently allocated from the shared write buffer.", nil, nil),
		bufCapacity: prometheus.NewDesc(
			prometheus.BuildFQName(ns, "", "write_buffer_capacity_bytes"),
			"Capacity of the shared write buffer.", nil, nil),
	}, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.freeLines
	ch <- c.fullLines
	ch <- c.victimLines
	ch <- c.writeCredits
	ch <- c.gcCycles
	ch <- c.pagesCopied
	ch <- c.foregroundGCs
	ch <- c.userIoNs
	ch <- c.gcIoNs
	ch <- c.bufUsed
	ch <- c.bufCapacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	parts := c.source.Partitions()
	for _, p := range parts {
		label := strconv.Itoa(p.ID())
		ch <- prometheus.MustNewConstMetric(c.freeLines, prometheus.GaugeValue, float64(p.FreeLines()), label)
		ch <- prometheus.MustNewConstMetric(c.fullLines, prometheus.GaugeValue, float64(p.FullLines()), label)
		ch <- prometheus.MustNewConstMetric(c.victimLines, prometheus.GaugeValue, float64(p.VictimLines()), label)
		ch <- prometheus.MustNewConstMetric(c.writeCredits, prometheus.GaugeValue, float64(p.WriteCredits()), label)
		ch <- prometheus.MustNewConstMetric(c.gcCycles, prometheus.CounterValue, float64(p.GCCycles()), label)
		ch <- prometheus.MustNewConstMetric(c.pagesCopied, prometheus.CounterValue, float64(p.PagesCopied()), label)
		ch <- prometheus.MustNewConstMetric(c.foregroundGCs, prometheus.CounterValue, float64(p.ForegroundGCs()), label)
		ch <- prometheus.MustNewConstMetric(c.userIoNs, prometheus.CounterValue, float64(p.UserIoNs()), label)
		ch <- prometheus.MustNewConstMetric(c.gcIoNs, prometheus.CounterValue, float64(p.GCIoNs()), label)
	}
	ch <- prometheus.MustNewConstMetric(c.bufUsed, prometheus.GaugeValue, float64(c.source.WriteBufferUsed()))
	ch <- prometheus.MustNewConstMetric(c.bufCapacity, prometheus.GaugeValue, float64(c.source.WriteBufferCapacity()))
}
