package oplog

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics count what went through the store since it was opened.
type Metrics struct {
	Frames         prometheus.Counter
	Chunks         prometheus.Counter
	Ops            prometheus.Counter
	RejectedFrames prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ron",
			Subsystem: "oplog",
			Name:      "frames_total",
			Help:      "Frames stored",
		}),
		Chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ron",
			Subsystem: "oplog",
			Name:      "chunks_total",
			Help:      "Chunks stored",
		}),
		Ops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ron",
			Subsystem: "oplog",
			Name:      "ops_total",
			Help:      "Ops stored",
		}),
		RejectedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ron",
			Subsystem: "oplog",
			Name:      "rejected_frames_total",
			Help:      "Frames that failed to decode or chunk",
		}),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Frames, m.Chunks, m.Ops, m.RejectedFrames}
}

// PebbleCollector exports pebble compaction, memtable and WAL gauges.
// Values are read from db.Metrics() on every scrape.
type PebbleCollector struct {
	db *pebble.DB

	compactionCount         *prometheus.Desc
	compactionEstimatedDebt *prometheus.Desc
	compactionInProgress    *prometheus.Desc

	memtableSize  *prometheus.Desc
	memtableCount *prometheus.Desc

	walFiles        *prometheus.Desc
	walSize         *prometheus.Desc
	walBytesIn      *prometheus.Desc
	walBytesWritten *prometheus.Desc
}

func pebbleDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc("ron_pebble_"+name, help, nil, nil)
}

func NewPebbleCollector(db *pebble.DB) *PebbleCollector {
	return &PebbleCollector{
		db: db,

		compactionCount:         pebbleDesc("compaction_count_total", "Compactions performed"),
		compactionEstimatedDebt: pebbleDesc("compaction_estimated_debt_bytes", "Estimated bytes to compact"),
		compactionInProgress:    pebbleDesc("compaction_in_progress_bytes", "Bytes in ongoing compactions"),

		memtableSize:  pebbleDesc("memtable_size_bytes", "Memtable size"),
		memtableCount: pebbleDesc("memtable_count", "Memtables in use"),

		walFiles:        pebbleDesc("wal_files", "Live WAL files"),
		walSize:         pebbleDesc("wal_size_bytes", "Live WAL size"),
		walBytesIn:      pebbleDesc("wal_bytes_in_total", "Logical bytes written to the WAL"),
		walBytesWritten: pebbleDesc("wal_bytes_written_total", "Physical bytes written to the WAL"),
	}
}

func (c *PebbleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.compactionCount
	ch <- c.compactionEstimatedDebt
	ch <- c.compactionInProgress
	ch <- c.memtableSize
	ch <- c.memtableCount
	ch <- c.walFiles
	ch <- c.walSize
	ch <- c.walBytesIn
	ch <- c.walBytesWritten
}

func (c *PebbleCollector) Collect(ch chan<- prometheus.Metric) {
	if c.db == nil {
		return
	}
	m := c.db.Metrics()

	ch <- prometheus.MustNewConstMetric(c.compactionCount, prometheus.CounterValue, float64(m.Compact.Count))
	ch <- prometheus.MustNewConstMetric(c.compactionEstimatedDebt, prometheus.GaugeValue, float64(m.Compact.EstimatedDebt))
	ch <- prometheus.MustNewConstMetric(c.compactionInProgress, prometheus.GaugeValue, float64(m.Compact.InProgressBytes))

	ch <- prometheus.MustNewConstMetric(c.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
	ch <- prometheus.MustNewConstMetric(c.memtableCount, prometheus.GaugeValue, float64(m.MemTable.Count))

	ch <- prometheus.MustNewConstMetric(c.walFiles, prometheus.GaugeValue, float64(m.WAL.Files))
	ch <- prometheus.MustNewConstMetric(c.walSize, prometheus.GaugeValue, float64(m.WAL.Size))
	ch <- prometheus.MustNewConstMetric(c.walBytesIn, prometheus.CounterValue, float64(m.WAL.BytesIn))
	ch <- prometheus.MustNewConstMetric(c.walBytesWritten, prometheus.CounterValue, float64(m.WAL.BytesWritten))
}
