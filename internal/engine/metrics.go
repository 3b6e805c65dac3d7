package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics метрики движка.
// Метрики:
// * voxel_chunks_resident: gauge
// * voxel_chunks_pending: gauge
// * voxel_chunks_generated_total / voxel_chunks_evicted_total: counter
// * voxel_chunk_meshes_total: counter (перестроения сеток)
// * voxel_block_changes_total: counter
// * voxel_tick_duration_seconds: histogram
type Metrics struct {
	resident     prometheus.Gauge
	pending      prometheus.Gauge
	generated    prometheus.Counter
	evicted      prometheus.Counter
	remeshed     prometheus.Counter
	blockChanges prometheus.Counter
	tickDuration prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в reg (nil: без регистрации).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "chunks_resident",
			Help:      "Количество загруженных чанков.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "chunks_pending",
			Help:      "Длина очереди генерации.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_generated_total",
			Help:      "Сгенерированные чанки.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_evicted_total",
			Help:      "Выгруженные чанки.",
		}),
		remeshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunk_meshes_total",
			Help:      "Построенные сетки чанков.",
		}),
		blockChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "block_changes_total",
			Help:      "Изменения вокселей.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "tick_duration_seconds",
			Help:      "Длительность тика движка.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.1, 0.25},
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.resident, m.pending, m.generated, m.evicted, m.remeshed, m.blockChanges, m.tickDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
