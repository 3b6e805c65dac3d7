package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics регистрирует метрики шины в Prometheus.
// Значения читаются из Stats в момент сбора, фонового цикла нет.
func RegisterMetrics(reg prometheus.Registerer, bus EventBus) error {
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных сообщений.",
		}, func() float64 { return float64(bus.Metrics().Published) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставленных сообщений подписчикам.",
		}, func() float64 { return float64(bus.Metrics().Consumed) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Сообщений, не подошедших ни одному подписчику.",
		}, func() float64 { return float64(bus.Metrics().Dropped) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "eventbus",
			Name:      "messages_inflight",
			Help:      "Глубина вложенной доставки в момент сбора.",
		}, func() float64 { return float64(bus.Metrics().InFlight) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
