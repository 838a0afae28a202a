package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	assignments *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	members     prometheus.Gauge
	hosts       prometheus.Gauge
	partitions  *prometheus.GaugeVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus registers the assignment metrics on reg
// (prometheus.DefaultRegisterer if nil) under namespace ("kafka_ec2" if empty).
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "kafka_ec2"
	}
	p := &PrometheusCollector{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignor",
			Name:      "assignments_total",
			Help:      "Total assignment calls by strategy and outcome.",
		}, []string{"strategy", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assignor",
			Name:      "assignment_duration_seconds",
			Help:      "Time spent computing an assignment.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs .. ~1.6s
		}, []string{"strategy"}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignor",
			Name:      "members",
			Help:      "Group members seen by the last assignment.",
		}),
		hosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignor",
			Name:      "hosts",
			Help:      "Distinct hosts seen by the last assignment.",
		}),
		partitions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignor",
			Name:      "topic_partitions",
			Help:      "Partitions assigned per topic by the last assignment.",
		}, []string{"topic"}),
	}
	for _, c := range []prometheus.Collector{p.assignments, p.duration, p.members, p.hosts, p.partitions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *PrometheusCollector) RecordAssignment(strategy string, seconds float64, success bool) {
	p.assignments.WithLabelValues(strategy, strconv.FormatBool(success)).Inc()
	p.duration.WithLabelValues(strategy).Observe(seconds)
}

func (p *PrometheusCollector) RecordGroup(members, hosts int) {
	p.members.Set(float64(members))
	p.hosts.Set(float64(hosts))
}

func (p *PrometheusCollector) RecordTopicPartitions(topic string, partitions int) {
	p.partitions.WithLabelValues(topic).Set(float64(partitions))
}
