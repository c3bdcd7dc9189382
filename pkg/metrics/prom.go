package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records solver activity in Prometheus collectors
type PromSink struct {
	solves       *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	nodes        prometheus.Histogram
	shortage     prometheus.Gauge
	objective    prometheus.Gauge
	improvements prometheus.Counter
}

// NewPromSink registers the solver collectors on reg, or on the default registerer
// when reg is nil. Collectors that are already registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &PromSink{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_solves_total",
			Help: "Total number of solves by final status",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scheduler_solve_duration_seconds",
			Help:    "Wall-clock time spent in the search",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_nodes_explored",
			Help:    "Search nodes explored per solve",
			Buckets: prometheus.ExponentialBuckets(1, 10, 8),
		}),
		shortage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_last_total_shortage",
			Help: "Unfilled positions in the most recent roster",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_last_objective_value",
			Help: "Objective value of the most recent roster",
		}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_incumbent_improvements_total",
			Help: "Times the search found a better complete roster",
		}),
	}

	var err error
	if s.solves, err = register(reg, s.solves); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, s.nodes); err != nil {
		return nil, err
	}
	if s.shortage, err = register(reg, s.shortage); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, s.objective); err != nil {
		return nil, err
	}
	if s.improvements, err = register(reg, s.improvements); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve counts the solve and observes its duration and size
func (s *PromSink) RecordSolve(rec SolveRecord) error {
	status := string(rec.Status)
	s.solves.WithLabelValues(status).Inc()
	s.duration.WithLabelValues(status).Observe(rec.Elapsed.Seconds())
	s.nodes.Observe(float64(rec.NodesExplored))
	s.shortage.Set(float64(rec.TotalShortage))
	s.objective.Set(rec.ObjectiveValue)
	return nil
}

// RecordImprovement counts a new incumbent
func (s *PromSink) RecordImprovement(float64) error {
	s.improvements.Inc()
	return nil
}
