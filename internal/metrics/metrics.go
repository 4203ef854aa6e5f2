// Package metrics exports reprojection counts to Prometheus.
package metrics

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "envproj"

// Collector implements reproject.Observer with Prometheus counters.
type Collector struct {
	reprojections *prometheus.CounterVec
	samples       prometheus.Counter
	probes        *prometheus.CounterVec
}

// New registers the reprojection counters on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		reprojections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reprojections_total",
			Help:      "Envelope reprojections by outcome",
		}, []string{"outcome"}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Points transformed by the baseline sampler",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Best-effort expansion probes by stage and outcome",
		}, []string{"stage", "outcome"}),
	}
	for _, col := range []prometheus.Collector{c.reprojections, c.samples, c.probes} {
		if err := reg.Register(col); err != nil {
			return nil, errors.Wrap(err, "registering reprojection metrics")
		}
	}
	return c, nil
}

func (c *Collector) ObserveReprojection(samples int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.reprojections.WithLabelValues(outcome).Inc()
	c.samples.Add(float64(samples))
}

func (c *Collector) ObserveProbes(stage string, succeeded, failed int) {
	if succeeded > 0 {
		c.probes.WithLabelValues(stage, "succeeded").Add(float64(succeeded))
	}
	if failed > 0 {
		c.probes.WithLabelValues(stage, "failed").Add(float64(failed))
	}
}

// Write dumps every metric family of g in the Prometheus text format.
func Write(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "writing %s", mf.GetName())
		}
	}
	return nil
}
