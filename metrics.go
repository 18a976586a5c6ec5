package kcp

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a prometheus.Collector that reports one Engine's live
// congestion and reliability state on each scrape, the same pull-based
// shape go-tcpinfo's TCPInfoCollector uses for per-connection TCP stats,
// scaled down to the single connection an Engine represents.
//
// Collect reads Engine fields directly; callers registering Metrics with a
// Prometheus registry that scrapes from a different goroutine than the one
// driving Send/Input/Update must serialize access themselves, exactly as
// the engine's own single-threaded contract requires.
type Metrics struct {
	e      *Engine
	labels prometheus.Labels

	cwndDesc        *prometheus.Desc
	ssthreshDesc    *prometheus.Desc
	rtoDesc         *prometheus.Desc
	srttDesc        *prometheus.Desc
	retransmitsDesc *prometheus.Desc
	deadLinkDesc    *prometheus.Desc
	waitSndDesc     *prometheus.Desc
}

func newMetrics(e *Engine, labels prometheus.Labels) *Metrics {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("kcp_"+name, help, nil, labels)
	}
	return &Metrics{
		e:               e,
		labels:          labels,
		cwndDesc:        desc("cwnd_segments", "current congestion window, in segments"),
		ssthreshDesc:    desc("ssthresh_segments", "slow-start threshold, in segments"),
		rtoDesc:         desc("rto_milliseconds", "current retransmission timeout"),
		srttDesc:        desc("srtt_milliseconds", "smoothed round-trip time estimate"),
		retransmitsDesc: desc("retransmits_total", "cumulative count of retransmitted segments"),
		deadLinkDesc:    desc("dead_link_trips_total", "cumulative count of dead-link detections"),
		waitSndDesc:     desc("wait_send_segments", "segments queued or in flight awaiting acknowledgement"),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.cwndDesc
	ch <- m.ssthreshDesc
	ch <- m.rtoDesc
	ch <- m.srttDesc
	ch <- m.retransmitsDesc
	ch <- m.deadLinkDesc
	ch <- m.waitSndDesc
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	e := m.e
	ch <- prometheus.MustNewConstMetric(m.cwndDesc, prometheus.GaugeValue, float64(e.cwnd))
	ch <- prometheus.MustNewConstMetric(m.ssthreshDesc, prometheus.GaugeValue, float64(e.ssthresh))
	ch <- prometheus.MustNewConstMetric(m.rtoDesc, prometheus.GaugeValue, float64(e.rxRto))
	ch <- prometheus.MustNewConstMetric(m.srttDesc, prometheus.GaugeValue, float64(e.rxSrtt))
	ch <- prometheus.MustNewConstMetric(m.retransmitsDesc, prometheus.CounterValue, float64(e.retransmits))
	ch <- prometheus.MustNewConstMetric(m.deadLinkDesc, prometheus.CounterValue, float64(e.deadLinkTrips))
	ch <- prometheus.MustNewConstMetric(m.waitSndDesc, prometheus.GaugeValue, float64(e.WaitSnd()))
}

// EnableMetrics registers a Metrics collector for this Engine with reg and
// returns it. Labels are attached to every exported series, letting a
// caller running many Engines distinguish them (e.g. a "conv" or "peer"
// label).
func (e *Engine) EnableMetrics(reg prometheus.Registerer, labels prometheus.Labels) (*Metrics, error) {
	m := newMetrics(e, labels)
	if err := reg.Register(m); err != nil {
		return nil, err
	}
	e.metrics = m
	return m, nil
}

// Metrics returns the collector registered by EnableMetrics, or nil if
// metrics were never enabled for this Engine.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}
