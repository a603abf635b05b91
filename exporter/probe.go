// Package exporter exposes switch statistics in the Prometheus text format.
package exporter

import (
	"runtime"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"prosafe_exporter/prosafe"
)

// Set at link time with -ldflags "-X prosafe_exporter/exporter.Version=...".
var (
	Version  = "dev"
	Revision = ""
)

type metrics struct {
	buildInfo     *prometheus.GaugeVec
	up            *prometheus.GaugeVec
	receiveBytes  *prometheus.GaugeVec
	transmitBytes *prometheus.GaugeVec
	errorPackets  *prometheus.GaugeVec
	linkSpeed     *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer, withInstance bool) *metrics {
	upLabels := []string{}
	portLabels := []string{"port"}
	if withInstance {
		upLabels = []string{"instance"}
		portLabels = []string{"instance", "port"}
	}

	m := &metrics{
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosafe_build_info",
			Help: "A metric with a constant '1' value labeled by version, revision and goversion.",
		}, []string{"version", "revision", "goversion"}),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosafe_up",
			Help: "The last query is successful.",
		}, upLabels),
		receiveBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosafe_receive_bytes_total",
			Help: "Incoming transfer in bytes.",
		}, portLabels),
		transmitBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosafe_transmit_bytes_total",
			Help: "Outgoing transfer in bytes.",
		}, portLabels),
		errorPackets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosafe_error_packets_total",
			Help: "Transfer error in packets.",
		}, portLabels),
		linkSpeed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prosafe_link_speed",
			Help: "Link speed in Mbps.",
		}, portLabels),
	}
	reg.MustRegister(m.buildInfo, m.up, m.receiveBytes, m.transmitBytes, m.errorPackets, m.linkSpeed)
	m.buildInfo.WithLabelValues(Version, Revision, runtime.Version()).Set(1)
	return m
}

// Probe queries sw and returns a registry holding its metrics. A new registry
// is built for every probe. When instance is non-empty every series carries
// it as the "instance" label. Both queries run under the switch's lock.
func Probe(sw *prosafe.Switch, instance string, locks *prosafe.Locks) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg, instance != "")

	labels := func(extra ...string) []string {
		if instance != "" {
			return append([]string{instance}, extra...)
		}
		return extra
	}

	logger := log.WithPrefix(sw.Hostname)
	logger.Debugf("Access to switch through %s", sw.Interface)

	locks.Do(sw.LockKey(), func() {
		ports, err := sw.PortStats()
		if err != nil {
			m.up.WithLabelValues(labels()...).Set(0)
			logger.Errorf("Failed to access: %s", err)
		} else {
			for _, s := range ports {
				l := labels(portLabel(s.PortNo))
				m.receiveBytes.WithLabelValues(l...).Set(float64(s.RecvBytes))
				m.transmitBytes.WithLabelValues(l...).Set(float64(s.SendBytes))
				m.errorPackets.WithLabelValues(l...).Set(float64(s.ErrorPkts))
			}
			m.up.WithLabelValues(labels()...).Set(1)
		}

		speeds, err := sw.SpeedStats()
		if err != nil {
			logger.Errorf("Failed to access: %s", err)
			return
		}
		for _, s := range speeds {
			m.linkSpeed.WithLabelValues(labels(portLabel(s.PortNo))...).Set(float64(s.Link.Mbps()))
		}
	})

	return reg
}

func portLabel(port uint8) string {
	return strconv.Itoa(int(port))
}
