package kvmetrics

import "github.com/prometheus/client_golang/prometheus"

// CounterFor exposes the labelled counters to the external test package.
func CounterFor(kind, name string) prometheus.Counter {
	switch kind {
	case "added":
		return entriesAdded.WithLabelValues(name)
	case "deleted":
		return entriesDeleted.WithLabelValues(name)
	case "changed":
		return entriesChanged.WithLabelValues(name)
	case "cleared":
		return collectionCleared.WithLabelValues(name)
	default:
		return nil
	}
}

// GaugeFor exposes the entries gauge to the external test package.
func GaugeFor(name string) prometheus.Gauge {
	return entriesTotal.WithLabelValues(name)
}
