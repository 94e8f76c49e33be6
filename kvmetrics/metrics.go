// Package kvmetrics exports Prometheus metrics for kvcollection.Collection instances.
package kvmetrics

import (
	"github.com/amp-labs/kvcollection/kvcollection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesAdded = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "kvcollection_added_total",
		Help: "The total number of entries added to the collection",
	}, []string{"collection"})

	entriesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "kvcollection_deleted_total",
		Help: "The total number of entries removed from the collection",
	}, []string{"collection"})

	entriesChanged = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "kvcollection_changed_total",
		Help: "The total number of entry values replaced",
	}, []string{"collection"})

	collectionCleared = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "kvcollection_cleared_total",
		Help: "The total number of times the collection was cleared",
	}, []string{"collection"})

	entriesTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "kvcollection_entries",
		Help: "The number of entries currently in the collection",
	}, []string{"collection"})
)

// Instrument takes over the handler slots of c so every structural change is counted
// under the given collection name. Handlers already registered keep working: each
// instrumented handler updates the metrics first and then calls the previous one.
//
// Register any other handlers before calling Instrument; assigning a handler afterwards
// replaces the instrumented one for that event.
func Instrument[K comparable, V any](c *kvcollection.Collection[K, V], name string) {
	added := entriesAdded.WithLabelValues(name)
	deleted := entriesDeleted.WithLabelValues(name)
	changed := entriesChanged.WithLabelValues(name)
	cleared := collectionCleared.WithLabelValues(name)
	size := entriesTotal.WithLabelValues(name)

	size.Set(float64(c.Count()))

	prevAdd := c.OnAdd
	c.OnAdd = func(key K, value V) {
		added.Inc()
		size.Set(float64(c.Count()))

		if prevAdd != nil {
			prevAdd(key, value)
		}
	}

	prevDelete := c.OnDelete
	c.OnDelete = func(key K, value V) {
		deleted.Inc()
		size.Set(float64(c.Count()))

		if prevDelete != nil {
			prevDelete(key, value)
		}
	}

	prevChange := c.OnChange
	c.OnChange = func(key K, oldValue, newValue V) {
		changed.Inc()

		if prevChange != nil {
			prevChange(key, oldValue, newValue)
		}
	}

	prevClear := c.OnClear
	c.OnClear = func(removed *kvcollection.Collection[K, V]) {
		cleared.Inc()
		size.Set(0)

		if prevClear != nil {
			prevClear(removed)
		}
	}
}

// Forget drops the metric series recorded for the named collection.
func Forget(name string) {
	entriesAdded.DeleteLabelValues(name)
	entriesDeleted.DeleteLabelValues(name)
	entriesChanged.DeleteLabelValues(name)
	collectionCleared.DeleteLabelValues(name)
	entriesTotal.DeleteLabelValues(name)
}
