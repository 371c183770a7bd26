package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Enhancement pipeline metrics.
var (
	EnhancementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photopro",
			Name:      "enhancements_total",
			Help:      "Processed images by outcome",
		},
		[]string{"status"}, // "success" / "failure"
	)

	ImagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "photopro",
			Name:      "images_total",
			Help:      "Images returned by the model",
		},
	)

	EnhancementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "photopro",
			Name:      "enhancement_duration_seconds",
			Help:      "Time spent enhancing one image, including retries",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
	)

	FiltersSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photopro",
			Name:      "filters_skipped_total",
			Help:      "Filter selections left out of a composed prompt",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(EnhancementsTotal)
	prometheus.MustRegister(ImagesTotal)
	prometheus.MustRegister(EnhancementDuration)
	prometheus.MustRegister(FiltersSkippedTotal)
}

// ObserveEnhancement records one processed image.
func ObserveEnhancement(success bool, images int, d time.Duration) {
	status := "failure"
	if success {
		status = "success"
	}
	EnhancementsTotal.WithLabelValues(status).Inc()
	ImagesTotal.Add(float64(images))
	EnhancementDuration.Observe(d.Seconds())
}

func ObserveSkippedFilter(reason string) {
	FiltersSkippedTotal.WithLabelValues(reason).Inc()
}
