package models

import "time"

// SystemMetrics is a lightweight snapshot of process instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64           `json:"cacheHitRatio"`
	CacheHits                uint64            `json:"cacheHits"`
	CacheMisses              uint64            `json:"cacheMisses"`
	RequestsTotal            uint64            `json:"requestsTotal"`
	RequestsByResource       map[string]uint64 `json:"requestsByResource"`
	AverageRequestDurationMs float64           `json:"averageRequestDurationMs"`
	PaymentsGenerated        uint64            `json:"paymentsGenerated"`
	StatusChanges            uint64            `json:"statusChanges"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generatedAt"`
}
