package services

import (
	"time"
)

// HealthStatus is the liveness payload of the web server.
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	DatasetLoaded bool      `json:"dataset_loaded"`
	RecordCount   int       `json:"record_count"`
}

// HealthService reports process liveness and dataset state.
type HealthService struct {
	version string
	data    *DataService
	now     func() time.Time
}

// NewHealthService creates a health service over the data service.
func NewHealthService(version string, data *DataService) *HealthService {
	return &HealthService{version: version, data: data, now: time.Now}
}

// Check returns the current health snapshot. The server stays healthy with
// an empty dataset; analytics endpoints simply return empty results.
func (s *HealthService) Check() HealthStatus {
	count := s.data.RecordCount()
	return HealthStatus{
		Status:        "healthy",
		Timestamp:     s.now().UTC(),
		Version:       s.version,
		DatasetLoaded: count > 0,
		RecordCount:   count,
	}
}
