// Package dashboard assembles the admin overview: the full appointment list,
// the per-patient aggregation derived from it, the backend report summary,
// and a latency snapshot of the portal's own upstream calls.
//
// The dashboard never serves a cached view on request; every load refetches
// from the backend so an upload on another console is visible immediately.
// The retained snapshot exists only to answer concurrent refreshes
// consistently and to discard results that finished out of order.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carewell/clinic-portal/internal/patients"
	"github.com/carewell/clinic-portal/internal/reports"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// API is the slice of the upstream client the dashboard needs.
type API interface {
	ListAppointments(ctx context.Context) ([]upstream.Appointment, error)
	Reports(ctx context.Context) (*upstream.Reports, error)
}

// Snapshot is one fully-assembled dashboard view.
type Snapshot struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	Appointments    []upstream.Appointment `json:"appointments"`
	Patients        []patients.Patient     `json:"patients"`
	Reports         reports.Summary        `json:"reports"`
	UpstreamLatency LatencySnapshot        `json:"upstream_latency"`
}

// Service builds dashboard snapshots.
type Service struct {
	api      API
	gatherer prometheus.Gatherer
	logger   *logging.Logger

	mu           sync.Mutex
	nextGen      uint64
	installedGen uint64
	current      *Snapshot
}

func NewService(api API, gatherer prometheus.Gatherer, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Service{
		api:      api,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Refresh fetches appointments and reports concurrently and installs the
// assembled snapshot. Each refresh is stamped with a generation taken at
// start; a result that finishes after a later-started refresh has already
// landed is discarded and the fresher snapshot is returned instead, so a
// slow response can never overwrite newer data.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	var (
		appts   []upstream.Appointment
		rpts    *upstream.Reports
		apptErr error
		rptErr  error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		appts, apptErr = s.api.ListAppointments(ctx)
	}()
	go func() {
		defer wg.Done()
		rpts, rptErr = s.api.Reports(ctx)
	}()
	wg.Wait()

	if apptErr != nil {
		return nil, apptErr
	}
	if rptErr != nil {
		return nil, rptErr
	}

	snap := &Snapshot{
		GeneratedAt:     time.Now().UTC(),
		Appointments:    appts,
		Patients:        patients.Aggregate(appts),
		Reports:         reports.Build(*rpts),
		UpstreamLatency: snapshotUpstreamLatency(s.gatherer),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.installedGen {
		s.logger.Debug("discarding stale dashboard refresh", "generation", gen, "installed", s.installedGen)
		return s.current, nil
	}
	s.installedGen = gen
	s.current = snap
	return snap, nil
}

// Current returns the last installed snapshot, or nil before the first
// successful refresh.
func (s *Service) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
