package deadline

import (
	"context"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
)

// Invalidation triggers.
const (
	TriggerEvent  = "event"
	TriggerPoll   = "poll"
	TriggerAdmin  = "admin"
	TriggerImport = "import"
)

func (s *service) Invalidate(ctx context.Context, trigger string) (*InvalidationReport, error) {
	report := &InvalidationReport{
		Trigger:          trigger,
		SnapshotsDropped: s.snapshots.Len(),
		ResultsDropped:   s.results.Len(),
	}
	s.snapshots.Purge()
	s.results.Purge()
	prometheus.RecordInvalidation(s.metrics, trigger)

	if v, err := s.store.Version(ctx); err == nil {
		s.setVersion(v)
		report.CalendarVersion = v
	} else {
		s.logger.Warn("calendar version unavailable after invalidation", logging.Err(err))
	}

	// Shared entries are keyed by calendar version, so stale ones are
	// unreachable already; the purge only reclaims memory. One replica is
	// enough.
	if s.remote != nil {
		n, err := s.purgeRemote(ctx)
		if err != nil {
			s.logger.Warn("shared result cache purge failed", logging.Err(err))
		}
		report.RemoteDropped = n
	}

	s.logger.Info("caches invalidated",
		logging.String("trigger", trigger),
		logging.String("calendar_version", report.CalendarVersion),
		logging.Int("snapshots", report.SnapshotsDropped),
		logging.Int("results", report.ResultsDropped),
		logging.Int64("remote", report.RemoteDropped))
	return report, nil
}

func (s *service) purgeRemote(ctx context.Context) (int64, error) {
	if s.purgeLock != nil {
		ok, err := s.purgeLock.TryLock(ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			s.logger.Debug("shared result cache purge already running elsewhere")
			return 0, nil
		}
		defer func() {
			if err := s.purgeLock.Unlock(ctx); err != nil {
				s.logger.Warn("purge lock release failed", logging.Err(err))
			}
		}()
	}
	return s.remote.DeleteByPrefix(ctx, resultKeyPrefix)
}

func (s *service) RefreshCalendarVersion(ctx context.Context) (bool, error) {
	v, err := s.store.Version(ctx)
	if err != nil {
		s.metrics.CalendarVersionChecks.WithLabelValues("error").Inc()
		return false, err
	}
	s.versionMu.Lock()
	prev := s.version
	s.version = v
	s.versionMu.Unlock()

	if prev == "" || prev == v {
		s.metrics.CalendarVersionChecks.WithLabelValues("unchanged").Inc()
		return false, nil
	}
	s.metrics.CalendarVersionChecks.WithLabelValues("changed").Inc()
	s.logger.Info("calendar version changed", logging.String("from", prev), logging.String("to", v))
	if _, err := s.Invalidate(ctx, TriggerPoll); err != nil {
		return true, err
	}
	return true, nil
}

func (s *service) setVersion(v string) {
	s.versionMu.Lock()
	s.version = v
	s.versionMu.Unlock()
}

//Personal.AI order the ending
