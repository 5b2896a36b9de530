package deadline

import (
	"context"
	"time"

	"github.com/turtacn/PrazoCerto/internal/domain/conflict"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

func (s *service) DetectConflicts(ctx context.Context, req *ConflictRequest) (*ConflictResponse, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeConflictInput, "request is required")
	}
	timer := time.Now()

	// Deadlines usually arrive with a bare court code; fill UF and tier from
	// the registry so that state holidays and recess apply.
	deadlines := make([]conflict.Deadline, len(req.Deadlines))
	for i, dl := range req.Deadlines {
		if dl.Court.Code != "" && dl.Court.IsNationalOnly() {
			if c, ok := s.courts.Lookup(dl.Court.Code); ok {
				dl.Court = c
			}
		}
		deadlines[i] = dl
	}

	findings, err := s.detector.Detect(ctx, deadlines)
	s.metrics.ConflictDuration.WithLabelValues().Observe(time.Since(timer).Seconds())
	if err != nil {
		s.metrics.ConflictRunsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("conflict detection failed", logging.Int("deadlines", len(deadlines)), logging.Err(err))
		return nil, err
	}
	s.metrics.ConflictRunsTotal.WithLabelValues("ok").Inc()

	bySeverity := make(map[conflict.Severity]int)
	for _, f := range findings {
		bySeverity[f.Severity]++
		s.metrics.ConflictFindingsTotal.WithLabelValues(string(f.Kind), string(f.Severity)).Inc()
	}
	if findings == nil {
		findings = []conflict.Finding{}
	}
	s.logger.Debug("conflicts detected", logging.Int("deadlines", len(deadlines)), logging.Int("findings", len(findings)))
	return &ConflictResponse{Findings: findings, BySeverity: bySeverity, Analysed: len(deadlines)}, nil
}

//Personal.AI order the ending
