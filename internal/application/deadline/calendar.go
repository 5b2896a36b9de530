package deadline

import (
	"context"
	"fmt"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func (s *service) ClassifyDay(ctx context.Context, court string, date common.Date) (*DayResponse, error) {
	if date.IsZero() {
		return nil, errors.InvalidParam("date is required")
	}
	c, warnings, err := s.resolveCourt(court)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot(ctx, c, date, date)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "loading court calendar").WithDetail(c.Code)
	}
	info := snap.Explain(date)
	return &DayResponse{
		Court:         c,
		Day:           info,
		Working:       info.Classification.IsWorking(),
		Reason:        info.Reason(),
		LowConfidence: snap.LowConfidence(),
		Warnings:      append(warnings, snapshotWarnings(c, snap)...),
	}, nil
}

func (s *service) ClassifyRange(ctx context.Context, court string, from, to common.Date) (*RangeResponse, error) {
	if from.IsZero() || to.IsZero() {
		return nil, errors.InvalidParam("from and to are required")
	}
	if to.Before(from) {
		return nil, errors.New(errors.ErrCodeInvalidRange, "range end precedes start").
			WithDetail(from.String() + ".." + to.String())
	}
	if n := from.DaysUntil(to) + 1; n > s.cfg.MaxRangeDays {
		return nil, errors.New(errors.ErrCodeInvalidRange, "range too long").
			WithDetail(fmt.Sprintf("%d days requested, at most %d allowed", n, s.cfg.MaxRangeDays))
	}
	c, warnings, err := s.resolveCourt(court)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot(ctx, c, from, to)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "loading court calendar").WithDetail(c.Code)
	}
	days, err := snap.ClassifyRange(from, to)
	if err != nil {
		return nil, err
	}
	business := 0
	for _, d := range days {
		if d.Classification.IsWorking() {
			business++
		}
	}
	return &RangeResponse{
		Court:         c,
		From:          from,
		To:            to,
		Days:          days,
		BusinessDays:  business,
		LowConfidence: snap.LowConfidence(),
		Warnings:      append(warnings, snapshotWarnings(c, snap)...),
	}, nil
}

func (s *service) CalendarSnapshot(ctx context.Context, court string, from, to common.Date) (*calendar.Snapshot, error) {
	if to.Before(from) {
		return nil, errors.New(errors.ErrCodeInvalidRange, "range end precedes start")
	}
	c, _, err := s.resolveCourt(court)
	if err != nil {
		return nil, err
	}
	return s.snapshots.Snapshot(ctx, c, from, to)
}

func snapshotWarnings(c calendar.Court, snap *calendar.Snapshot) []string {
	switch {
	case snap.Empty():
		return []string{fmt.Sprintf("calendário sem dados para %s: apenas fins de semana foram considerados", c.Code)}
	case snap.OnlyNational():
		return []string{fmt.Sprintf("calendário de %s contém apenas feriados nacionais", c.Code)}
	}
	return nil
}

//Personal.AI order the ending
