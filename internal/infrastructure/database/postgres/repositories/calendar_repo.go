// Package repositories provides PostgreSQL-backed implementations of the
// calendar store and the catalog source.
package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

var _ calendar.ReadWriter = (*CalendarRepository)(nil)

// CalendarRepository is the PostgreSQL calendar.ReadWriter. Every write
// appends a row to calendar_revisions inside the same transaction, and the
// latest revision id is the calendar version.
type CalendarRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCalendarRepository constructs a CalendarRepository.
func NewCalendarRepository(pool *pgxpool.Pool, logger logging.Logger) *CalendarRepository {
	return &CalendarRepository{pool: pool, logger: logger}
}

// ─────────────────────────────────────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────────────────────────────────────

// AddEntry inserts e. A second entry for the same date and jurisdiction is
// rejected with ErrCodeDuplicateEntry.
func (r *CalendarRepository) AddEntry(ctx context.Context, e calendar.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	uf, court := entryKeyColumns(e)

	return postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx, ctx context.Context) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO calendar_entries
				(entry_date, name, scope, uf, court_code, suspends_expedient, extends_deadlines, legal_basis)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (entry_date, scope, uf, court_code) DO NOTHING`,
			e.Date.Time(), e.Name, string(e.Scope), uf, court, e.SuspendsExpedient, e.ExtendsDeadlines, e.LegalBasis)
		if err != nil {
			r.logger.Error("CalendarRepository.AddEntry: insert", logging.Err(err))
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert calendar entry")
		}
		if tag.RowsAffected() == 0 {
			return errors.New(errors.ErrCodeDuplicateEntry, "calendar entry already registered").
				WithDetail(fmt.Sprintf("%s %s", e.Date, e.ScopeKey()))
		}
		return r.revise(ctx, tx, "entry "+e.Date.String()+" "+e.ScopeKey())
	})
}

// AddSuspension inserts p. Re-adding an identical period is a no-op so that
// seeding is idempotent.
func (r *CalendarRepository) AddSuspension(ctx context.Context, p calendar.SuspensionPeriod) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx, ctx context.Context) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO suspension_periods
				(start_date, end_date, kind, uf, court_code, suspends_deadlines, suspends_hearings, legal_basis)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (start_date, end_date, kind, uf, court_code) DO NOTHING`,
			p.Start.Time(), p.End.Time(), string(p.Kind), strings.ToUpper(p.UF), calendar.NormalizeCode(p.CourtCode),
			p.SuspendsDeadlines, p.SuspendsHearings, p.LegalBasis)
		if err != nil {
			r.logger.Error("CalendarRepository.AddSuspension: insert", logging.Err(err))
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert suspension period")
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		return r.revise(ctx, tx, fmt.Sprintf("suspension %s %s..%s", p.Kind, p.Start, p.End))
	})
}

func (r *CalendarRepository) revise(ctx context.Context, tx pgx.Tx, reason string) error {
	if _, err := tx.Exec(ctx, `INSERT INTO calendar_revisions (reason) VALUES ($1)`, reason); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "record calendar revision")
	}
	return nil
}

// entryKeyColumns stores only the columns that take part in the entry's
// jurisdiction so the unique index mirrors Entry.ScopeKey.
func entryKeyColumns(e calendar.Entry) (uf, court string) {
	switch e.Scope {
	case calendar.ScopeNacional:
		return "", ""
	case calendar.ScopeEstadual:
		return strings.ToUpper(e.UF), ""
	default:
		return strings.ToUpper(e.UF), calendar.NormalizeCode(e.CourtCode)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// Holidays implements calendar.Store.
func (r *CalendarRepository) Holidays(ctx context.Context, court calendar.Court, from, to common.Date) ([]calendar.Entry, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, `
		SELECT entry_date, name, scope, uf, court_code, suspends_expedient, extends_deadlines, legal_basis
		FROM calendar_entries
		WHERE entry_date BETWEEN $1 AND $2
		  AND (scope = 'NACIONAL'
		       OR (scope = 'ESTADUAL' AND uf = $3 AND $3 <> '')
		       OR (scope NOT IN ('NACIONAL', 'ESTADUAL') AND court_code = $4))
		ORDER BY entry_date, scope, uf, court_code`,
		from.Time(), to.Time(), strings.ToUpper(court.UF), calendar.NormalizeCode(court.Code))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query calendar entries")
	}
	defer rows.Close()

	out := make([]calendar.Entry, 0, 32)
	for rows.Next() {
		var (
			e     calendar.Entry
			date  time.Time
			scope string
		)
		if err := rows.Scan(&date, &e.Name, &scope, &e.UF, &e.CourtCode,
			&e.SuspendsExpedient, &e.ExtendsDeadlines, &e.LegalBasis); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan calendar entry")
		}
		e.Date = common.DateOf(date)
		e.Scope = calendar.Scope(scope)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate calendar entries")
	}
	logging.LogOperationDuration(r.logger, "CalendarRepository.Holidays", start,
		logging.String("court", court.Code), logging.Int("rows", len(out)))
	return out, nil
}

// Suspensions implements calendar.Store.
func (r *CalendarRepository) Suspensions(ctx context.Context, court calendar.Court) ([]calendar.SuspensionPeriod, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_date, end_date, kind, uf, court_code, suspends_deadlines, suspends_hearings, legal_basis
		FROM suspension_periods
		WHERE court_code = $1
		   OR (court_code = '' AND (uf = '' OR (uf = $2 AND $2 <> '')))
		ORDER BY start_date, kind`,
		calendar.NormalizeCode(court.Code), strings.ToUpper(court.UF))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query suspension periods")
	}
	defer rows.Close()

	var out []calendar.SuspensionPeriod
	for rows.Next() {
		var (
			p          calendar.SuspensionPeriod
			start, end time.Time
			kind       string
		)
		if err := rows.Scan(&start, &end, &kind, &p.UF, &p.CourtCode,
			&p.SuspendsDeadlines, &p.SuspendsHearings, &p.LegalBasis); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan suspension period")
		}
		p.Start, p.End = common.DateOf(start), common.DateOf(end)
		p.Kind = calendar.SuspensionKind(kind)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate suspension periods")
	}
	return out, nil
}

// Version implements calendar.Store.
func (r *CalendarRepository) Version(ctx context.Context) (string, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM calendar_revisions`).Scan(&id); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDatabaseError, "read calendar version")
	}
	return fmt.Sprintf("pg-%d", id), nil
}

//Personal.AI order the ending
