package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/database/postgres"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

var _ catalog.Source = (*CatalogRepository)(nil)

// CatalogRepository persists deadline catalog entries in deadline_catalog.
type CatalogRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool, logger logging.Logger) *CatalogRepository {
	return &CatalogRepository{pool: pool, logger: logger}
}

// LoadEntries implements catalog.Source. Rows are returned ordered by code.
func (r *CatalogRepository) LoadEntries(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, statute, article, title, category, duration, mode, class,
		       public_entity_doubling, multi_litigant_doubling, suspends_on_recess,
		       trigger_kind, keywords
		FROM deadline_catalog
		ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "query deadline catalog")
	}
	defer rows.Close()

	var out []catalog.Entry
	for rows.Next() {
		var (
			e           catalog.Entry
			mode, class string
		)
		if err := rows.Scan(&e.Code, &e.Statute, &e.Article, &e.Title, &e.Category, &e.Duration, &mode, &class,
			&e.PublicEntityDoubling, &e.MultiLitigantDoubling, &e.SuspendsOnRecess, &e.Trigger, &e.Keywords); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan catalog entry")
		}
		e.Mode, e.Class = catalog.Mode(mode), catalog.Class(class)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate deadline catalog")
	}
	r.logger.Debug("catalog loaded from postgres", logging.Int("entries", len(out)))
	return out, nil
}

// Upsert writes entries in one transaction, replacing rows with the same code.
// Invalid entries abort the whole batch.
func (r *CatalogRepository) Upsert(ctx context.Context, entries []catalog.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx, ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			keywords := e.Keywords
			if keywords == nil {
				keywords = []string{}
			}
			batch.Queue(`
				INSERT INTO deadline_catalog
					(code, statute, article, title, category, duration, mode, class,
					 public_entity_doubling, multi_litigant_doubling, suspends_on_recess, trigger_kind, keywords, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
				ON CONFLICT (code) DO UPDATE SET
					statute = EXCLUDED.statute, article = EXCLUDED.article, title = EXCLUDED.title,
					category = EXCLUDED.category, duration = EXCLUDED.duration, mode = EXCLUDED.mode,
					class = EXCLUDED.class, public_entity_doubling = EXCLUDED.public_entity_doubling,
					multi_litigant_doubling = EXCLUDED.multi_litigant_doubling,
					suspends_on_recess = EXCLUDED.suspends_on_recess, trigger_kind = EXCLUDED.trigger_kind,
					keywords = EXCLUDED.keywords, updated_at = now()`,
				catalog.NormalizeCode(e.Code), e.Statute, e.Article, e.Title, e.Category, e.Duration,
				string(e.Mode), string(e.Class), e.PublicEntityDoubling, e.MultiLitigantDoubling,
				e.SuspendsOnRecess, e.Trigger, keywords)
		}
		br := tx.SendBatch(ctx, batch)
		for range entries {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "upsert catalog entry")
			}
		}
		if err := br.Close(); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "upsert catalog batch")
		}
		r.logger.Info("catalog entries upserted", logging.Int("entries", len(entries)))
		return nil
	})
}

//Personal.AI order the ending
