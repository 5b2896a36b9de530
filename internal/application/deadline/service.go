// Package deadline is the application layer of PrazoCerto. It resolves
// courts and catalog entries, loads calendar snapshots through a cache, runs
// the computation engine and the conflict detector, and keeps the caches
// consistent with the calendar store.
//
// Every delivery surface (HTTP, CLI, change-feed consumer, scheduler) talks
// to the Service interface only.
package deadline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/internal/domain/computation"
	"github.com/turtacn/PrazoCerto/internal/domain/conflict"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────────────────────────────────────

// ComputeRequest asks for one deadline. Either CatalogCode or Duration must
// be given; when both are, the catalog entry wins unless the code is unknown.
type ComputeRequest struct {
	CatalogCode          string      `json:"catalog_code,omitempty"`
	TriggerDate          common.Date `json:"trigger_date"`
	TriggerKind          string      `json:"trigger_kind,omitempty"`
	Duration             int         `json:"duration,omitempty"`
	Mode                 string      `json:"mode,omitempty"`
	Class                string      `json:"class,omitempty"`
	Rules                []string    `json:"rules,omitempty"`
	Court                string      `json:"court,omitempty"`
	ElectronicProceeding bool        `json:"electronic_proceeding,omitempty"`
}

// ComputeResponse wraps the engine result. Result is shared with the cache
// and must not be modified.
type ComputeResponse struct {
	Result      *computation.Result `json:"result"`
	RequestHash string              `json:"request_hash"`
	Cached      bool                `json:"cached"`
	// Warnings merges the engine warnings with those raised while resolving
	// the court and the catalog entry.
	Warnings []string `json:"warnings,omitempty"`
}

// DayResponse is the classification of one date.
type DayResponse struct {
	Court         calendar.Court   `json:"court"`
	Day           calendar.DayInfo `json:"day"`
	Working       bool             `json:"working"`
	Reason        string           `json:"reason,omitempty"`
	LowConfidence bool             `json:"low_confidence"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// RangeResponse classifies every date of a range.
type RangeResponse struct {
	Court         calendar.Court     `json:"court"`
	From          common.Date        `json:"from"`
	To            common.Date        `json:"to"`
	Days          []calendar.DayInfo `json:"days"`
	BusinessDays  int                `json:"business_days"`
	LowConfidence bool               `json:"low_confidence"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// ConflictRequest is a portfolio to analyse.
type ConflictRequest struct {
	Deadlines []conflict.Deadline `json:"deadlines"`
}

// ConflictResponse lists the findings, most severe first.
type ConflictResponse struct {
	Findings   []conflict.Finding        `json:"findings"`
	BySeverity map[conflict.Severity]int `json:"by_severity"`
	Analysed   int                       `json:"analysed"`
}

// InvalidationReport describes one cache purge.
type InvalidationReport struct {
	Trigger          string `json:"trigger"`
	CalendarVersion  string `json:"calendar_version"`
	SnapshotsDropped int    `json:"snapshots_dropped"`
	ResultsDropped   int    `json:"results_dropped"`
	RemoteDropped    int64  `json:"remote_dropped"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Service interface
// ─────────────────────────────────────────────────────────────────────────────

// Service is the application-level contract of the deadline engine.
type Service interface {
	// ComputeDeadline resolves the request against the catalog and the
	// court calendar and computes the due date.
	ComputeDeadline(ctx context.Context, req *ComputeRequest) (*ComputeResponse, error)

	// ClassifyDay classifies one date for a court.
	ClassifyDay(ctx context.Context, court string, date common.Date) (*DayResponse, error)

	// ClassifyRange classifies every date in [from, to] for a court.
	ClassifyRange(ctx context.Context, court string, from, to common.Date) (*RangeResponse, error)

	// DetectConflicts analyses a portfolio of computed deadlines.
	DetectConflicts(ctx context.Context, req *ConflictRequest) (*ConflictResponse, error)

	// GetCatalogEntry returns one catalog entry.
	GetCatalogEntry(ctx context.Context, code string) (*catalog.Entry, error)

	// SearchCatalog filters the catalog.
	SearchCatalog(ctx context.Context, q catalog.Query) ([]catalog.Entry, error)

	// CalendarSnapshot returns the snapshot of a court covering [from, to].
	CalendarSnapshot(ctx context.Context, court string, from, to common.Date) (*calendar.Snapshot, error)

	// ResolveCourt maps a court code to its registry record.
	ResolveCourt(code string) (calendar.Court, bool)

	// Invalidate drops every cached snapshot and result.
	Invalidate(ctx context.Context, trigger string) (*InvalidationReport, error)

	// RefreshCalendarVersion polls the store and invalidates the caches when
	// the calendar version moved.
	RefreshCalendarVersion(ctx context.Context) (bool, error)

	// ReloadCatalog re-reads the catalog source.
	ReloadCatalog(ctx context.Context) (int, error)

	// Ready reports whether the calendar store is reachable.
	Ready(ctx context.Context) error
}

// ─────────────────────────────────────────────────────────────────────────────
// Collaborators
// ─────────────────────────────────────────────────────────────────────────────

// ResultCache is the optional second-level result cache shared between
// replicas.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// Locker serialises the shared-cache purge across replicas.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// ReloadableCatalog is a catalog whose table can be swapped.
type ReloadableCatalog interface {
	catalog.Catalog
	Reload(entries []catalog.Entry) error
	Len() int
}

// Config holds service tunables.
type Config struct {
	// DefaultCourt is used when a request names no court.
	DefaultCourt string
	// LookaheadDays is the calendar window loaded past the trigger date.
	LookaheadDays   int
	ResultCacheSize int
	ResultTTL       time.Duration
	// MaxRangeDays bounds ClassifyRange.
	MaxRangeDays int
	// DefaultTriggerKind applies when a request names none.
	DefaultTriggerKind computation.TriggerKind
}

func (c *Config) applyDefaults() {
	if c.LookaheadDays <= 0 {
		c.LookaheadDays = 730
	}
	if c.ResultCacheSize <= 0 {
		c.ResultCacheSize = 4096
	}
	if c.ResultTTL <= 0 {
		c.ResultTTL = 24 * time.Hour
	}
	if c.MaxRangeDays <= 0 {
		c.MaxRangeDays = 731
	}
	if c.DefaultTriggerKind == "" {
		c.DefaultTriggerKind = computation.TriggerIntimacaoAdvogado
	}
}

// Deps are the collaborators of the service. Store, Courts and Catalog are
// required.
type Deps struct {
	Store         calendar.Store
	StoreName     string
	Courts        calendar.CourtRegistry
	Catalog       ReloadableCatalog
	CatalogSource catalog.Source
	Engine        *computation.Engine
	Detector      *conflict.Detector
	Snapshots     *SnapshotCache
	Results       ResultCache
	PurgeLock     Locker
	Metrics       *prometheus.AppMetrics
	Logger        logging.Logger
}

// ─────────────────────────────────────────────────────────────────────────────
// Implementation
// ─────────────────────────────────────────────────────────────────────────────

const resultKeyPrefix = "result:"

type service struct {
	cfg           Config
	store         calendar.Store
	courts        calendar.CourtRegistry
	catalog       ReloadableCatalog
	catalogSource catalog.Source
	engine        *computation.Engine
	detector      *conflict.Detector
	snapshots     *SnapshotCache
	results       *lru.Cache[string, *computation.Result]
	remote        ResultCache
	purgeLock     Locker
	metrics       *prometheus.AppMetrics
	logger        logging.Logger

	versionMu sync.Mutex
	version   string
}

// NewService wires a Service. Missing optional collaborators get defaults:
// a fresh engine, a snapshot cache over Store, and a detector reading
// snapshots through that cache.
func NewService(cfg Config, deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, errors.InvalidParam("calendar store is required")
	}
	if deps.Courts == nil {
		return nil, errors.InvalidParam("court registry is required")
	}
	if deps.Catalog == nil {
		return nil, errors.InvalidParam("catalog is required")
	}
	cfg.applyDefaults()
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = prometheus.NewNopMetrics()
	}
	if deps.StoreName == "" {
		deps.StoreName = "memory"
	}
	if deps.Engine == nil {
		deps.Engine = computation.NewEngine()
	}
	if deps.Snapshots == nil {
		sc, err := NewSnapshotCache(deps.Store, deps.StoreName, 0, deps.Metrics, deps.Logger)
		if err != nil {
			return nil, err
		}
		deps.Snapshots = sc
	}
	if deps.Detector == nil {
		deps.Detector = conflict.NewDetector(conflict.WithSnapshots(deps.Snapshots), conflict.WithLogger(deps.Logger))
	}
	results, err := lru.New[string, *computation.Result](cfg.ResultCacheSize)
	if err != nil {
		return nil, err
	}

	s := &service{
		cfg:           cfg,
		store:         deps.Store,
		courts:        deps.Courts,
		catalog:       deps.Catalog,
		catalogSource: deps.CatalogSource,
		engine:        deps.Engine,
		detector:      deps.Detector,
		snapshots:     deps.Snapshots,
		results:       results,
		remote:        deps.Results,
		purgeLock:     deps.PurgeLock,
		metrics:       deps.Metrics,
		logger:        deps.Logger.Named("deadline"),
	}
	s.metrics.CatalogEntries.WithLabelValues().Set(float64(deps.Catalog.Len()))
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolution helpers
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) ResolveCourt(code string) (calendar.Court, bool) {
	return s.courts.Lookup(code)
}

// resolveCourt falls back to a national-only court for unknown codes and
// says so in a warning.
func (s *service) resolveCourt(code string) (calendar.Court, []string, error) {
	if strings.TrimSpace(code) == "" {
		code = s.cfg.DefaultCourt
	}
	if calendar.NormalizeCode(code) == "" {
		return calendar.Court{}, nil, errors.InvalidParam("court is required")
	}
	if c, ok := s.courts.Lookup(code); ok {
		return c, nil, nil
	}
	c := calendar.NationalOnly(code)
	s.metrics.WarningsTotal.WithLabelValues("court_unknown").Inc()
	return c, []string{fmt.Sprintf(
		"tribunal %s não cadastrado: considerados apenas feriados nacionais e entradas registradas para este código", c.Code)}, nil
}

func (s *service) resolveEntry(req *ComputeRequest) (catalog.Entry, []string, error) {
	var warnings []string
	if req.CatalogCode != "" {
		e, err := s.catalog.GetByCode(req.CatalogCode)
		if err == nil {
			if req.Duration > 0 && req.Duration != e.Duration {
				warnings = append(warnings, fmt.Sprintf(
					"duração informada (%d) ignorada: prevalece o catálogo (%s, %d dias)", req.Duration, e.Reference(), e.Duration))
			}
			return e, warnings, nil
		}
		if !errors.IsCode(err, errors.CodeCatalogNotFound) || req.Duration <= 0 {
			return catalog.Entry{}, nil, err
		}
		s.metrics.WarningsTotal.WithLabelValues("catalog_fallback").Inc()
		warnings = append(warnings, fmt.Sprintf(
			"código %s não encontrado no catálogo: usada a duração informada", req.CatalogCode))
	}

	mode := catalog.ModeBusinessDays
	if req.Mode != "" {
		m, err := catalog.ParseMode(req.Mode)
		if err != nil {
			return catalog.Entry{}, nil, err
		}
		mode = m
	}
	e := catalog.Manual(req.Duration, mode)
	if req.Class != "" {
		c, err := catalog.ParseClass(req.Class)
		if err != nil {
			return catalog.Entry{}, nil, err
		}
		e.Class = c
	}
	return e, warnings, nil
}

func (s *service) buildRequest(req *ComputeRequest) (computation.Request, []string, error) {
	court, courtWarnings, err := s.resolveCourt(req.Court)
	if err != nil {
		return computation.Request{}, nil, err
	}
	entry, entryWarnings, err := s.resolveEntry(req)
	if err != nil {
		return computation.Request{}, nil, err
	}
	kind := s.cfg.DefaultTriggerKind
	if req.TriggerKind != "" {
		if kind, err = computation.ParseTriggerKind(req.TriggerKind); err != nil {
			return computation.Request{}, nil, err
		}
	}
	rules, err := computation.ParseRules(req.Rules)
	if err != nil {
		return computation.Request{}, nil, err
	}

	creq := computation.FromCatalog(entry, req.TriggerDate, kind, court)
	if entry.IsManual() {
		creq.CatalogCode = ""
	}
	creq.Rules = append(creq.Rules, rules...)
	creq.ElectronicProceeding = req.ElectronicProceeding
	return creq, append(courtWarnings, entryWarnings...), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ComputeDeadline
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) ComputeDeadline(ctx context.Context, req *ComputeRequest) (resp *ComputeResponse, err error) {
	if req == nil {
		return nil, errors.InvalidParam("request is required")
	}
	start := time.Now()
	mode := "unknown"
	cached := false
	defer func() {
		prometheus.RecordComputation(s.metrics, mode, err, cached, time.Since(start))
		if err != nil {
			prometheus.RecordError(s.metrics, "compute", errors.GetCode(err).String())
		}
	}()

	creq, warnings, err := s.buildRequest(req)
	if err != nil {
		return nil, err
	}
	mode = string(creq.Mode)
	if req.TriggerDate.IsZero() {
		return nil, errors.InvalidParam("trigger date is required")
	}

	snap, err := s.snapshots.Snapshot(ctx, creq.Court, creq.TriggerDate, creq.TriggerDate.AddDays(s.cfg.LookaheadDays))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCalendarUnreadable, "loading court calendar").WithDetail(creq.Court.Code)
	}

	hash := creq.Hash()
	key := hash + ":" + snap.Version()
	res, cached := s.lookupResult(ctx, key)
	if !cached {
		res, err = s.engine.Compute(creq, snap)
		if err != nil {
			s.logger.Warn("deadline computation failed",
				logging.String("court", creq.Court.Code),
				logging.String("trigger", creq.TriggerDate.String()),
				logging.Int("duration", creq.Duration),
				logging.Err(err))
			return nil, err
		}
		s.storeResult(ctx, key, res)
	}
	if res.LowConfidence {
		s.metrics.WarningsTotal.WithLabelValues("low_confidence").Inc()
	}

	s.logger.Debug("deadline computed",
		logging.String("court", creq.Court.Code),
		logging.String("catalog_code", creq.CatalogCode),
		logging.String("trigger", creq.TriggerDate.String()),
		logging.String("due", res.DueDate.String()),
		logging.Bool("cached", cached))

	return &ComputeResponse{
		Result:      res,
		RequestHash: hash,
		Cached:      cached,
		Warnings:    append(warnings, res.Warnings...),
	}, nil
}

func (s *service) lookupResult(ctx context.Context, key string) (*computation.Result, bool) {
	if res, ok := s.results.Get(key); ok {
		prometheus.RecordCacheAccess(s.metrics, "result", true)
		return res, true
	}
	prometheus.RecordCacheAccess(s.metrics, "result", false)
	if s.remote == nil {
		return nil, false
	}
	var res computation.Result
	if err := s.remote.Get(ctx, resultKeyPrefix+key, &res); err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Warn("shared result cache read failed", logging.Err(err))
		}
		prometheus.RecordCacheAccess(s.metrics, "result_remote", false)
		return nil, false
	}
	prometheus.RecordCacheAccess(s.metrics, "result_remote", true)
	s.results.Add(key, &res)
	return &res, true
}

func (s *service) storeResult(ctx context.Context, key string, res *computation.Result) {
	s.results.Add(key, res)
	if s.remote == nil {
		return
	}
	if err := s.remote.Set(ctx, resultKeyPrefix+key, res, s.cfg.ResultTTL); err != nil {
		s.logger.Warn("shared result cache write failed", logging.Err(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Catalog
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) GetCatalogEntry(_ context.Context, code string) (*catalog.Entry, error) {
	e, err := s.catalog.GetByCode(code)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *service) SearchCatalog(_ context.Context, q catalog.Query) ([]catalog.Entry, error) {
	if q.Mode != "" && !q.Mode.IsValid() {
		return nil, errors.InvalidParam("unknown counting mode").WithDetail(string(q.Mode))
	}
	if q.Class != "" && !q.Class.IsValid() {
		return nil, errors.InvalidParam("unknown deadline class").WithDetail(string(q.Class))
	}
	return s.catalog.Search(q), nil
}

func (s *service) ReloadCatalog(ctx context.Context) (int, error) {
	if s.catalogSource == nil {
		return 0, errors.New(errors.ErrCodeFeatureDisabled, "no catalog source configured")
	}
	entries, err := s.catalogSource.LoadEntries(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.catalog.Reload(entries); err != nil {
		return 0, err
	}
	s.results.Purge()
	n := s.catalog.Len()
	s.metrics.CatalogEntries.WithLabelValues().Set(float64(n))
	s.logger.Info("catalog reloaded", logging.Int("entries", n))
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Readiness
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) Ready(ctx context.Context) error {
	_, err := s.store.Version(ctx)
	return err
}

//Personal.AI order the ending
