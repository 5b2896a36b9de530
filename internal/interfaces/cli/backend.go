package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/turtacn/PrazoCerto/internal/application/deadline"
	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/domain/catalog"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/ics"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/client"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// Backend is what the commands need from the engine. It is served either by
// an in-process deadline.Service or by a remote API server.
type Backend interface {
	ComputeDeadline(ctx context.Context, req *deadline.ComputeRequest) (*deadline.ComputeResponse, error)
	ClassifyDay(ctx context.Context, court string, date common.Date) (*deadline.DayResponse, error)
	ClassifyRange(ctx context.Context, court string, from, to common.Date) (*deadline.RangeResponse, error)
	DetectConflicts(ctx context.Context, req *deadline.ConflictRequest) (*deadline.ConflictResponse, error)
	GetCatalogEntry(ctx context.Context, code string) (*catalog.Entry, error)
	SearchCatalog(ctx context.Context, q catalog.Query) ([]catalog.Entry, error)
	ExportCalendar(ctx context.Context, court string, from, to common.Date) ([]byte, error)
	ImportICS(ctx context.Context, doc []byte, opts ics.ImportOptions) (*ImportSummary, error)
}

// ImportSummary reports an ICS import.
type ImportSummary struct {
	Added   int `json:"added"`
	Parsed  int `json:"parsed"`
	Skipped int `json:"skipped"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Local
// ─────────────────────────────────────────────────────────────────────────────

type localBackend struct {
	deadline.Service
	writer calendar.Writer
	logger logging.Logger
	now    func() time.Time
}

// NewLocalBackend serves commands from svc. writer may be nil, in which case
// imports are refused.
func NewLocalBackend(svc deadline.Service, writer calendar.Writer, log logging.Logger) Backend {
	return &localBackend{Service: svc, writer: writer, logger: log, now: time.Now}
}

func (b *localBackend) ExportCalendar(ctx context.Context, court string, from, to common.Date) ([]byte, error) {
	snap, err := b.CalendarSnapshot(ctx, court, from, to)
	if err != nil {
		return nil, err
	}
	return []byte(ics.ExportSnapshot(snap, from, to, b.now())), nil
}

func (b *localBackend) ImportICS(ctx context.Context, doc []byte, opts ics.ImportOptions) (*ImportSummary, error) {
	if b.writer == nil {
		return nil, fmt.Errorf("calendar store is read-only")
	}
	imp, err := ics.Parse(bytes.NewReader(doc), opts, b.logger)
	if err != nil {
		return nil, err
	}
	added, err := ics.Load(ctx, b.writer, imp)
	if err != nil {
		return nil, err
	}
	if _, err := b.Invalidate(ctx, deadline.TriggerImport); err != nil {
		return nil, err
	}
	return &ImportSummary{
		Added:   added,
		Parsed:  len(imp.Entries) + len(imp.Suspensions),
		Skipped: imp.Skipped,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Remote
// ─────────────────────────────────────────────────────────────────────────────

// remoteBackend calls a PrazoCerto server. The SDK types share their JSON
// shape with the service DTOs, so values are converted by re-encoding.
type remoteBackend struct {
	client *client.Client
}

// NewRemoteBackend serves commands through c.
func NewRemoteBackend(c *client.Client) Backend {
	return &remoteBackend{client: c}
}

func (b *remoteBackend) ComputeDeadline(ctx context.Context, req *deadline.ComputeRequest) (*deadline.ComputeResponse, error) {
	var creq client.ComputeRequest
	if err := reencode(req, &creq); err != nil {
		return nil, err
	}
	resp, err := b.client.Deadlines().Compute(ctx, &creq)
	if err != nil {
		return nil, err
	}
	var out deadline.ComputeResponse
	return &out, reencode(resp, &out)
}

func (b *remoteBackend) ClassifyDay(ctx context.Context, court string, date common.Date) (*deadline.DayResponse, error) {
	resp, err := b.client.Calendar().Classify(ctx, court, date)
	if err != nil {
		return nil, err
	}
	var out deadline.DayResponse
	return &out, reencode(resp, &out)
}

func (b *remoteBackend) ClassifyRange(ctx context.Context, court string, from, to common.Date) (*deadline.RangeResponse, error) {
	resp, err := b.client.Calendar().Days(ctx, court, from, to)
	if err != nil {
		return nil, err
	}
	var out deadline.RangeResponse
	return &out, reencode(resp, &out)
}

func (b *remoteBackend) DetectConflicts(ctx context.Context, req *deadline.ConflictRequest) (*deadline.ConflictResponse, error) {
	var deadlines []client.Deadline
	if err := reencode(req.Deadlines, &deadlines); err != nil {
		return nil, err
	}
	resp, err := b.client.Deadlines().DetectConflicts(ctx, deadlines)
	if err != nil {
		return nil, err
	}
	var out deadline.ConflictResponse
	return &out, reencode(resp, &out)
}

func (b *remoteBackend) GetCatalogEntry(ctx context.Context, code string) (*catalog.Entry, error) {
	e, err := b.client.Catalog().Get(ctx, code)
	if err != nil {
		return nil, err
	}
	var out catalog.Entry
	return &out, reencode(e, &out)
}

func (b *remoteBackend) SearchCatalog(ctx context.Context, q catalog.Query) ([]catalog.Entry, error) {
	list, err := b.client.Catalog().Search(ctx, client.CatalogQuery{
		Text:     q.Text,
		Statute:  q.Statute,
		Category: q.Category,
		Class:    string(q.Class),
		Mode:     string(q.Mode),
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, err
	}
	var out []catalog.Entry
	if err := reencode(list.Entries, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *remoteBackend) ExportCalendar(ctx context.Context, court string, from, to common.Date) ([]byte, error) {
	return b.client.Calendar().Export(ctx, court, from, to)
}

func (b *remoteBackend) ImportICS(ctx context.Context, doc []byte, opts ics.ImportOptions) (*ImportSummary, error) {
	res, err := b.client.Admin().ImportICS(ctx, doc, client.ImportOptions{
		UF:         opts.UF,
		Court:      opts.CourtCode,
		Scope:      string(opts.Scope),
		From:       opts.From,
		To:         opts.To,
		LegalBasis: opts.LegalBasis,
	})
	if err != nil {
		return nil, err
	}
	return &ImportSummary{Added: res.Added, Parsed: res.Parsed, Skipped: res.Skipped}, nil
}

func reencode(src, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

//Personal.AI order the ending
