package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

const apiPrefix = "/api/v1"

// ---------------------------------------------------------------------------
// Deadlines
// ---------------------------------------------------------------------------

// DeadlinesClient computes deadlines and detects portfolio conflicts.
type DeadlinesClient struct {
	client *Client
}

// Compute computes one deadline.
func (d *DeadlinesClient) Compute(ctx context.Context, req *ComputeRequest) (*ComputeResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("prazocerto: compute request is required")
	}
	var resp ComputeResponse
	if err := d.client.do(ctx, request{method: http.MethodPost, path: apiPrefix + "/deadlines/compute", body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ComputeICS computes one deadline and returns it as an iCalendar document.
func (d *DeadlinesClient) ComputeICS(ctx context.Context, req *ComputeRequest, title string) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("prazocerto: compute request is required")
	}
	q := url.Values{"format": {"ics"}}
	if title != "" {
		q.Set("title", title)
	}
	return d.client.send(ctx, request{
		method: http.MethodPost,
		path:   apiPrefix + "/deadlines/compute",
		query:  q,
		body:   req,
		accept: "text/calendar",
	})
}

// DetectConflicts analyses a portfolio of deadlines.
func (d *DeadlinesClient) DetectConflicts(ctx context.Context, deadlines []Deadline) (*ConflictResponse, error) {
	body := struct {
		Deadlines []Deadline `json:"deadlines"`
	}{Deadlines: deadlines}
	var resp ConflictResponse
	if err := d.client.do(ctx, request{method: http.MethodPost, path: apiPrefix + "/conflicts/detect", body: body}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ---------------------------------------------------------------------------
// Calendar
// ---------------------------------------------------------------------------

// CalendarClient classifies days against court calendars.
type CalendarClient struct {
	client *Client
}

// Classify classifies one date for court.
func (cc *CalendarClient) Classify(ctx context.Context, court string, date common.Date) (*DayResponse, error) {
	q := url.Values{"date": {date.String()}}
	if court != "" {
		q.Set("court", court)
	}
	var resp DayResponse
	if err := cc.client.do(ctx, request{method: http.MethodGet, path: apiPrefix + "/calendar/classify", query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Days classifies every date in [from, to].
func (cc *CalendarClient) Days(ctx context.Context, court string, from, to common.Date) (*RangeResponse, error) {
	var resp RangeResponse
	if err := cc.client.do(ctx, request{method: http.MethodGet, path: apiPrefix + "/calendar/days", query: rangeQuery(court, from, to)}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export returns the holidays and suspensions of court in [from, to] as
// iCalendar.
func (cc *CalendarClient) Export(ctx context.Context, court string, from, to common.Date) ([]byte, error) {
	return cc.client.send(ctx, request{
		method: http.MethodGet,
		path:   apiPrefix + "/calendar/export",
		query:  rangeQuery(court, from, to),
		accept: "text/calendar",
	})
}

func rangeQuery(court string, from, to common.Date) url.Values {
	q := url.Values{"from": {from.String()}, "to": {to.String()}}
	if court != "" {
		q.Set("court", court)
	}
	return q
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// CatalogClient reads the statutory deadline catalog.
type CatalogClient struct {
	client *Client
}

// Get returns one entry. Codes are normalised by the server.
func (cc *CatalogClient) Get(ctx context.Context, code string) (*CatalogEntry, error) {
	if code == "" {
		return nil, fmt.Errorf("prazocerto: catalog code is required")
	}
	var e CatalogEntry
	if err := cc.client.do(ctx, request{method: http.MethodGet, path: apiPrefix + "/catalog/" + url.PathEscape(code)}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Search filters the catalog.
func (cc *CatalogClient) Search(ctx context.Context, query CatalogQuery) (*CatalogList, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("q", query.Text)
	set("statute", query.Statute)
	set("category", query.Category)
	set("class", query.Class)
	set("mode", query.Mode)
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	var list CatalogList
	if err := cc.client.do(ctx, request{method: http.MethodGet, path: apiPrefix + "/catalog", query: q}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

// AdminClient calls the key-guarded administrative endpoints.
type AdminClient struct {
	client *Client
}

// InvalidateCalendar drops every cached snapshot and result on the server.
func (a *AdminClient) InvalidateCalendar(ctx context.Context) (*InvalidationReport, error) {
	var r InvalidationReport
	if err := a.client.do(ctx, request{method: http.MethodPost, path: apiPrefix + "/admin/calendar/invalidate"}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ImportOptions scopes an ICS import.
type ImportOptions struct {
	UF         string
	Court      string
	Scope      string
	From       common.Date
	To         common.Date
	LegalBasis string
}

// ImportResult is the body of POST /api/v1/admin/calendar/import.
type ImportResult struct {
	Added        int                 `json:"added"`
	Parsed       int                 `json:"parsed"`
	Skipped      int                 `json:"skipped"`
	Invalidation *InvalidationReport `json:"invalidation"`
}

// ImportICS uploads an iCalendar document into the server calendar.
func (a *AdminClient) ImportICS(ctx context.Context, doc []byte, opts ImportOptions) (*ImportResult, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("uf", opts.UF)
	set("court", opts.Court)
	set("scope", opts.Scope)
	set("legal_basis", opts.LegalBasis)
	if !opts.From.IsZero() {
		q.Set("from", opts.From.String())
	}
	if !opts.To.IsZero() {
		q.Set("to", opts.To.String())
	}
	var r ImportResult
	err := a.client.do(ctx, request{
		method:  http.MethodPost,
		path:    apiPrefix + "/admin/calendar/import",
		query:   q,
		rawBody: doc,
		ctype:   "text/calendar",
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ReloadCatalog asks the server to re-read its catalog source.
func (a *AdminClient) ReloadCatalog(ctx context.Context) (int, error) {
	var r struct {
		Entries int `json:"entries"`
	}
	if err := a.client.do(ctx, request{method: http.MethodPost, path: apiPrefix + "/admin/catalog/reload"}, &r); err != nil {
		return 0, err
	}
	return r.Entries, nil
}

//Personal.AI order the ending
