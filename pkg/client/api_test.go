package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

func TestDeadlinesClient_Compute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/deadlines/compute", r.URL.Path)

		var req ComputeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CPC_335", req.CatalogCode)
		assert.Equal(t, "2025-03-10", req.TriggerDate.String())

		_, _ = w.Write([]byte(`{"result":{"due_date":"2025-03-31","count_start":"2025-03-11","court":{"code":"TJSP","uf":"SP"},"calendar_version":"v1"},"request_hash":"abc","cached":false}`))
	})

	resp, err := c.Deadlines().Compute(context.Background(), &ComputeRequest{
		CatalogCode: "CPC_335",
		TriggerDate: common.MustParseDate("2025-03-10"),
		Court:       "TJSP",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "2025-03-31", resp.Result.DueDate.String())
	assert.Equal(t, "SP", resp.Result.Court.UF)
	assert.Equal(t, "abc", resp.RequestHash)

	_, err = c.Deadlines().Compute(context.Background(), nil)
	assert.Error(t, err)
}

func TestDeadlinesClient_ComputeICS(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ics", r.URL.Query().Get("format"))
		assert.Equal(t, "Contestação", r.URL.Query().Get("title"))
		assert.Equal(t, "text/calendar", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	})

	doc, err := c.Deadlines().ComputeICS(context.Background(), &ComputeRequest{CatalogCode: "CPC_335"}, "Contestação")
	require.NoError(t, err)
	assert.Contains(t, string(doc), "BEGIN:VCALENDAR")
}

func TestDeadlinesClient_DetectConflicts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/conflicts/detect", r.URL.Path)
		var body struct {
			Deadlines []Deadline `json:"deadlines"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Deadlines, 2)
		_, _ = w.Write([]byte(`{"findings":[{"id":"f1","kind":"CHOQUE_DIRETO","severity":"ALTA","deadline_ids":["a","b"]}],"by_severity":{"ALTA":1},"analysed":2}`))
	})

	resp, err := c.Deadlines().DetectConflicts(context.Background(), []Deadline{
		{ID: "a", Party: "adv", DueDate: common.MustParseDate("2025-03-31"), Class: "PEREMPTORIO"},
		{ID: "b", Party: "adv", DueDate: common.MustParseDate("2025-03-31"), Class: "PEREMPTORIO"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, "CHOQUE_DIRETO", resp.Findings[0].Kind)
	assert.Equal(t, 1, resp.BySeverity["ALTA"])
	assert.Equal(t, 2, resp.Analysed)
}

func TestCalendarClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TJSP", q.Get("court"))
		switch r.URL.Path {
		case "/api/v1/calendar/classify":
			assert.Equal(t, "2025-04-21", q.Get("date"))
			_, _ = w.Write([]byte(`{"court":{"code":"TJSP"},"day":{"date":"2025-04-21","classification":"FERIADO"},"working":false,"low_confidence":false}`))
		case "/api/v1/calendar/days":
			assert.Equal(t, "2025-03-01", q.Get("from"))
			assert.Equal(t, "2025-03-31", q.Get("to"))
			_, _ = w.Write([]byte(`{"court":{"code":"TJSP"},"from":"2025-03-01","to":"2025-03-31","days":[],"business_days":21,"low_confidence":false}`))
		case "/api/v1/calendar/export":
			_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\n"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()
	from, to := common.MustParseDate("2025-03-01"), common.MustParseDate("2025-03-31")

	day, err := c.Calendar().Classify(ctx, "TJSP", common.MustParseDate("2025-04-21"))
	require.NoError(t, err)
	assert.Equal(t, "FERIADO", day.Day.Classification)
	assert.False(t, day.Working)

	days, err := c.Calendar().Days(ctx, "TJSP", from, to)
	require.NoError(t, err)
	assert.Equal(t, 21, days.BusinessDays)

	doc, err := c.Calendar().Export(ctx, "TJSP", from, to)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR\r\n", string(doc))
}

func TestCatalogClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/catalog/cpc-335":
			_, _ = w.Write([]byte(`{"code":"CPC_335","statute":"CPC","duration":15}`))
		case "/api/v1/catalog":
			q := r.URL.Query()
			assert.Equal(t, "contestação", q.Get("q"))
			assert.Equal(t, "CPC", q.Get("statute"))
			assert.Equal(t, "5", q.Get("limit"))
			assert.False(t, q.Has("category"))
			_, _ = w.Write([]byte(`{"entries":[{"code":"CPC_335","duration":15}],"total":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"CATALOG_001","message":"catalog entry not found"}`))
		}
	})
	ctx := context.Background()

	e, err := c.Catalog().Get(ctx, "cpc-335")
	require.NoError(t, err)
	assert.Equal(t, "CPC_335", e.Code)
	assert.Equal(t, 15, e.Duration)

	list, err := c.Catalog().Search(ctx, CatalogQuery{Text: "contestação", Statute: "CPC", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = c.Catalog().Get(ctx, "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())

	_, err = c.Catalog().Get(ctx, "")
	assert.Error(t, err)
}

func TestAdminClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/admin/calendar/invalidate":
			_, _ = w.Write([]byte(`{"trigger":"admin"}`))
		case "/api/v1/admin/calendar/import":
			q := r.URL.Query()
			assert.Equal(t, "SP", q.Get("uf"))
			assert.Equal(t, "2025-01-01", q.Get("from"))
			assert.False(t, q.Has("to"))
			assert.Equal(t, "text/calendar", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "BEGIN:VCALENDAR", string(body))
			_, _ = w.Write([]byte(`{"added":1,"parsed":1,"skipped":0}`))
		case "/api/v1/admin/catalog/reload":
			_, _ = w.Write([]byte(`{"entries":42}`))
		}
	})
	ctx := context.Background()

	_, err := c.Admin().InvalidateCalendar(ctx)
	require.NoError(t, err)

	res, err := c.Admin().ImportICS(ctx, []byte("BEGIN:VCALENDAR"), ImportOptions{UF: "SP", From: common.MustParseDate("2025-01-01")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	n, err := c.Admin().ReloadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

//Personal.AI order the ending
