package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_ParseAndString(t *testing.T) {
	d, err := ParseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", d.String())
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 4, d.Day())
	assert.Equal(t, time.Tuesday, d.Weekday())

	_, err = ParseDate("04/03/2025")
	assert.Error(t, err)
}

func TestDate_IsComparableMapKey(t *testing.T) {
	a := NewDate(2025, time.April, 18)
	b := DateOf(time.Date(2025, time.April, 18, 23, 59, 0, 0, time.UTC))
	assert.True(t, a == b)

	m := map[Date]string{a: "sexta-feira santa"}
	assert.Equal(t, "sexta-feira santa", m[b])
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-12-30")
	assert.Equal(t, "2025-01-02", d.AddDays(3).String())
	assert.Equal(t, "2024-12-27", d.AddDays(-3).String())
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, -1, d.DaysUntil(d.AddDays(-1)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.True(t, d.Between(d, d))
	assert.False(t, d.AddDays(1).Between(d.AddDays(-1), d))
}

func TestDate_DaysUntil_AcrossDST(t *testing.T) {
	// UTC pinning keeps the day difference exact.
	from := MustParseDate("2018-11-03")
	to := MustParseDate("2018-11-05")
	assert.Equal(t, 2, from.DaysUntil(to))
}

func TestDate_In(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	at := MustParseDate("2026-05-07").In(brt)
	assert.Equal(t, time.Date(2026, time.May, 7, 3, 0, 0, 0, time.UTC), at.UTC())
	assert.Equal(t, MustParseDate("2026-05-07").Time(), MustParseDate("2026-05-07").In(nil))
}

func TestDate_IsWeekend(t *testing.T) {
	assert.True(t, MustParseDate("2025-03-08").IsWeekend())
	assert.True(t, MustParseDate("2025-03-09").IsWeekend())
	assert.False(t, MustParseDate("2025-03-10").IsWeekend())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Due Date `json:"due"`
	}
	data, err := json.Marshal(payload{Due: MustParseDate("2025-06-20")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-06-20"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-06-20T10:00:00-03:00"}`), &p))
	assert.Equal(t, "2025-06-20", p.Due.String())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"tomorrow"}`), &p))

	zero, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(zero))
}

//Personal.AI order the ending
