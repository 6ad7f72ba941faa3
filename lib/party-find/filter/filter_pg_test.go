//go:build integration

package partyfindfilter

import (
	"os"
	partyfindapimodels "party-find-backend/models/api/partyfind"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run with: TEST_DATABASE_DSN="host=... user=... dbname=... sslmode=disable" go test -tags integration ./lib/party-find/filter/
func openTestDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.Nil(t, err)
	return db
}

func matches(t *testing.T, db *gorm.DB, clauses []Clause, start time.Time) bool {
	parts := make([]string, 0, len(clauses))
	args := []interface{}{start}
	for _, c := range clauses {
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	query := "SELECT EXISTS (SELECT 1 FROM (SELECT CAST(? AS timestamptz) AS start_time) AS p WHERE " +
		strings.Join(parts, " AND ") + ")"
	var result bool
	require.Nil(t, db.Raw(query, args...).Scan(&result).Error)
	return result
}

func TestTemporalClausesOnPostgres(t *testing.T) {
	db := openTestDB(t)
	loc, err := time.LoadLocation("Europe/Berlin")
	require.Nil(t, err)
	// covers the end of daylight saving time in Berlin on 2026-10-25
	from := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)

	windows := map[string]timeWindow{
		"wrap":     {from: intPtr(22), to: intPtr(2)},
		"plain":    {from: intPtr(2), to: intPtr(22)},
		"only end": {to: intPtr(2)},
	}
	for name, window := range windows {
		t.Run(name+` window matches the mirror check`, func(t *testing.T) {
			c, ok := window.clause(loc.String())
			require.True(t, ok)
			for start := from; start.Before(to); start = start.Add(30 * time.Minute) {
				local := start.In(loc)
				expected := windowContains(window, local.Hour()*60+local.Minute())
				require.Equal(t, expected, matches(t, db, []Clause{c}, start), start.String())
			}
		})
	}

	t.Run(`day of week in the client zone check`, func(t *testing.T) {
		sunday := []bool{false, false, false, false, false, false, true}
		days := DayOfWeekValues(sunday)
		filter := Compile(partyfindapimodels.PostFilter{Days: sunday, TimeZone: loc.String()}, Options{})
		require.Len(t, filter, 1)
		for start := from; start.Before(to); start = start.Add(time.Hour) {
			expected := int64(start.In(loc).Weekday()) == days[0]
			require.Equal(t, expected, matches(t, db, filter, start), start.String())
		}
	})
}
