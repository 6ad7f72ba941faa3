// Package partyfindfilter compiles a client filter payload into SQL predicates
// over the party-find listing query. Column references use the aliases of the
// listing store: p (party_find_posts), cs (content_stages), tab (content_tabs),
// ct (content_types), srv (servers), r (regions).
package partyfindfilter

import (
	"party-find-backend/models"
	partyfindapimodels "party-find-backend/models/api/partyfind"
	"strings"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// Clause is a self-contained boolean predicate. Clauses are combined with AND.
type Clause struct {
	SQL  string
	Args []interface{}
}

type Options struct {
	// WithDefaults adds the listing page constraints: future start and an open status.
	WithDefaults bool
	Now          time.Time
}

const localStartTime = "(p.start_time AT TIME ZONE ?)"

// Compile returns the ordered clauses for the filter. No clause means no constraint.
func Compile(filter partyfindapimodels.PostFilter, opts Options) []Clause {
	clauses := make([]Clause, 0, 10)
	if opts.WithDefaults {
		clauses = append(clauses, defaultClauses(opts.Now)...)
	}
	if c, ok := jobClause(filter.Jobs); ok {
		clauses = append(clauses, c)
	}
	clauses = append(clauses, contentClauses(filter)...)
	if filter.RegionID != "" {
		clauses = append(clauses, Clause{SQL: "r.id = ?", Args: []interface{}{filter.RegionID}})
	}
	if c, ok := goalClause(filter.Practice, filter.Reclear); ok {
		clauses = append(clauses, c)
	}
	clauses = append(clauses, temporalClauses(filter)...)
	return clauses
}

// AuthoredBy narrows a management view to the posts of one author.
func AuthoredBy(userID string) Clause {
	return Clause{SQL: "p.author_id = ?", Args: []interface{}{userID}}
}

// AppliedBy narrows a management view to posts where the user holds a live application
// and is not the author.
func AppliedBy(userID string) Clause {
	sql := "p.author_id <> ? AND EXISTS (SELECT 1 FROM party_find_apply_states AS pa" +
		" WHERE pa.post_id = p.id AND pa.user_id = ? AND pa.status IN ?)"
	live := []models.ApplyStatus{models.ApplyStatusWaiting, models.ApplyStatusApproved}
	return Clause{SQL: sql, Args: []interface{}{userID, userID, live}}
}

func defaultClauses(now time.Time) []Clause {
	return []Clause{
		{SQL: "p.start_time > ?", Args: []interface{}{now.UTC()}},
		{SQL: "p.status IN ?", Args: []interface{}{[]models.PostStatus{models.PostStatusRecruiting, models.PostStatusRerecruiting}}},
	}
}

// JobTypes maps jobs to the slot job types that can hold them. ANY is always included.
func JobTypes(jobs []models.Job) []models.JobType {
	seen := map[models.JobType]bool{}
	result := make([]models.JobType, 0, 3)
	for _, job := range jobs {
		jobType := job.JobType()
		if jobType == "" || seen[jobType] {
			continue
		}
		seen[jobType] = true
		result = append(result, jobType)
	}
	if len(result) == 0 {
		return nil
	}
	return append(result, models.JobTypeAny)
}

func jobClause(jobs []models.Job) (Clause, bool) {
	jobTypes := JobTypes(jobs)
	if len(jobTypes) == 0 {
		return Clause{}, false
	}
	sql := "EXISTS (SELECT 1 FROM party_find_slots AS fs WHERE fs.post_id = p.id AND fs.job_type IN ?" +
		" AND NOT EXISTS (SELECT 1 FROM party_find_apply_states AS fa WHERE fa.slot_id = fs.id AND fa.status = ?))"
	return Clause{SQL: sql, Args: []interface{}{jobTypes, models.ApplyStatusApproved}}, true
}

func contentClauses(filter partyfindapimodels.PostFilter) []Clause {
	if filter.ContentTypeCode == "" {
		return nil
	}
	if !filter.ContentTypeCode.IsKnown() {
		log.WithField("content_type_code", filter.ContentTypeCode).Debug("unknown content type in filter, ignored")
		return nil
	}
	result := []Clause{{SQL: "ct.code = ?", Args: []interface{}{filter.ContentTypeCode}}}
	if filter.ContentTabID != "" {
		result = append(result, Clause{SQL: "tab.id = ?", Args: []interface{}{filter.ContentTabID}})
	}
	if filter.ContentStageID != "" {
		result = append(result, Clause{SQL: "cs.id = ?", Args: []interface{}{filter.ContentStageID}})
	}
	return result
}

func goalClause(practice, reclear bool) (Clause, bool) {
	if practice == reclear {
		return Clause{}, false
	}
	if practice {
		return Clause{SQL: "p.practice = ?", Args: []interface{}{true}}, true
	}
	return Clause{SQL: "p.reclear = ?", Args: []interface{}{true}}, true
}

func temporalClauses(filter partyfindapimodels.PostFilter) []Clause {
	if filter.TimeZone == "" {
		return nil
	}
	loc, err := partyfindapimodels.LoadTimeZone(filter.TimeZone)
	if err != nil {
		log.WithError(err).Warn("time zone rejected, temporal filters skipped")
		return nil
	}
	tz := loc.String()
	result := make([]Clause, 0, 4)
	if days := DayOfWeekValues(filter.Days); len(days) != 0 {
		result = append(result, Clause{
			SQL:  "CAST(EXTRACT(DOW FROM " + localStartTime + ") AS integer) = ANY(?)",
			Args: []interface{}{tz, pq.Array(days)},
		})
	}
	window := timeWindow{from: filter.StartHour, to: filter.EndHour}
	if c, ok := window.clause(tz); ok {
		result = append(result, c)
	}
	if filter.Year != nil {
		result = append(result, Clause{
			SQL:  "CAST(EXTRACT(YEAR FROM " + localStartTime + ") AS integer) = ?",
			Args: []interface{}{tz, *filter.Year},
		})
	}
	if filter.Month != nil {
		result = append(result, Clause{
			SQL:  "CAST(EXTRACT(MONTH FROM " + localStartTime + ") AS integer) = ?",
			Args: []interface{}{tz, *filter.Month},
		})
	}
	return result
}

// DayOfWeekValues converts the Monday-first UI selection into database
// day-of-week numbers (0 = Sunday). A selection of all or none yields nil.
func DayOfWeekValues(days []bool) []int64 {
	if len(days) != models.DaysInWeek {
		return nil
	}
	selected := make([]int64, 0, models.DaysInWeek)
	for i, isSet := range days {
		if isSet {
			selected = append(selected, int64((i+1)%models.DaysInWeek))
		}
	}
	if len(selected) == 0 || len(selected) == models.DaysInWeek {
		return nil
	}
	return selected
}

// timeWindow is a time-of-day range in whole hours. A start after the end wraps past midnight.
type timeWindow struct {
	from *int
	to   *int
}

func (w timeWindow) wraps() bool {
	return w.from != nil && w.to != nil && *w.from > *w.to
}

func (w timeWindow) clause(tz string) (Clause, bool) {
	minutes := "(CAST(EXTRACT(HOUR FROM " + localStartTime + ") AS integer) * 60 + CAST(EXTRACT(MINUTE FROM " + localStartTime + ") AS integer))"
	parts := make([]string, 0, 2)
	args := make([]interface{}, 0, 6)
	if w.from != nil {
		parts = append(parts, minutes+" >= ?")
		args = append(args, tz, tz, *w.from*60)
	}
	if w.to != nil {
		parts = append(parts, minutes+" <= ?")
		args = append(args, tz, tz, *w.to*60)
	}
	if len(parts) == 0 {
		return Clause{}, false
	}
	joiner := " AND "
	if w.wraps() {
		joiner = " OR "
	}
	return Clause{SQL: "(" + strings.Join(parts, joiner) + ")", Args: args}, true
}
