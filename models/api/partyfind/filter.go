package partyfindapimodels

import (
	"party-find-backend/models"
	apimodels "party-find-backend/models/api"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
)

type PostFilter struct {
	apimodels.Pagination
	Jobs            []models.Job           `json:"jobs"`              // jobs the viewer wants to bring
	ContentTypeCode models.ContentTypeCode `json:"content_type_code"` // stable content type code
	ContentTabID    string                 `json:"content_tab_id"`
	ContentStageID  string                 `json:"content_stage_id"`
	RegionID        string                 `json:"region_id"`
	Practice        bool                   `json:"practice"`
	Reclear         bool                   `json:"reclear"`
	Days            []bool                 `json:"days"`       // Monday first, 7 values
	StartHour       *int                   `json:"start_hour"` // 0-23, client time zone
	EndHour         *int                   `json:"end_hour"`   // 0-23, client time zone
	Year            *int                   `json:"year"`
	Month           *int                   `json:"month"`     // 1-12
	TimeZone        string                 `json:"time_zone"` // IANA name, e.g. Europe/Berlin
}

func (f PostFilter) Validate() error {
	if err := f.Pagination.Validate(); err != nil {
		return err
	}
	if len(f.Days) != 0 && len(f.Days) != models.DaysInWeek {
		return errors.Errorf("days must contain %d values", models.DaysInWeek)
	}
	if f.StartHour != nil && !isHour(*f.StartHour) {
		return errors.New("start hour must be between 0 and 23")
	}
	if f.EndHour != nil && !isHour(*f.EndHour) {
		return errors.New("end hour must be between 0 and 23")
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		return errors.New("month must be between 1 and 12")
	}
	if f.Year != nil && (*f.Year < 1970 || *f.Year > 9999) {
		return errors.New("year is out of range")
	}
	if f.TimeZone != "" {
		if _, err := LoadTimeZone(f.TimeZone); err != nil {
			return err
		}
	}
	return nil
}

func isHour(h int) bool {
	return h >= 0 && h <= 23
}

// LoadTimeZone resolves an IANA zone name sent by the client.
func LoadTimeZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, errors.Errorf("unknown time zone %q", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Errorf("unknown time zone %q", name)
	}
	return loc, nil
}
