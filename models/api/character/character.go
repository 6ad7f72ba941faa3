package characterapimodels

import (
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	maxNameLen       = 64
	maxEngravings    = 12
	maxItemLevel     = 9999.99
	maxEngravingSize = 64
)

type CharacterData struct {
	Name       string     `json:"name"`
	RosterName string     `json:"roster_name"` // in-game account name
	Job        models.Job `json:"job"`
	ItemLevel  float64    `json:"item_level"`
	Engravings []string   `json:"engravings"`
}

func (c CharacterData) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errors.New("character name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen || utf8.RuneCountInString(c.RosterName) > maxNameLen {
		return errors.Errorf("names must be at most %d characters", maxNameLen)
	}
	if err := c.Job.Validate(); err != nil {
		return err
	}
	if c.ItemLevel < 0 || c.ItemLevel > maxItemLevel {
		return errors.New("item level is out of range")
	}
	if len(c.Engravings) > maxEngravings {
		return errors.Errorf("at most %d engravings are allowed", maxEngravings)
	}
	for _, engraving := range c.Engravings {
		if strings.TrimSpace(engraving) == "" || utf8.RuneCountInString(engraving) > maxEngravingSize {
			return errors.New("engraving name is invalid")
		}
	}
	return nil
}

// GetEngravings returns trimmed names without duplicates, keeping order.
func (c CharacterData) GetEngravings() []string {
	seen := map[string]bool{}
	result := make([]string, 0, len(c.Engravings))
	for _, engraving := range c.Engravings {
		engraving = strings.TrimSpace(engraving)
		if seen[engraving] {
			continue
		}
		seen[engraving] = true
		result = append(result, engraving)
	}
	return result
}

type CharacterView struct {
	CharacterData
	ID      string         `json:"id"`
	JobType models.JobType `json:"job_type"`
}

func CharacterConvert(rec dbmodels.Character) CharacterView {
	engravings := []string(rec.Engravings)
	if engravings == nil {
		engravings = []string{}
	}
	return CharacterView{
		CharacterData: CharacterData{
			Name:       rec.Name,
			RosterName: rec.RosterName,
			Job:        rec.Job,
			ItemLevel:  rec.ItemLevel,
			Engravings: engravings,
		},
		ID:      rec.ID,
		JobType: rec.Job.JobType(),
	}
}
