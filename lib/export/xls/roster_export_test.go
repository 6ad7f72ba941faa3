package xlsexport

import (
	"party-find-backend/models"
	partyfindapimodels "party-find-backend/models/api/partyfind"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportRoster(t *testing.T) {
	view := partyfindapimodels.PostView{
		Title: "Aegir hard",
		Slots: []partyfindapimodels.SlotView{
			{Index: 0, JobType: models.JobTypeDps},
			{Index: 1, JobType: models.JobTypeSupport, Character: &partyfindapimodels.SlotCharacter{
				Name:       "Alpha",
				RosterName: "Roster",
				Job:        models.JobBard,
				ItemLevel:  1620,
				Engravings: []string{"Awakening", "Grudge"},
			}},
		},
		Waitlist: []partyfindapimodels.ApplicantView{{
			Name:      "Charlie",
			Job:       models.JobSorceress,
			JobType:   models.JobTypeDps,
			ItemLevel: 1630,
			AppliedAt: time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC),
		}},
	}

	buf, err := impl{}.ExportRoster(view)
	require.Nil(t, err)

	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	defer f.Close()

	require.Equal(t, []string{partySheet, waitlistSheet}, f.GetSheetList())

	rows, err := f.GetRows(partySheet)
	require.Nil(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, partyHeaders, rows[0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "DPS", rows[1][1])
	require.Equal(t, []string{"2", "SUPPORT", "Alpha", "Roster", "bard", "1620", "Awakening, Grudge"}, rows[2][:7])

	rows, err = f.GetRows(waitlistSheet)
	require.Nil(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Charlie", rows[1][0])
	require.Equal(t, "2026-10-19 12:30 UTC", rows[1][6])
}
