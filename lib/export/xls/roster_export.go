package xlsexport

import (
	"bytes"
	partyfindapimodels "party-find-backend/models/api/partyfind"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	partySheet    = "Party"
	waitlistSheet = "Waitlist"
	timeLayout    = "2006-01-02 15:04 UTC"
)

type Provider interface {
	// ExportRoster writes the slots and the waitlist of a post into an xlsx workbook.
	ExportRoster(view partyfindapimodels.PostView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var (
	partyHeaders    = []string{"Slot", "Role", "Character", "Roster", "Job", "Item level", "Engravings"}
	waitlistHeaders = []string{"Character", "Roster", "Job", "Role", "Item level", "Engravings", "Applied at"}
)

func (i impl) ExportRoster(view partyfindapimodels.PostView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("error closing xlsx file")
		}
	}()
	if err := f.SetSheetName("Sheet1", partySheet); err != nil {
		return nil, errors.Wrap(err, "error naming xlsx sheet")
	}
	if err := writeParty(f, view.Slots); err != nil {
		return nil, errors.Wrap(err, "error writing party sheet")
	}
	if _, err := f.NewSheet(waitlistSheet); err != nil {
		return nil, errors.Wrap(err, "error creating waitlist sheet")
	}
	if err := writeWaitlist(f, view.Waitlist); err != nil {
		return nil, errors.Wrap(err, "error writing waitlist sheet")
	}
	return f.WriteToBuffer()
}

func writeParty(f *excelize.File, slots []partyfindapimodels.SlotView) error {
	row, err := writeHeader(f, partySheet, 0, partyHeaders)
	if err != nil {
		return err
	}
	firstDataRow := row + 1
	for _, slot := range slots {
		values := []interface{}{slot.Index + 1, string(slot.JobType)}
		if slot.Character != nil {
			values = append(values,
				slot.Character.Name,
				slot.Character.RosterName,
				string(slot.Character.Job),
				slot.Character.ItemLevel,
				joinList(slot.Character.Engravings),
			)
		}
		if row, err = writeRow(f, partySheet, row, values); err != nil {
			return err
		}
	}
	return applyDataCellStyle(f, partySheet, 1, firstDataRow, len(partyHeaders), row)
}

func writeWaitlist(f *excelize.File, waitlist []partyfindapimodels.ApplicantView) error {
	row, err := writeHeader(f, waitlistSheet, 0, waitlistHeaders)
	if err != nil {
		return err
	}
	firstDataRow := row + 1
	for _, item := range waitlist {
		values := []interface{}{
			item.Name,
			item.RosterName,
			string(item.Job),
			string(item.JobType),
			item.ItemLevel,
			joinList(item.Engravings),
			item.AppliedAt.UTC().Format(timeLayout),
		}
		if row, err = writeRow(f, waitlistSheet, row, values); err != nil {
			return err
		}
	}
	return applyDataCellStyle(f, waitlistSheet, 1, firstDataRow, len(waitlistHeaders), row)
}
