// Package partyfindstate holds the pure rules of the post lifecycle.
package partyfindstate

import (
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

const week = 7 * 24 * time.Hour

// DeriveState is the status shown to clients and used to gate mutations.
// EXPIRED overrides everything once the start instant has passed.
func DeriveState(post dbmodels.PartyFindPost, occupied, total int, now time.Time) models.PostStatus {
	if now.After(post.StartTime) {
		return models.PostStatusExpired
	}
	return StoredStatus(post.Status, occupied, total)
}

// StoredStatus is the status to persist after the occupancy changed.
func StoredStatus(current models.PostStatus, occupied, total int) models.PostStatus {
	if total > 0 && occupied >= total {
		return models.PostStatusFull
	}
	if current == models.PostStatusFull {
		return models.PostStatusRerecruiting
	}
	if current == "" {
		return models.PostStatusRecruiting
	}
	return current
}

// AvgItemLevel returns nil when there is nothing to average.
func AvgItemLevel(levels []float64) *float64 {
	if len(levels) == 0 {
		return nil
	}
	sum := 0.0
	for _, level := range levels {
		sum += level
	}
	avg := sum / float64(len(levels))
	return &avg
}

// BuildSlots lays out the slots of a new post. With enforced roles every group of
// four is three DPS followed by one SUPPORT, otherwise all slots take ANY job.
// The author gets the first slot accepting their partition.
func BuildSlots(partySize int, enforceRole bool, authorJobType models.JobType) ([]dbmodels.PartyFindSlot, int, error) {
	if partySize <= 0 {
		return nil, -1, errors.New("party size must be positive")
	}
	slots := make([]dbmodels.PartyFindSlot, 0, partySize)
	for idx := 0; idx < partySize; idx++ {
		jobType := models.JobTypeAny
		if enforceRole {
			jobType = models.JobTypeDps
			if idx%models.PartyGroupSize == models.PartyGroupSize-1 || idx == partySize-1 && partySize < models.PartyGroupSize {
				jobType = models.JobTypeSupport
			}
		}
		slots = append(slots, dbmodels.PartyFindSlot{
			SlotIndex: idx,
			JobType:   jobType,
		})
	}
	for idx := range slots {
		if slots[idx].JobType.Accepts(authorJobType) {
			slots[idx].IsAuthorSlot = true
			return slots, idx, nil
		}
	}
	return nil, -1, errors.New("no slot accepts the author's character")
}

// NextStart moves a recurring start forward by whole weeks until it is after now.
func NextStart(start, now time.Time) time.Time {
	if start.After(now) {
		return start
	}
	weeks := now.Sub(start)/week + 1
	return start.Add(weeks * week)
}
