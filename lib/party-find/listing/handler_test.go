package partyfindlisting

import (
	"context"
	partyfindfilter "party-find-backend/lib/party-find/filter"
	"party-find-backend/models"
	apimodels "party-find-backend/models/api"
	partyfindapimodels "party-find-backend/models/api/partyfind"
	dbmodels "party-find-backend/models/db"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

type fakeListingStore struct {
	posts    []dbmodels.PartyFindPostExt
	slots    []dbmodels.PartyFindSlotRow
	waitlist []dbmodels.PartyFindApplyState
	clauses  []partyfindfilter.Clause
	offset   int
	limit    int
}

func (f *fakeListingStore) Count(ctx context.Context, clauses []partyfindfilter.Clause) (int64, error) {
	f.clauses = clauses
	return int64(len(f.posts)), nil
}

func (f *fakeListingStore) List(ctx context.Context, clauses []partyfindfilter.Clause, offset, limit int) ([]dbmodels.PartyFindPostExt, error) {
	f.offset = offset
	f.limit = limit
	return f.posts, nil
}

func (f *fakeListingStore) GetByID(ctx context.Context, id string) (*dbmodels.PartyFindPostExt, error) {
	for _, post := range f.posts {
		if post.ID == id {
			return &post, nil
		}
	}
	return nil, nil
}

func (f *fakeListingStore) ListSlots(ctx context.Context, postIDs []string) ([]dbmodels.PartyFindSlotRow, error) {
	result := []dbmodels.PartyFindSlotRow{}
	for _, slot := range f.slots {
		for _, id := range postIDs {
			if slot.PostID == id {
				result = append(result, slot)
			}
		}
	}
	return result, nil
}

func (f *fakeListingStore) ListWaitlist(ctx context.Context, postID string) ([]dbmodels.PartyFindApplyState, error) {
	return f.waitlist, nil
}

func strPtr(v string) *string {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func jobPtr(v models.Job) *models.Job {
	return &v
}

func post(id, authorID string, start time.Time, status models.PostStatus) dbmodels.PartyFindPostExt {
	rec := dbmodels.PartyFindPostExt{
		ContentTypeCode: models.ContentTypeKazerosRaid,
		PartySize:       4,
	}
	rec.ID = id
	rec.AuthorID = authorID
	rec.Title = "Aegir hard"
	rec.StartTime = start
	rec.Status = status
	return rec
}

func occupiedSlot(postID string, index int, characterID, owner string, level float64) dbmodels.PartyFindSlotRow {
	return dbmodels.PartyFindSlotRow{
		SlotID:         postID + "-slot-" + string(rune('0'+index)),
		PostID:         postID,
		SlotIndex:      index,
		JobType:        models.JobTypeAny,
		ApplyID:        strPtr("apply-" + characterID),
		CharacterID:    strPtr(characterID),
		CharacterName:  strPtr("name-" + characterID),
		Job:            jobPtr(models.JobBard),
		ItemLevel:      floatPtr(level),
		Engravings:     pq.StringArray{"Awakening"},
		CharacterOwner: strPtr(owner),
	}
}

func openSlot(postID string, index int) dbmodels.PartyFindSlotRow {
	return dbmodels.PartyFindSlotRow{
		SlotID:    postID + "-slot-" + string(rune('0'+index)),
		PostID:    postID,
		SlotIndex: index,
		JobType:   models.JobTypeDps,
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run(`listing page adds default clauses check`, func(t *testing.T) {
		store := &fakeListingStore{posts: []dbmodels.PartyFindPostExt{post("p1", "user-a", now.Add(time.Hour), models.PostStatusRecruiting)}}
		handler := NewInstance(store, func() time.Time { return now })

		filter := partyfindapimodels.PostFilter{Pagination: apimodels.Pagination{Limit: 10, Page: 3}}
		list, rowCount, err := handler.Filter(ctx, "user-b", filter)
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Len(t, list, 1)
		require.Len(t, store.clauses, 2)
		require.Equal(t, "p.start_time > ?", store.clauses[0].SQL)
		require.Equal(t, 20, store.offset)
		require.Equal(t, 10, store.limit)
	})

	t.Run(`management views skip defaults check`, func(t *testing.T) {
		store := &fakeListingStore{posts: []dbmodels.PartyFindPostExt{post("p1", "user-a", now.Add(-time.Hour), models.PostStatusFull)}}
		handler := NewInstance(store, func() time.Time { return now })

		list, _, err := handler.Authored(ctx, "user-a", partyfindapimodels.PostFilter{})
		require.Nil(t, err)
		require.Len(t, store.clauses, 1)
		require.Equal(t, partyfindfilter.AuthoredBy("user-a"), store.clauses[0])
		require.Equal(t, models.PostStatusExpired, list[0].Status)

		_, _, err = handler.Applied(ctx, "user-b", partyfindapimodels.PostFilter{})
		require.Nil(t, err)
		require.Len(t, store.clauses, 1)
		require.Equal(t, partyfindfilter.AppliedBy("user-b"), store.clauses[0])
	})

	t.Run(`empty result check`, func(t *testing.T) {
		handler := NewInstance(&fakeListingStore{}, func() time.Time { return now })
		list, rowCount, err := handler.Filter(ctx, "user-b", partyfindapimodels.PostFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(0), rowCount)
		require.NotNil(t, list)
		require.Empty(t, list)
	})
}

func TestBuildView(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run(`average item level with zero occupants check`, func(t *testing.T) {
		row := post("p1", "user-a", now.Add(time.Hour), models.PostStatusRecruiting)
		view := BuildView(row, []dbmodels.PartyFindSlotRow{openSlot("p1", 0), openSlot("p1", 1)}, "user-b", now)
		require.Nil(t, view.AvgItemLevel)
		require.Equal(t, 0, view.FilledCount)
		require.Len(t, view.Slots, 2)
		require.Nil(t, view.Slots[0].Character)
	})

	t.Run(`occupied slots check`, func(t *testing.T) {
		row := post("p1", "user-a", now.Add(time.Hour), models.PostStatusRecruiting)
		slots := []dbmodels.PartyFindSlotRow{
			occupiedSlot("p1", 0, "char-a", "user-a", 1600),
			occupiedSlot("p1", 1, "char-b", "user-b", 1620),
			openSlot("p1", 2),
			openSlot("p1", 3),
		}
		view := BuildView(row, slots, "user-b", now)
		require.NotNil(t, view.AvgItemLevel)
		require.InDelta(t, 1610.0, *view.AvgItemLevel, 0.0001)
		require.Equal(t, 2, view.FilledCount)
		require.False(t, view.IsAuthor)
		require.False(t, view.Slots[0].IsMine)
		require.True(t, view.Slots[1].IsMine)
		require.Equal(t, "char-b", view.Slots[1].Character.ID)
		require.Equal(t, []string{"Awakening"}, view.Slots[1].Character.Engravings)
		for idx, slot := range view.Slots {
			require.Equal(t, idx, slot.Index)
		}
	})

	t.Run(`expiry override on read check`, func(t *testing.T) {
		slots := []dbmodels.PartyFindSlotRow{occupiedSlot("p1", 0, "char-a", "user-a", 1600), openSlot("p1", 1)}
		for _, status := range []models.PostStatus{models.PostStatusRecruiting, models.PostStatusRerecruiting, models.PostStatusFull} {
			row := post("p1", "user-a", now.Add(-time.Second), status)
			view := BuildView(row, slots, "user-a", now)
			require.Equal(t, models.PostStatusExpired, view.Status)
		}
	})

	t.Run(`full derived from occupancy check`, func(t *testing.T) {
		row := post("p1", "user-a", now.Add(time.Hour), models.PostStatusRerecruiting)
		slots := []dbmodels.PartyFindSlotRow{occupiedSlot("p1", 0, "char-a", "user-a", 1600), occupiedSlot("p1", 1, "char-b", "user-b", 1600)}
		view := BuildView(row, slots, "user-a", now)
		require.Equal(t, models.PostStatusFull, view.Status)
		require.True(t, view.IsAuthor)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store := &fakeListingStore{
		posts: []dbmodels.PartyFindPostExt{post("p1", "user-a", now.Add(time.Hour), models.PostStatusRecruiting)},
		slots: []dbmodels.PartyFindSlotRow{occupiedSlot("p1", 0, "char-a", "user-a", 1600), openSlot("p1", 1)},
		waitlist: []dbmodels.PartyFindApplyState{{
			BaseModel:   dbmodels.BaseModel{ID: "apply-1"},
			PostID:      "p1",
			CharacterID: "char-c",
			UserID:      "user-c",
			Status:      models.ApplyStatusWaiting,
			Character:   &dbmodels.Character{Name: "Charlie", Job: models.JobSorceress, ItemLevel: 1630},
		}},
	}
	handler := NewInstance(store, func() time.Time { return now })

	t.Run(`author sees the waitlist check`, func(t *testing.T) {
		view, hMsg, err := handler.Get(ctx, "user-a", "p1")
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Len(t, view.Waitlist, 1)
		require.Equal(t, models.JobTypeDps, view.Waitlist[0].JobType)
		require.Equal(t, "Charlie", view.Waitlist[0].Name)
	})

	t.Run(`others do not see the waitlist check`, func(t *testing.T) {
		view, hMsg, err := handler.Get(ctx, "user-c", "p1")
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Nil(t, view.Waitlist)
	})

	t.Run(`unknown post check`, func(t *testing.T) {
		view, hMsg, err := handler.Get(ctx, "user-a", "p2")
		require.Nil(t, err)
		require.Equal(t, models.ErrNotFound, hMsg)
		require.Nil(t, view)
	})
}
