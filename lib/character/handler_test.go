package characterhandler

import (
	"context"
	"fmt"
	characterstore "party-find-backend/lib/character/store"
	"party-find-backend/models"
	characterapimodels "party-find-backend/models/api/character"
	dbmodels "party-find-backend/models/db"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	seq        int
	characters map[string]dbmodels.Character
	openSlots  map[string]bool // character id -> occupies a slot of a future post
	applies    map[string]int  // character id -> application count
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		characters: map[string]dbmodels.Character{},
		openSlots:  map[string]bool{},
		applies:    map[string]int{},
	}
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx characterstore.Provider) error) error {
	return fn(f)
}

func (f *fakeStore) Create(ctx context.Context, rec dbmodels.Character) (string, error) {
	f.seq++
	rec.ID = fmt.Sprintf("char-%d", f.seq)
	f.characters[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*dbmodels.Character, error) {
	rec, ok := f.characters[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) LockByID(ctx context.Context, id string) (*dbmodels.Character, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]dbmodels.Character, error) {
	result := []dbmodels.Character{}
	for _, rec := range f.characters {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, updMap map[string]interface{}) error {
	rec := f.characters[id]
	rec.Name = updMap["name"].(string)
	rec.RosterName = updMap["roster_name"].(string)
	rec.Job = updMap["job"].(models.Job)
	rec.ItemLevel = updMap["item_level"].(float64)
	rec.Engravings = updMap["engravings"].(pq.StringArray)
	f.characters[id] = rec
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.characters, id)
	return nil
}

func (f *fakeStore) HasOpenPostSlot(ctx context.Context, characterID string, now time.Time) (bool, error) {
	return f.openSlots[characterID], nil
}

func (f *fakeStore) DeleteApplies(ctx context.Context, characterID string) error {
	delete(f.applies, characterID)
	return nil
}

func TestCharacterHandler(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	data := characterapimodels.CharacterData{
		Name:       "Alpha",
		RosterName: "Roster",
		Job:        models.JobBard,
		ItemLevel:  1620,
		Engravings: []string{"Awakening"},
	}

	t.Run(`create and list check`, func(t *testing.T) {
		store := newFakeStore()
		handler := NewInstance(store, now)
		id, err := handler.Create(ctx, "user-a", data)
		require.Nil(t, err)

		list, err := handler.List(ctx, "user-a")
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, id, list[0].ID)
		require.Equal(t, models.JobTypeSupport, list[0].JobType)

		list, err = handler.List(ctx, "user-b")
		require.Nil(t, err)
		require.Empty(t, list)
	})

	t.Run(`delete guard check`, func(t *testing.T) {
		store := newFakeStore()
		handler := NewInstance(store, now)
		id, err := handler.Create(ctx, "user-a", data)
		require.Nil(t, err)
		store.openSlots[id] = true
		store.applies[id] = 2

		hMsg, err := handler.Delete(ctx, "user-b", id)
		require.Nil(t, err)
		require.Equal(t, models.ErrNoCharacter, hMsg)

		hMsg, err = handler.Delete(ctx, "user-a", id)
		require.Nil(t, err)
		require.Equal(t, models.ErrCharacterHasOpenPost, hMsg)
		require.Contains(t, store.characters, id)

		store.openSlots[id] = false
		hMsg, err = handler.Delete(ctx, "user-a", id)
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.NotContains(t, store.characters, id)
		require.NotContains(t, store.applies, id)
	})

	t.Run(`update check`, func(t *testing.T) {
		store := newFakeStore()
		handler := NewInstance(store, now)
		id, err := handler.Create(ctx, "user-a", data)
		require.Nil(t, err)
		store.openSlots[id] = true

		upd := data
		upd.ItemLevel = 1640
		hMsg, err := handler.Update(ctx, "user-a", id, upd)
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, 1640.0, store.characters[id].ItemLevel)

		upd.Job = models.JobSlayer
		hMsg, err = handler.Update(ctx, "user-a", id, upd)
		require.Nil(t, err)
		require.Equal(t, models.ErrCharacterHasOpenPost, hMsg)
		require.Equal(t, models.JobBard, store.characters[id].Job)
	})
}
