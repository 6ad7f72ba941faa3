package partyfindhandler

import (
	"context"
	"fmt"
	contentstore "party-find-backend/lib/dicts/content/store"
	regionstore "party-find-backend/lib/dicts/region/store"
	partyfindstore "party-find-backend/lib/party-find/store"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
	"sort"
	"sync"
	"time"
)

// fakeStore keeps rows in memory. Transaction serializes callers the way the post row lock does.
type fakeStore struct {
	txMu       sync.Mutex
	mu         sync.Mutex
	seq        int
	posts      map[string]dbmodels.PartyFindPost
	slots      map[string]dbmodels.PartyFindSlot
	applies    map[string]dbmodels.PartyFindApplyState
	characters map[string]dbmodels.Character
	// beforeLockCharacter runs before LockCharacter reads, standing in for a writer the lock waited on.
	beforeLockCharacter func(id string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:      map[string]dbmodels.PartyFindPost{},
		slots:      map[string]dbmodels.PartyFindSlot{},
		applies:    map[string]dbmodels.PartyFindApplyState{},
		characters: map[string]dbmodels.Character{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx partyfindstore.Provider) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	return fn(f)
}

func (f *fakeStore) LockPost(ctx context.Context, id string) (*dbmodels.PartyFindPost, error) {
	return f.GetPost(ctx, id)
}

func (f *fakeStore) GetPost(ctx context.Context, id string) (*dbmodels.PartyFindPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) CreatePost(ctx context.Context, rec dbmodels.PartyFindPost) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = f.nextID("post")
	rec.CreatedAt = time.Now()
	f.posts[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeStore) UpdatePost(ctx context.Context, id string, updMap map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.posts[id]
	if !ok {
		return fmt.Errorf("post not found")
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.PostStatus)
		case "start_time":
			rec.StartTime = value.(time.Time)
		case "title":
			rec.Title = value.(string)
		case "recurring":
			rec.Recurring = value.(bool)
		case "practice":
			rec.Practice = value.(bool)
		case "reclear":
			rec.Reclear = value.(bool)
		case "enforce_role":
			rec.EnforceRole = value.(bool)
		case "server_id":
			rec.ServerID = value.(string)
		case "content_stage_id":
			rec.ContentStageID = value.(string)
		default:
			return fmt.Errorf("unexpected column %s", key)
		}
	}
	f.posts[id] = rec
	return nil
}

func (f *fakeStore) DeletePost(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	for key, slot := range f.slots {
		if slot.PostID == id {
			delete(f.slots, key)
		}
	}
	for key, apply := range f.applies {
		if apply.PostID == id {
			delete(f.applies, key)
		}
	}
	return nil
}

func (f *fakeStore) ListSlots(ctx context.Context, postID string) ([]dbmodels.PartyFindSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []dbmodels.PartyFindSlot{}
	for _, slot := range f.slots {
		if slot.PostID == postID {
			result = append(result, slot)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].SlotIndex < result[b].SlotIndex })
	return result, nil
}

func (f *fakeStore) CreateSlots(ctx context.Context, postID string, slots []dbmodels.PartyFindSlot) ([]dbmodels.PartyFindSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for idx := range slots {
		slots[idx].ID = f.nextID("slot")
		slots[idx].PostID = postID
		f.slots[slots[idx].ID] = slots[idx]
	}
	return slots, nil
}

func (f *fakeStore) DeleteSlots(ctx context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, slot := range f.slots {
		if slot.PostID == postID {
			delete(f.slots, key)
		}
	}
	return nil
}

func (f *fakeStore) withCharacter(apply dbmodels.PartyFindApplyState) dbmodels.PartyFindApplyState {
	if character, ok := f.characters[apply.CharacterID]; ok {
		apply.Character = &character
	}
	return apply
}

func (f *fakeStore) GetApply(ctx context.Context, id string) (*dbmodels.PartyFindApplyState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.applies[id]
	if !ok {
		return nil, nil
	}
	rec = f.withCharacter(rec)
	return &rec, nil
}

func (f *fakeStore) ListApplies(ctx context.Context, postID string, statuses ...models.ApplyStatus) ([]dbmodels.PartyFindApplyState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []dbmodels.PartyFindApplyState{}
	for _, apply := range f.applies {
		if apply.PostID != postID {
			continue
		}
		if len(statuses) != 0 && !containsStatus(statuses, apply.Status) {
			continue
		}
		result = append(result, f.withCharacter(apply))
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result, nil
}

func containsStatus(list []models.ApplyStatus, status models.ApplyStatus) bool {
	for _, item := range list {
		if item == status {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateApply(ctx context.Context, rec dbmodels.PartyFindApplyState) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, apply := range f.applies {
		if apply.PostID == rec.PostID && apply.CharacterID == rec.CharacterID && apply.Status.IsLive() {
			return "", partyfindstore.ErrUniqueViolation
		}
	}
	rec.ID = f.nextID("apply")
	rec.CreatedAt = time.Now()
	rec.Character = nil
	f.applies[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeStore) UpdateApply(ctx context.Context, id string, updMap map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.applies[id]
	if !ok {
		return fmt.Errorf("application not found")
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.ApplyStatus)
		case "slot_id":
			if value == nil {
				rec.SlotID = nil
				continue
			}
			slotID := value.(string)
			for _, apply := range f.applies {
				if apply.ID != id && apply.Status == models.ApplyStatusApproved && apply.SlotID != nil && *apply.SlotID == slotID {
					return partyfindstore.ErrUniqueViolation
				}
			}
			rec.SlotID = &slotID
		case "character_id":
			rec.CharacterID = value.(string)
		default:
			return fmt.Errorf("unexpected column %s", key)
		}
	}
	f.applies[id] = rec
	return nil
}

func (f *fakeStore) LockCharacter(ctx context.Context, id string) (*dbmodels.Character, error) {
	if f.beforeLockCharacter != nil {
		f.beforeLockCharacter(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.characters[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) applyStatus(id string) models.ApplyStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applies[id].Status
}

func (f *fakeStore) postStatus(id string) models.PostStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[id].Status
}

type fakeContentStore struct {
	stages map[string]dbmodels.ContentStage
}

func (f fakeContentStore) List(ctx context.Context) ([]dbmodels.ContentType, error) {
	return nil, nil
}

func (f fakeContentStore) GetStage(ctx context.Context, id string) (*dbmodels.ContentStage, error) {
	rec, ok := f.stages[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f fakeContentStore) Save(ctx context.Context, rec *dbmodels.ContentType) error {
	return nil
}

type fakeRegionStore struct {
	servers map[string]dbmodels.Server
}

func (f fakeRegionStore) List(ctx context.Context) ([]dbmodels.Region, error) {
	return nil, nil
}

func (f fakeRegionStore) GetServer(ctx context.Context, id string) (*dbmodels.Server, error) {
	rec, ok := f.servers[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f fakeRegionStore) Save(ctx context.Context, rec *dbmodels.Region) error {
	return nil
}

type sentPush struct {
	userID string
	code   models.PushCode
	ctxErr error
}

type fakePush struct {
	mu   sync.Mutex
	sent []sentPush
}

func (f *fakePush) SendNotification(ctx context.Context, userID string, code models.PushCode, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentPush{userID: userID, code: code, ctxErr: ctx.Err()})
}

func (f *fakePush) codes(userID string) []models.PushCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []models.PushCode{}
	for _, item := range f.sent {
		if item.userID == userID {
			result = append(result, item.code)
		}
	}
	return result
}

func (f *fakePush) ctxErrs() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []error{}
	for _, item := range f.sent {
		if item.ctxErr != nil {
			result = append(result, item.ctxErr)
		}
	}
	return result
}

var (
	_ partyfindstore.Provider = (*fakeStore)(nil)
	_ contentstore.Provider   = fakeContentStore{}
	_ regionstore.Provider    = fakeRegionStore{}
)
