package partyfindhandler

import (
	"context"
	"party-find-backend/db"
	contentstore "party-find-backend/lib/dicts/content/store"
	regionstore "party-find-backend/lib/dicts/region/store"
	partyfindstate "party-find-backend/lib/party-find/state"
	partyfindstore "party-find-backend/lib/party-find/store"
	pushhandler "party-find-backend/lib/push/handler"
	initchecker "party-find-backend/lib/utils/init-checker"
	"party-find-backend/models"
	partyfindapimodels "party-find-backend/models/api/partyfind"
	dbmodels "party-find-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider changes posts, slots and applications. Every mutation of an existing
// post runs in one transaction holding the post row lock.
type Provider interface {
	Create(ctx context.Context, userID string, data partyfindapimodels.PostData) (id string, hMsg models.ErrorCode, err error)
	Edit(ctx context.Context, userID, postID string, data partyfindapimodels.PostData) (hMsg models.ErrorCode, err error)
	Delete(ctx context.Context, userID, postID string) (hMsg models.ErrorCode, err error)
	Renew(ctx context.Context, userID, postID string) (hMsg models.ErrorCode, err error)
	Apply(ctx context.Context, userID, postID string, request partyfindapimodels.ApplyRequest) (id string, hMsg models.ErrorCode, err error)
	Approve(ctx context.Context, userID, postID string, request partyfindapimodels.ApproveRequest) (hMsg models.ErrorCode, err error)
	Deny(ctx context.Context, userID, postID string, request partyfindapimodels.DenyRequest) (hMsg models.ErrorCode, err error)
	Kick(ctx context.Context, userID, postID string, request partyfindapimodels.KickRequest) (hMsg models.ErrorCode, err error)
	Withdraw(ctx context.Context, userID, postID string, request partyfindapimodels.WithdrawRequest) (hMsg models.ErrorCode, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		partyfindstore.NewInstance(db.DB),
		contentstore.NewInstance(db.DB),
		regionstore.NewInstance(db.DB),
		pushhandler.Instance,
		time.Now,
	)
}

func NewInstance(store partyfindstore.Provider, contentStore contentstore.Provider, regionStore regionstore.Provider,
	push pushhandler.Provider, now func() time.Time) Provider {
	instance := impl{
		store:        store,
		contentStore: contentStore,
		regionStore:  regionStore,
		push:         push,
		now:          now,
	}
	initchecker.CheckInit(
		"store", instance.store,
		"contentStore", instance.contentStore,
		"regionStore", instance.regionStore,
		"push", instance.push,
	)
	return instance
}

type impl struct {
	store        partyfindstore.Provider
	contentStore contentstore.Provider
	regionStore  regionstore.Provider
	push         pushhandler.Provider
	now          func() time.Time
}

// rejection aborts a transaction with a business error code.
type rejection struct {
	code models.ErrorCode
}

func (r rejection) Error() string {
	return string(r.code)
}

func reject(code models.ErrorCode) error {
	return rejection{code: code}
}

// result splits a transaction error into a business code and an unexpected failure.
func result(err error) (models.ErrorCode, error) {
	if err == nil {
		return "", nil
	}
	var rej rejection
	if errors.As(err, &rej) {
		return rej.code, nil
	}
	return "", err
}

type notification struct {
	userID string
	code   models.PushCode
	args   []interface{}
}

// notify runs after commit. It must not depend on the request staying alive.
func (i impl) notify(ctx context.Context, list []notification) {
	ctx = context.WithoutCancel(ctx)
	for _, item := range list {
		i.push.SendNotification(ctx, item.userID, item.code, item.args...)
	}
}

func (i impl) getLogger(userID, postID string) *log.Entry {
	logger := log.WithField("user_id", userID)
	if postID != "" {
		logger = logger.WithField("post_id", postID)
	}
	return logger
}

// postState is the locked post with the occupancy read in the same transaction.
type postState struct {
	post     dbmodels.PartyFindPost
	slots    []dbmodels.PartyFindSlot
	live     []dbmodels.PartyFindApplyState
	approved map[string]dbmodels.PartyFindApplyState // by slot id
}

func (s postState) status(now time.Time) models.PostStatus {
	return partyfindstate.DeriveState(s.post, len(s.approved), len(s.slots), now)
}

func (s postState) slot(id string) *dbmodels.PartyFindSlot {
	for idx := range s.slots {
		if s.slots[idx].ID == id {
			return &s.slots[idx]
		}
	}
	return nil
}

func (s postState) liveByCharacter(characterID string) *dbmodels.PartyFindApplyState {
	for idx := range s.live {
		if s.live[idx].CharacterID == characterID {
			return &s.live[idx]
		}
	}
	return nil
}

func (s postState) hasOpenSlotFor(jobType models.JobType) bool {
	for _, slot := range s.slots {
		if slot.IsAuthorSlot {
			continue
		}
		if _, occupied := s.approved[slot.ID]; occupied {
			continue
		}
		if slot.JobType.Accepts(jobType) {
			return true
		}
	}
	return false
}

func (s postState) authorApply() *dbmodels.PartyFindApplyState {
	for idx := range s.live {
		if s.live[idx].UserID == s.post.AuthorID && s.live[idx].Status == models.ApplyStatusApproved {
			return &s.live[idx]
		}
	}
	return nil
}

func (i impl) lockPost(ctx context.Context, tx partyfindstore.Provider, postID string) (*postState, error) {
	post, err := tx.LockPost(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(err, "error locking post")
	}
	if post == nil {
		return nil, reject(models.ErrNotFound)
	}
	slots, err := tx.ListSlots(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(err, "error getting post slots")
	}
	live, err := tx.ListApplies(ctx, postID, models.ApplyStatusWaiting, models.ApplyStatusApproved)
	if err != nil {
		return nil, errors.Wrap(err, "error getting post applications")
	}
	state := postState{
		post:     *post,
		slots:    slots,
		live:     live,
		approved: map[string]dbmodels.PartyFindApplyState{},
	}
	for _, apply := range live {
		if apply.Status == models.ApplyStatusApproved && apply.SlotID != nil {
			state.approved[*apply.SlotID] = apply
		}
	}
	return &state, nil
}

// lockAuthored locks the post and rejects anyone but its author.
func (i impl) lockAuthored(ctx context.Context, tx partyfindstore.Provider, userID, postID string) (*postState, error) {
	state, err := i.lockPost(ctx, tx, postID)
	if err != nil {
		return nil, err
	}
	if state.post.AuthorID != userID {
		return nil, reject(models.ErrNotAuthor)
	}
	return state, nil
}

// updateStatus persists the stored status for the new occupancy if it changed.
func (i impl) updateStatus(ctx context.Context, tx partyfindstore.Provider, state *postState, occupied int) error {
	status := partyfindstate.StoredStatus(state.post.Status, occupied, len(state.slots))
	if status == state.post.Status {
		return nil
	}
	err := tx.UpdatePost(ctx, state.post.ID, map[string]interface{}{"status": status})
	if err != nil {
		return errors.Wrap(err, "error updating post status")
	}
	state.post.Status = status
	return nil
}

func (i impl) ownedCharacter(ctx context.Context, tx partyfindstore.Provider, userID, characterID string) (*dbmodels.Character, error) {
	character, err := tx.LockCharacter(ctx, characterID)
	if err != nil {
		return nil, errors.Wrap(err, "error getting character")
	}
	if character == nil || character.UserID != userID {
		return nil, reject(models.ErrNoCharacter)
	}
	return character, nil
}

// checkContent resolves the stage and rejects a type or tab that does not contain it.
func (i impl) checkContent(ctx context.Context, data partyfindapimodels.PostData) (*dbmodels.ContentStage, error) {
	stage, err := i.contentStore.GetStage(ctx, data.ContentStageID)
	if err != nil {
		return nil, errors.Wrap(err, "error getting content stage")
	}
	if stage == nil || stage.ContentTab == nil {
		return nil, reject(models.ErrNotFound)
	}
	if data.ContentTabID != "" && data.ContentTabID != stage.ContentTabID {
		return nil, reject(models.ErrCommon)
	}
	if data.ContentTypeID != "" && data.ContentTypeID != stage.ContentTab.ContentTypeID {
		return nil, reject(models.ErrCommon)
	}
	server, err := i.regionStore.GetServer(ctx, data.ServerID)
	if err != nil {
		return nil, errors.Wrap(err, "error getting server")
	}
	if server == nil {
		return nil, reject(models.ErrNotFound)
	}
	return stage, nil
}

func (i impl) Create(ctx context.Context, userID string, data partyfindapimodels.PostData) (id string, hMsg models.ErrorCode, err error) {
	logger := i.getLogger(userID, "")
	startTime, err := data.StartInstant()
	if err != nil {
		return "", models.ErrCommon, nil
	}
	if !startTime.After(i.now()) {
		return "", models.ErrCommon, nil
	}
	stage, err := i.checkContent(ctx, data)
	if err != nil {
		hMsg, err = result(err)
		return "", hMsg, err
	}
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		character, err := i.ownedCharacter(ctx, tx, userID, data.CharacterID)
		if err != nil {
			return err
		}
		slots, authorIdx, err := partyfindstate.BuildSlots(stage.PartySize, data.EnforceRole, character.Job.JobType())
		if err != nil {
			return reject(models.ErrNoCharacter)
		}
		post := dbmodels.PartyFindPost{
			AuthorID:       userID,
			ContentStageID: stage.ID,
			ServerID:       data.ServerID,
			Title:          data.GetTitle(),
			StartTime:      startTime,
			Recurring:      data.Recurring,
			Practice:       data.Practice,
			Reclear:        data.Reclear,
			EnforceRole:    data.EnforceRole,
			Status:         partyfindstate.StoredStatus(models.PostStatusRecruiting, 1, len(slots)),
		}
		id, err = tx.CreatePost(ctx, post)
		if err != nil {
			return errors.Wrap(err, "error creating post")
		}
		slots, err = tx.CreateSlots(ctx, id, slots)
		if err != nil {
			return errors.Wrap(err, "error creating post slots")
		}
		authorSlotID := slots[authorIdx].ID
		_, err = tx.CreateApply(ctx, dbmodels.PartyFindApplyState{
			PostID:      id,
			SlotID:      &authorSlotID,
			CharacterID: character.ID,
			UserID:      userID,
			Status:      models.ApplyStatusApproved,
		})
		if err != nil {
			return errors.Wrap(err, "error creating author application")
		}
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return "", hMsg, err
	}
	logger.WithField("post_id", id).Info("post created")
	return id, "", nil
}

func (i impl) Edit(ctx context.Context, userID, postID string, data partyfindapimodels.PostData) (hMsg models.ErrorCode, err error) {
	startTime, err := data.StartInstant()
	if err != nil {
		return models.ErrCommon, nil
	}
	stage, err := i.checkContent(ctx, data)
	if err != nil {
		return result(err)
	}
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockAuthored(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		if !startTime.Equal(state.post.StartTime) && !startTime.After(i.now()) {
			return reject(models.ErrCommon)
		}
		authorApply := state.authorApply()
		if authorApply == nil {
			return errors.New("author application is missing")
		}
		character, err := i.ownedCharacter(ctx, tx, userID, data.CharacterID)
		if err != nil {
			return err
		}
		updMap := map[string]interface{}{
			"title":        data.GetTitle(),
			"start_time":   startTime,
			"recurring":    data.Recurring,
			"practice":     data.Practice,
			"reclear":      data.Reclear,
			"server_id":    data.ServerID,
			"enforce_role": data.EnforceRole,
		}
		restructure := stage.ID != state.post.ContentStageID ||
			data.EnforceRole != state.post.EnforceRole ||
			character.ID != authorApply.CharacterID
		if !restructure {
			return tx.UpdatePost(ctx, postID, updMap)
		}
		if len(state.live) > 1 {
			return reject(models.ErrConflict)
		}
		slots, authorIdx, err := partyfindstate.BuildSlots(stage.PartySize, data.EnforceRole, character.Job.JobType())
		if err != nil {
			return reject(models.ErrNoCharacter)
		}
		err = tx.DeleteSlots(ctx, postID)
		if err != nil {
			return errors.Wrap(err, "error deleting post slots")
		}
		slots, err = tx.CreateSlots(ctx, postID, slots)
		if err != nil {
			return errors.Wrap(err, "error creating post slots")
		}
		err = tx.UpdateApply(ctx, authorApply.ID, map[string]interface{}{
			"slot_id":      slots[authorIdx].ID,
			"character_id": character.ID,
		})
		if err != nil {
			return errors.Wrap(err, "error updating author application")
		}
		updMap["content_stage_id"] = stage.ID
		updMap["status"] = partyfindstate.StoredStatus(models.PostStatusRecruiting, 1, len(slots))
		return tx.UpdatePost(ctx, postID, updMap)
	})
	return result(err)
}

func (i impl) Delete(ctx context.Context, userID, postID string) (hMsg models.ErrorCode, err error) {
	var notifications []notification
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockAuthored(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		notified := map[string]bool{userID: true}
		for _, apply := range state.live {
			if notified[apply.UserID] {
				continue
			}
			notified[apply.UserID] = true
			notifications = append(notifications, notification{
				userID: apply.UserID,
				code:   models.PushPartyDeleted,
				args:   []interface{}{state.post.Title},
			})
		}
		err = tx.DeletePost(ctx, postID)
		if err != nil {
			return errors.Wrap(err, "error deleting post")
		}
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notify(ctx, notifications)
	return "", nil
}

func (i impl) Renew(ctx context.Context, userID, postID string) (hMsg models.ErrorCode, err error) {
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockAuthored(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		if !state.post.Recurring {
			return reject(models.ErrCommon)
		}
		now := i.now()
		if state.status(now) != models.PostStatusExpired {
			return reject(models.ErrConflict)
		}
		startTime := partyfindstate.NextStart(state.post.StartTime, now)
		return tx.UpdatePost(ctx, postID, map[string]interface{}{
			"start_time": startTime,
			"status":     partyfindstate.StoredStatus(state.post.Status, len(state.approved), len(state.slots)),
		})
	})
	return result(err)
}

func (i impl) Apply(ctx context.Context, userID, postID string, request partyfindapimodels.ApplyRequest) (id string, hMsg models.ErrorCode, err error) {
	var notifications []notification
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockPost(ctx, tx, postID)
		if err != nil {
			return err
		}
		if state.post.AuthorID == userID {
			return reject(models.ErrAuthor)
		}
		character, err := i.ownedCharacter(ctx, tx, userID, request.CharacterID)
		if err != nil {
			return err
		}
		if state.status(i.now()) == models.PostStatusExpired {
			return reject(models.ErrConflict)
		}
		if state.liveByCharacter(character.ID) != nil {
			return reject(models.ErrAlreadyApplied)
		}
		if state.post.EnforceRole && !state.hasOpenSlotFor(character.Job.JobType()) {
			return reject(models.ErrNoCharacter)
		}
		id, err = tx.CreateApply(ctx, dbmodels.PartyFindApplyState{
			PostID:      postID,
			CharacterID: character.ID,
			UserID:      userID,
			Status:      models.ApplyStatusWaiting,
		})
		if err != nil {
			if errors.Is(err, partyfindstore.ErrUniqueViolation) {
				return reject(models.ErrAlreadyApplied)
			}
			return errors.Wrap(err, "error creating application")
		}
		notifications = append(notifications, notification{
			userID: state.post.AuthorID,
			code:   models.PushPartyApply,
			args:   []interface{}{character.Name, state.post.Title},
		})
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return "", hMsg, err
	}
	i.notify(ctx, notifications)
	return id, "", nil
}

func (i impl) Approve(ctx context.Context, userID, postID string, request partyfindapimodels.ApproveRequest) (hMsg models.ErrorCode, err error) {
	var notifications []notification
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockAuthored(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		if state.status(i.now()) == models.PostStatusExpired {
			return reject(models.ErrConflict)
		}
		apply, err := tx.GetApply(ctx, request.ApplyID)
		if err != nil {
			return errors.Wrap(err, "error getting application")
		}
		if apply == nil || apply.PostID != postID {
			return reject(models.ErrNotFound)
		}
		if apply.Status != models.ApplyStatusWaiting {
			return reject(models.ErrConflict)
		}
		// the preloaded character may be stale until its row is locked
		character, err := tx.LockCharacter(ctx, apply.CharacterID)
		if err != nil {
			return errors.Wrap(err, "error locking character")
		}
		if character == nil || character.UserID != apply.UserID {
			return reject(models.ErrNoCharacter)
		}
		slot := state.slot(request.SlotID)
		if slot == nil {
			return reject(models.ErrNotFound)
		}
		if _, occupied := state.approved[slot.ID]; occupied || slot.IsAuthorSlot {
			return reject(models.ErrConflict)
		}
		if !slot.JobType.Accepts(character.Job.JobType()) {
			return reject(models.ErrCommon)
		}
		err = tx.UpdateApply(ctx, apply.ID, map[string]interface{}{
			"status":  models.ApplyStatusApproved,
			"slot_id": slot.ID,
		})
		if err != nil {
			if errors.Is(err, partyfindstore.ErrUniqueViolation) {
				return reject(models.ErrConflict)
			}
			return errors.Wrap(err, "error approving application")
		}
		err = i.updateStatus(ctx, tx, state, len(state.approved)+1)
		if err != nil {
			return err
		}
		notifications = append(notifications, notification{
			userID: apply.UserID,
			code:   models.PushPartyApproved,
			args:   []interface{}{character.Name, state.post.Title},
		})
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notify(ctx, notifications)
	return "", nil
}

func (i impl) Deny(ctx context.Context, userID, postID string, request partyfindapimodels.DenyRequest) (hMsg models.ErrorCode, err error) {
	var notifications []notification
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockAuthored(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		apply, err := tx.GetApply(ctx, request.ApplyID)
		if err != nil {
			return errors.Wrap(err, "error getting application")
		}
		if apply == nil || apply.PostID != postID {
			return reject(models.ErrNotFound)
		}
		if apply.Status != models.ApplyStatusWaiting {
			return reject(models.ErrConflict)
		}
		err = tx.UpdateApply(ctx, apply.ID, map[string]interface{}{
			"status":  models.ApplyStatusDenied,
			"slot_id": nil,
		})
		if err != nil {
			return errors.Wrap(err, "error denying application")
		}
		notifications = append(notifications, notification{
			userID: apply.UserID,
			code:   models.PushPartyDenied,
			args:   []interface{}{characterName(apply), state.post.Title},
		})
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notify(ctx, notifications)
	return "", nil
}

func (i impl) Kick(ctx context.Context, userID, postID string, request partyfindapimodels.KickRequest) (hMsg models.ErrorCode, err error) {
	var notifications []notification
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockAuthored(ctx, tx, userID, postID)
		if err != nil {
			return err
		}
		slot := state.slot(request.SlotID)
		if slot == nil {
			return reject(models.ErrNotFound)
		}
		if slot.IsAuthorSlot {
			return reject(models.ErrAuthor)
		}
		occupant, occupied := state.approved[slot.ID]
		if !occupied {
			return reject(models.ErrConflict)
		}
		err = tx.UpdateApply(ctx, occupant.ID, map[string]interface{}{
			"status":  models.ApplyStatusKicked,
			"slot_id": nil,
		})
		if err != nil {
			return errors.Wrap(err, "error kicking application")
		}
		err = i.updateStatus(ctx, tx, state, len(state.approved)-1)
		if err != nil {
			return err
		}
		notifications = append(notifications, notification{
			userID: occupant.UserID,
			code:   models.PushPartyKicked,
			args:   []interface{}{characterName(&occupant), state.post.Title},
		})
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notify(ctx, notifications)
	return "", nil
}

func (i impl) Withdraw(ctx context.Context, userID, postID string, request partyfindapimodels.WithdrawRequest) (hMsg models.ErrorCode, err error) {
	var notifications []notification
	err = i.store.Transaction(ctx, func(tx partyfindstore.Provider) error {
		state, err := i.lockPost(ctx, tx, postID)
		if err != nil {
			return err
		}
		if state.post.AuthorID == userID {
			return reject(models.ErrAuthor)
		}
		apply := state.liveByCharacter(request.CharacterID)
		if apply == nil {
			return reject(models.ErrNotFound)
		}
		if apply.UserID != userID {
			return reject(models.ErrNoCharacter)
		}
		err = tx.UpdateApply(ctx, apply.ID, map[string]interface{}{
			"status":  models.ApplyStatusWithdrawn,
			"slot_id": nil,
		})
		if err != nil {
			return errors.Wrap(err, "error withdrawing application")
		}
		if apply.Status == models.ApplyStatusApproved {
			err = i.updateStatus(ctx, tx, state, len(state.approved)-1)
			if err != nil {
				return err
			}
		}
		notifications = append(notifications, notification{
			userID: state.post.AuthorID,
			code:   models.PushPartyWithdrawn,
			args:   []interface{}{characterName(apply), state.post.Title},
		})
		return nil
	})
	hMsg, err = result(err)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	i.notify(ctx, notifications)
	return "", nil
}

func characterName(apply *dbmodels.PartyFindApplyState) string {
	if apply.Character == nil {
		return ""
	}
	return apply.Character.Name
}
