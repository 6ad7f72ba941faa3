package partyfindlisting

import (
	"context"
	"party-find-backend/db"
	partyfindfilter "party-find-backend/lib/party-find/filter"
	listingstore "party-find-backend/lib/party-find/listing-store"
	partyfindstate "party-find-backend/lib/party-find/state"
	initchecker "party-find-backend/lib/utils/init-checker"
	"party-find-backend/models"
	partyfindapimodels "party-find-backend/models/api/partyfind"
	dbmodels "party-find-backend/models/db"
	"time"

	log "github.com/sirupsen/logrus"
)

// Provider answers read-only listing queries.
type Provider interface {
	// Filter is the public listing page: only open posts that start in the future.
	Filter(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) (list []partyfindapimodels.PostView, rowCount int64, err error)
	Authored(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) (list []partyfindapimodels.PostView, rowCount int64, err error)
	Applied(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) (list []partyfindapimodels.PostView, rowCount int64, err error)
	// Get returns one post. The waitlist is filled for the author only.
	Get(ctx context.Context, userID, postID string) (view *partyfindapimodels.PostView, hMsg models.ErrorCode, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(listingstore.NewInstance(db.DB), time.Now)
}

func NewInstance(store listingstore.Provider, now func() time.Time) Provider {
	instance := impl{
		store: store,
		now:   now,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	return instance
}

type impl struct {
	store listingstore.Provider
	now   func() time.Time
}

func (i impl) getLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) Filter(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) ([]partyfindapimodels.PostView, int64, error) {
	now := i.now()
	clauses := partyfindfilter.Compile(filter, partyfindfilter.Options{WithDefaults: true, Now: now})
	return i.list(ctx, userID, filter, clauses, now)
}

func (i impl) Authored(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) ([]partyfindapimodels.PostView, int64, error) {
	now := i.now()
	clauses := partyfindfilter.Compile(filter, partyfindfilter.Options{Now: now})
	clauses = append(clauses, partyfindfilter.AuthoredBy(userID))
	return i.list(ctx, userID, filter, clauses, now)
}

func (i impl) Applied(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) ([]partyfindapimodels.PostView, int64, error) {
	now := i.now()
	clauses := partyfindfilter.Compile(filter, partyfindfilter.Options{Now: now})
	clauses = append(clauses, partyfindfilter.AppliedBy(userID))
	return i.list(ctx, userID, filter, clauses, now)
}

func (i impl) list(ctx context.Context, userID string, filter partyfindapimodels.PostFilter, clauses []partyfindfilter.Clause, now time.Time) ([]partyfindapimodels.PostView, int64, error) {
	logger := i.getLogger(userID).WithField("clause_count", len(clauses))
	rowCount, err := i.store.Count(ctx, clauses)
	if err != nil {
		return nil, 0, err
	}
	result := []partyfindapimodels.PostView{}
	if rowCount == 0 {
		return result, 0, nil
	}
	_, limit := filter.GetPage()
	rows, err := i.store.List(ctx, clauses, filter.GetOffset(), limit)
	if err != nil {
		return nil, 0, err
	}
	postIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		postIDs = append(postIDs, row.ID)
	}
	slotRows, err := i.store.ListSlots(ctx, postIDs)
	if err != nil {
		return nil, 0, err
	}
	slotsByPost := groupSlots(slotRows)
	for _, row := range rows {
		result = append(result, BuildView(row, slotsByPost[row.ID], userID, now))
	}
	logger.WithField("row_count", rowCount).Debug("listing query done")
	return result, rowCount, nil
}

func (i impl) Get(ctx context.Context, userID, postID string) (*partyfindapimodels.PostView, models.ErrorCode, error) {
	row, err := i.store.GetByID(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	if row == nil {
		return nil, models.ErrNotFound, nil
	}
	slotRows, err := i.store.ListSlots(ctx, []string{postID})
	if err != nil {
		return nil, "", err
	}
	view := BuildView(*row, slotRows, userID, i.now())
	if !view.IsAuthor {
		return &view, "", nil
	}
	waitlist, err := i.store.ListWaitlist(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	view.Waitlist = make([]partyfindapimodels.ApplicantView, 0, len(waitlist))
	for _, apply := range waitlist {
		view.Waitlist = append(view.Waitlist, applicantView(apply))
	}
	return &view, "", nil
}

func groupSlots(rows []dbmodels.PartyFindSlotRow) map[string][]dbmodels.PartyFindSlotRow {
	result := map[string][]dbmodels.PartyFindSlotRow{}
	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row)
	}
	return result
}

// BuildView assembles one listing row. Slots must be in index order.
func BuildView(row dbmodels.PartyFindPostExt, slots []dbmodels.PartyFindSlotRow, userID string, now time.Time) partyfindapimodels.PostView {
	view := partyfindapimodels.PostView{
		ID:             row.ID,
		Title:          row.Title,
		AuthorID:       row.AuthorID,
		AuthorNickname: row.AuthorNickname,
		Content: partyfindapimodels.ContentRef{
			TypeID:       row.ContentTypeID,
			TypeCode:     row.ContentTypeCode,
			TypeName:     row.ContentTypeName,
			TabID:        row.ContentTabID,
			TabName:      row.ContentTabName,
			StageID:      row.ContentStageID,
			StageName:    row.ContentStageName,
			PartySize:    row.PartySize,
			MinItemLevel: row.MinItemLevel,
		},
		ServerID:    row.ServerID,
		ServerName:  row.ServerName,
		RegionID:    row.RegionID,
		RegionName:  row.RegionName,
		StartTime:   row.StartTime.UTC(),
		Recurring:   row.Recurring,
		Practice:    row.Practice,
		Reclear:     row.Reclear,
		EnforceRole: row.EnforceRole,
		UpdatedAt:   row.UpdatedAt,
		Slots:       make([]partyfindapimodels.SlotView, 0, len(slots)),
		IsAuthor:    row.AuthorID == userID,
	}
	levels := make([]float64, 0, len(slots))
	for _, slot := range slots {
		slotView := partyfindapimodels.SlotView{
			ID:           slot.SlotID,
			Index:        slot.SlotIndex,
			JobType:      slot.JobType,
			IsAuthorSlot: slot.IsAuthorSlot,
		}
		if slot.CharacterID != nil {
			slotView.Character = slotCharacter(slot)
			slotView.IsMine = userID != "" && slotView.Character.UserID == userID
			levels = append(levels, slotView.Character.ItemLevel)
		}
		view.Slots = append(view.Slots, slotView)
	}
	view.FilledCount = len(levels)
	view.AvgItemLevel = partyfindstate.AvgItemLevel(levels)
	view.Status = partyfindstate.DeriveState(row.PartyFindPost, view.FilledCount, len(slots), now)
	return view
}

func slotCharacter(slot dbmodels.PartyFindSlotRow) *partyfindapimodels.SlotCharacter {
	result := &partyfindapimodels.SlotCharacter{
		ID:         *slot.CharacterID,
		Engravings: []string(slot.Engravings),
	}
	if slot.ApplyID != nil {
		result.ApplyID = *slot.ApplyID
	}
	if slot.CharacterName != nil {
		result.Name = *slot.CharacterName
	}
	if slot.RosterName != nil {
		result.RosterName = *slot.RosterName
	}
	if slot.Job != nil {
		result.Job = *slot.Job
	}
	if slot.ItemLevel != nil {
		result.ItemLevel = *slot.ItemLevel
	}
	if slot.CharacterOwner != nil {
		result.UserID = *slot.CharacterOwner
	}
	if result.Engravings == nil {
		result.Engravings = []string{}
	}
	return result
}

func applicantView(apply dbmodels.PartyFindApplyState) partyfindapimodels.ApplicantView {
	result := partyfindapimodels.ApplicantView{
		ApplyID:     apply.ID,
		CharacterID: apply.CharacterID,
		UserID:      apply.UserID,
		Status:      apply.Status,
		AppliedAt:   apply.CreatedAt,
		Engravings:  []string{},
	}
	if apply.Character != nil {
		result.Name = apply.Character.Name
		result.RosterName = apply.Character.RosterName
		result.Job = apply.Character.Job
		result.JobType = apply.Character.Job.JobType()
		result.ItemLevel = apply.Character.ItemLevel
		if len(apply.Character.Engravings) != 0 {
			result.Engravings = []string(apply.Character.Engravings)
		}
	}
	return result
}
