package listingstore

import (
	"context"
	partyfindfilter "party-find-backend/lib/party-find/filter"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const postColumns = "p.*, " +
	"cs.name AS content_stage_name, cs.party_size, cs.min_item_level, " +
	"tab.id AS content_tab_id, tab.name AS content_tab_name, " +
	"ct.id AS content_type_id, ct.code AS content_type_code, ct.name AS content_type_name, " +
	"srv.name AS server_name, r.id AS region_id, r.name AS region_name, " +
	"u.nickname AS author_nickname"

const slotQuery = `SELECT fs.id AS slot_id, fs.post_id, fs.slot_index, fs.job_type, fs.is_author_slot,
	fa.id AS apply_id, c.id AS character_id, c.name AS character_name, c.roster_name, c.job,
	c.item_level, c.engravings, c.user_id AS character_owner
FROM party_find_slots AS fs
LEFT JOIN party_find_apply_states AS fa ON fa.slot_id = fs.id AND fa.status = ?
LEFT JOIN characters AS c ON c.id = fa.character_id
WHERE fs.post_id IN ?
ORDER BY fs.post_id, fs.slot_index`

// Provider reads denormalized listing rows. It never writes.
type Provider interface {
	Count(ctx context.Context, clauses []partyfindfilter.Clause) (int64, error)
	List(ctx context.Context, clauses []partyfindfilter.Clause, offset, limit int) ([]dbmodels.PartyFindPostExt, error)
	GetByID(ctx context.Context, id string) (*dbmodels.PartyFindPostExt, error)
	// ListSlots returns the slots of the posts ordered by post and slot index, with approved occupants.
	ListSlots(ctx context.Context, postIDs []string) ([]dbmodels.PartyFindSlotRow, error)
	ListWaitlist(ctx context.Context, postID string) ([]dbmodels.PartyFindApplyState, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) postQuery(ctx context.Context, clauses []partyfindfilter.Clause) *gorm.DB {
	tx := i.db.
		WithContext(ctx).
		Table("party_find_posts AS p").
		Joins("JOIN content_stages AS cs ON cs.id = p.content_stage_id").
		Joins("JOIN content_tabs AS tab ON tab.id = cs.content_tab_id").
		Joins("JOIN content_types AS ct ON ct.id = tab.content_type_id").
		Joins("JOIN servers AS srv ON srv.id = p.server_id").
		Joins("JOIN regions AS r ON r.id = srv.region_id").
		Joins("LEFT JOIN users AS u ON u.id = p.author_id")
	for _, c := range clauses {
		tx = tx.Where(c.SQL, c.Args...)
	}
	return tx
}

func (i impl) Count(ctx context.Context, clauses []partyfindfilter.Clause) (int64, error) {
	var rowCount int64
	err := i.postQuery(ctx, clauses).
		Count(&rowCount).
		Error
	if err != nil {
		log.WithError(err).Error("error counting party-find posts")
		return 0, errors.Wrap(err, "error counting party-find posts")
	}
	return rowCount, nil
}

func (i impl) List(ctx context.Context, clauses []partyfindfilter.Clause, offset, limit int) ([]dbmodels.PartyFindPostExt, error) {
	list := []dbmodels.PartyFindPostExt{}
	err := i.postQuery(ctx, clauses).
		Select(postColumns).
		Order("p.start_time, p.id").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error listing party-find posts")
	}
	return list, nil
}

func (i impl) GetByID(ctx context.Context, id string) (*dbmodels.PartyFindPostExt, error) {
	list := []dbmodels.PartyFindPostExt{}
	err := i.postQuery(ctx, []partyfindfilter.Clause{{SQL: "p.id = ?", Args: []interface{}{id}}}).
		Select(postColumns).
		Limit(1).
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error getting party-find post")
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (i impl) ListSlots(ctx context.Context, postIDs []string) ([]dbmodels.PartyFindSlotRow, error) {
	rows := []dbmodels.PartyFindSlotRow{}
	if len(postIDs) == 0 {
		return rows, nil
	}
	err := i.db.
		WithContext(ctx).
		Raw(slotQuery, models.ApplyStatusApproved, postIDs).
		Scan(&rows).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error listing party-find slots")
	}
	return rows, nil
}

func (i impl) ListWaitlist(ctx context.Context, postID string) (list []dbmodels.PartyFindApplyState, err error) {
	err = i.db.
		WithContext(ctx).
		Where("post_id = ?", postID).
		Where("status = ?", models.ApplyStatusWaiting).
		Preload("Character").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "error listing waitlist")
	}
	return list, nil
}
