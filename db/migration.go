package db

import (
	dbmodels "party-find-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// partialIndexes back the apply invariants: one live application per character
// and post, at most one approved occupant per slot.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_apply_live_character
		ON party_find_apply_states (post_id, character_id)
		WHERE status IN ('WAITING', 'APPROVED')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_apply_slot_occupant
		ON party_find_apply_states (slot_id)
		WHERE status = 'APPROVED' AND slot_id IS NOT NULL`,
}

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	models := []struct {
		name  string
		model interface{}
	}{
		{"User", &dbmodels.User{}},
		{"ContentType", &dbmodels.ContentType{}},
		{"ContentTab", &dbmodels.ContentTab{}},
		{"ContentStage", &dbmodels.ContentStage{}},
		{"Region", &dbmodels.Region{}},
		{"Server", &dbmodels.Server{}},
		{"Character", &dbmodels.Character{}},
		{"PartyFindPost", &dbmodels.PartyFindPost{}},
		{"PartyFindSlot", &dbmodels.PartyFindSlot{}},
		{"PartyFindApplyState", &dbmodels.PartyFindApplyState{}},
		{"PushData", &dbmodels.PushData{}},
	}
	for _, m := range models {
		if err := DB.AutoMigrate(m.model); err != nil {
			return errors.Wrapf(err, "error migrating %s", m.name)
		}
	}
	for _, stmt := range partialIndexes {
		if err := DB.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "error creating partial index")
		}
	}
	log.Info("migration completed")
	return nil
}
