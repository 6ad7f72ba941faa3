package characterapimodels

import (
	"party-find-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharacterData(t *testing.T) {
	valid := CharacterData{
		Name:       "Alpha",
		RosterName: "Roster",
		Job:        models.JobBard,
		ItemLevel:  1620,
		Engravings: []string{" Awakening", "Awakening", "Grudge"},
	}

	t.Run(`valid character check`, func(t *testing.T) {
		require.Nil(t, valid.Validate())
		require.Equal(t, []string{"Awakening", "Grudge"}, valid.GetEngravings())
	})

	t.Run(`invalid fields check`, func(t *testing.T) {
		data := valid
		data.Name = "  "
		require.NotNil(t, data.Validate())

		data = valid
		data.Job = "wizard"
		require.NotNil(t, data.Validate())

		data = valid
		data.ItemLevel = -1
		require.NotNil(t, data.Validate())

		data = valid
		data.Engravings = []string{""}
		require.NotNil(t, data.Validate())
	})
}
