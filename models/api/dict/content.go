package dictapimodels

import (
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"
)

type ContentTypeView struct {
	ID   string                 `json:"id"`
	Code models.ContentTypeCode `json:"code"` // stable code used by the listing filter
	Name string                 `json:"name"`
	Tabs []ContentTabView       `json:"tabs"`
}

type ContentTabView struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Stages []ContentStageView `json:"stages"`
}

type ContentStageView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MinItemLevel float64 `json:"min_item_level"`
	PartySize    int     `json:"party_size"`
}

func ContentTypeConvert(rec dbmodels.ContentType) ContentTypeView {
	result := ContentTypeView{
		ID:   rec.ID,
		Code: rec.Code,
		Name: rec.Name,
		Tabs: make([]ContentTabView, 0, len(rec.Tabs)),
	}
	for _, tab := range rec.Tabs {
		tabView := ContentTabView{
			ID:     tab.ID,
			Name:   tab.Name,
			Stages: make([]ContentStageView, 0, len(tab.Stages)),
		}
		for _, stage := range tab.Stages {
			tabView.Stages = append(tabView.Stages, ContentStageView{
				ID:           stage.ID,
				Name:         stage.Name,
				MinItemLevel: stage.MinItemLevel,
				PartySize:    stage.PartySize,
			})
		}
		result.Tabs = append(result.Tabs, tabView)
	}
	return result
}
