package regionprovider

import (
	"context"
	"party-find-backend/db"
	regionstore "party-find-backend/lib/dicts/region/store"
	initchecker "party-find-backend/lib/utils/init-checker"
	dictapimodels "party-find-backend/models/api/dict"
)

type Provider interface {
	List(ctx context.Context) ([]dictapimodels.RegionView, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store: regionstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
}

type impl struct {
	store regionstore.Provider
}

func (i impl) List(ctx context.Context) ([]dictapimodels.RegionView, error) {
	recList, err := i.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.RegionView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.RegionConvert(rec))
	}
	return result, nil
}
