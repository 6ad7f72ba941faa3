package contentprovider

import (
	"context"
	"party-find-backend/db"
	contentstore "party-find-backend/lib/dicts/content/store"
	initchecker "party-find-backend/lib/utils/init-checker"
	dictapimodels "party-find-backend/models/api/dict"
)

type Provider interface {
	List(ctx context.Context) ([]dictapimodels.ContentTypeView, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store: contentstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
}

type impl struct {
	store contentstore.Provider
}

func (i impl) List(ctx context.Context) ([]dictapimodels.ContentTypeView, error) {
	recList, err := i.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.ContentTypeView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.ContentTypeConvert(rec))
	}
	return result, nil
}
