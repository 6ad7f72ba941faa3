package db

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	contentstore "party-find-backend/lib/dicts/content/store"
	regionstore "party-find-backend/lib/dicts/region/store"
	"party-find-backend/models"
	dbmodels "party-find-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	contentPreloadFile = "./static_preload/content.json"
	serverPreloadFile  = "./static_preload/servers.csv"
)

func InitPreload() {
	ctx := context.Background()
	fillContent(ctx)
	fillRegions(ctx)
}

type contentStageItem struct {
	Name         string  `json:"name"`
	MinItemLevel float64 `json:"min_item_level"`
	PartySize    int     `json:"party_size"`
}

type contentTabItem struct {
	Name   string             `json:"name"`
	Stages []contentStageItem `json:"stages"`
}

type contentTypeItem struct {
	Code models.ContentTypeCode `json:"code"`
	Name string                 `json:"name"`
	Tabs []contentTabItem       `json:"tabs"`
}

func fillContent(ctx context.Context) {
	log.Info("content preload")
	body, err := os.ReadFile(contentPreloadFile)
	if err != nil {
		log.WithError(err).Error("error reading content preload file")
		return
	}
	items := []contentTypeItem{}
	err = json.Unmarshal(body, &items)
	if err != nil {
		log.WithError(err).Error("error parsing content preload file")
		return
	}
	store := contentstore.NewInstance(DB)
	for k, item := range items {
		if !item.Code.IsKnown() {
			log.WithField("code", item.Code).Warn("unknown content type code skipped")
			continue
		}
		rec := convertContentType(item, k)
		err = store.Save(ctx, &rec)
		if err != nil {
			log.WithError(err).WithField("code", item.Code).Error("error adding content type")
			return
		}
	}
	log.Info("content added")
}

func convertContentType(item contentTypeItem, sortOrder int) dbmodels.ContentType {
	rec := dbmodels.ContentType{
		Code:      item.Code,
		Name:      item.Name,
		SortOrder: sortOrder,
	}
	for t, tab := range item.Tabs {
		tabRec := dbmodels.ContentTab{
			Name:      tab.Name,
			SortOrder: t,
		}
		for s, stage := range tab.Stages {
			tabRec.Stages = append(tabRec.Stages, dbmodels.ContentStage{
				Name:         stage.Name,
				MinItemLevel: stage.MinItemLevel,
				PartySize:    stage.PartySize,
				SortOrder:    s,
			})
		}
		rec.Tabs = append(rec.Tabs, tabRec)
	}
	return rec
}

func fillRegions(ctx context.Context) {
	log.Info("region preload")
	lines, err := readCsvFile(serverPreloadFile, ';')
	if err != nil {
		log.WithError(err).Error("error loading server preload file")
		return
	}
	regions, err := convertRegions(lines)
	if err != nil {
		log.WithError(err).Error("error loading server preload file")
		return
	}
	store := regionstore.NewInstance(DB)
	for k := range regions {
		err = store.Save(ctx, &regions[k])
		if err != nil {
			log.WithError(err).WithField("code", regions[k].Code).Error("error adding region")
			return
		}
	}
	log.Info("regions added")
}

// convertRegions groups server lines by region code keeping file order. The first line is a header.
func convertRegions(lines [][]string) ([]dbmodels.Region, error) {
	result := []dbmodels.Region{}
	index := map[string]int{}
	for k, line := range lines {
		if k == 0 {
			continue
		}
		if len(line) < 3 {
			return nil, errors.Errorf("line %v: expected 3 columns, got %v", k+1, len(line))
		}
		code, name, server := line[0], line[1], line[2]
		idx, ok := index[code]
		if !ok {
			result = append(result, dbmodels.Region{Code: code, Name: name})
			idx = len(result) - 1
			index[code] = idx
		}
		result[idx].Servers = append(result[idx].Servers, dbmodels.Server{Name: server})
	}
	return result, nil
}

func readCsvFile(filePath string, comma rune) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening file")
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.Comma = comma
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}

	return records, nil
}
