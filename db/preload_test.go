package db

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertRegions(t *testing.T) {
	t.Run(`grouping check`, func(t *testing.T) {
		lines := [][]string{
			{"region_code", "region_name", "server_name"},
			{"NAE", "North America East", "Azena"},
			{"EUC", "Europe Central", "Arcturus"},
			{"NAE", "North America East", "Avesta"},
		}
		regions, err := convertRegions(lines)
		require.Nil(t, err)
		require.Len(t, regions, 2)
		require.Equal(t, "NAE", regions[0].Code)
		require.Len(t, regions[0].Servers, 2)
		require.Equal(t, "Avesta", regions[0].Servers[1].Name)
		require.Equal(t, "EUC", regions[1].Code)
	})

	t.Run(`short line check`, func(t *testing.T) {
		_, err := convertRegions([][]string{{"h"}, {"NAE", "North America East"}})
		require.NotNil(t, err)
	})
}

func TestPreloadFiles(t *testing.T) {
	t.Run(`content file check`, func(t *testing.T) {
		body, err := os.ReadFile("../static_preload/content.json")
		require.Nil(t, err)
		items := []contentTypeItem{}
		require.Nil(t, json.Unmarshal(body, &items))
		require.NotEmpty(t, items)
		for k, item := range items {
			require.True(t, item.Code.IsKnown(), item.Code)
			rec := convertContentType(item, k)
			require.Equal(t, k, rec.SortOrder)
			for _, tab := range rec.Tabs {
				for _, stage := range tab.Stages {
					require.Contains(t, []int{4, 8}, stage.PartySize)
				}
			}
		}
	})

	t.Run(`server file check`, func(t *testing.T) {
		lines, err := readCsvFile("../static_preload/servers.csv", ';')
		require.Nil(t, err)
		regions, err := convertRegions(lines)
		require.Nil(t, err)
		codes := []string{}
		for _, r := range regions {
			codes = append(codes, r.Code)
		}
		require.Equal(t, []string{"NAE", "NAW", "EUC", "SA"}, codes)
	})
}
