package dictapimodels

import dbmodels "party-find-backend/models/db"

type RegionView struct {
	ID      string       `json:"id"`
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Servers []ServerView `json:"servers"`
}

type ServerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func RegionConvert(rec dbmodels.Region) RegionView {
	result := RegionView{
		ID:      rec.ID,
		Code:    rec.Code,
		Name:    rec.Name,
		Servers: make([]ServerView, 0, len(rec.Servers)),
	}
	for _, server := range rec.Servers {
		result.Servers = append(result.Servers, ServerView{
			ID:   server.ID,
			Name: server.Name,
		})
	}
	return result
}
