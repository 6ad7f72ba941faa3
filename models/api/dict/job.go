package dictapimodels

import "party-find-backend/models"

type JobView struct {
	Code    models.Job     `json:"code"`
	JobType models.JobType `json:"job_type"` // SUPPORT or DPS
}

func JobListConvert(jobs []models.Job) []JobView {
	result := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, JobView{
			Code:    job,
			JobType: job.JobType(),
		})
	}
	return result
}
