package models

import "github.com/pkg/errors"

type Job string

const (
	JobBerserker    Job = "berserker"
	JobDestroyer    Job = "destroyer"
	JobGunlancer    Job = "gunlancer"
	JobPaladin      Job = "paladin"
	JobSlayer       Job = "slayer"
	JobArcanist     Job = "arcanist"
	JobBard         Job = "bard"
	JobSorceress    Job = "sorceress"
	JobSummoner     Job = "summoner"
	JobGlaivier     Job = "glaivier"
	JobScrapper     Job = "scrapper"
	JobSoulfist     Job = "soulfist"
	JobStriker      Job = "striker"
	JobWardancer    Job = "wardancer"
	JobBreaker      Job = "breaker"
	JobDeathblade   Job = "deathblade"
	JobReaper       Job = "reaper"
	JobShadowhunter Job = "shadowhunter"
	JobSouleater    Job = "souleater"
	JobArtillerist  Job = "artillerist"
	JobDeadeye      Job = "deadeye"
	JobGunslinger   Job = "gunslinger"
	JobMachinist    Job = "machinist"
	JobSharpshooter Job = "sharpshooter"
	JobAeromancer   Job = "aeromancer"
	JobArtist       Job = "artist"
	JobWildsoul     Job = "wildsoul"
	JobValkyrie     Job = "valkyrie"
)

// JobType is the coarse role partition a slot can require.
type JobType string

const (
	JobTypeSupport JobType = "SUPPORT"
	JobTypeDps     JobType = "DPS"
	JobTypeAny     JobType = "ANY"
)

var supportJobs = map[Job]struct{}{
	JobPaladin:  {},
	JobBard:     {},
	JobArtist:   {},
	JobValkyrie: {},
}

var AllJobs = []Job{
	JobBerserker, JobDestroyer, JobGunlancer, JobPaladin, JobSlayer, JobValkyrie,
	JobArcanist, JobBard, JobSorceress, JobSummoner,
	JobGlaivier, JobScrapper, JobSoulfist, JobStriker, JobWardancer, JobBreaker,
	JobDeathblade, JobReaper, JobShadowhunter, JobSouleater,
	JobArtillerist, JobDeadeye, JobGunslinger, JobMachinist, JobSharpshooter,
	JobAeromancer, JobArtist, JobWildsoul,
}

var knownJobs = func() map[Job]struct{} {
	result := make(map[Job]struct{}, len(AllJobs))
	for _, job := range AllJobs {
		result[job] = struct{}{}
	}
	return result
}()

func (j Job) IsKnown() bool {
	_, ok := knownJobs[j]
	return ok
}

func (j Job) Validate() error {
	if !j.IsKnown() {
		return errors.Errorf("unknown job %q", string(j))
	}
	return nil
}

// JobType returns the partition of a known job. Unknown jobs have no partition.
func (j Job) JobType() JobType {
	if !j.IsKnown() {
		return ""
	}
	if _, ok := supportJobs[j]; ok {
		return JobTypeSupport
	}
	return JobTypeDps
}

// Accepts reports whether a slot constrained to t can hold a character of partition p.
func (t JobType) Accepts(p JobType) bool {
	if t == JobTypeAny {
		return true
	}
	return t == p
}
