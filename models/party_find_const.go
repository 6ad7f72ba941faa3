package models

type PostStatus string

const (
	PostStatusRecruiting   PostStatus = "RECRUITING"
	PostStatusRerecruiting PostStatus = "RERECRUITING"
	PostStatusFull         PostStatus = "FULL"
	PostStatusExpired      PostStatus = "EXPIRED" // only derived, never stored
)

// IsOpen reports whether the status still lists the post on the recruitment page.
func (s PostStatus) IsOpen() bool {
	return s == PostStatusRecruiting || s == PostStatusRerecruiting
}

type ApplyStatus string

const (
	ApplyStatusWaiting   ApplyStatus = "WAITING"
	ApplyStatusApproved  ApplyStatus = "APPROVED"
	ApplyStatusDenied    ApplyStatus = "DENIED"
	ApplyStatusKicked    ApplyStatus = "KICKED"
	ApplyStatusWithdrawn ApplyStatus = "WITHDRAWN"
)

// IsLive reports whether the application still counts against the one-per-character rule.
func (s ApplyStatus) IsLive() bool {
	return s == ApplyStatusWaiting || s == ApplyStatusApproved
}

type ContentTypeCode string

const (
	ContentTypeLegionRaid   ContentTypeCode = "legion_raid"
	ContentTypeAbyssRaid    ContentTypeCode = "abyss_raid"
	ContentTypeAbyssDungeon ContentTypeCode = "abyss_dungeon"
	ContentTypeKazerosRaid  ContentTypeCode = "kazeros_raid"
	ContentTypeGuardian     ContentTypeCode = "guardian"
	ContentTypeCube         ContentTypeCode = "cube"
)

var knownContentTypes = map[ContentTypeCode]struct{}{
	ContentTypeLegionRaid:   {},
	ContentTypeAbyssRaid:    {},
	ContentTypeAbyssDungeon: {},
	ContentTypeKazerosRaid:  {},
	ContentTypeGuardian:     {},
	ContentTypeCube:         {},
}

func (c ContentTypeCode) IsKnown() bool {
	_, ok := knownContentTypes[c]
	return ok
}

const (
	PostTitleMaxLen = 35
	DaysInWeek      = 7
	PartyGroupSize  = 4
)
