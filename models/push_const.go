package models

type PushCode string

const (
	PushPartyApply     PushCode = "PushPartyApply"
	PushPartyApproved  PushCode = "PushPartyApproved"
	PushPartyDenied    PushCode = "PushPartyDenied"
	PushPartyKicked    PushCode = "PushPartyKicked"
	PushPartyWithdrawn PushCode = "PushPartyWithdrawn"
	PushPartyDeleted   PushCode = "PushPartyDeleted"
)

type PushTpl struct {
	Title string
	Msg   string
}

var PushCodeMap = map[PushCode]PushTpl{
	PushPartyApply:     {Title: "New application", Msg: "%v applied to «%v»."},
	PushPartyApproved:  {Title: "Application approved", Msg: "%v joined «%v»."},
	PushPartyDenied:    {Title: "Application denied", Msg: "%v was not accepted to «%v»."},
	PushPartyKicked:    {Title: "Removed from party", Msg: "%v was removed from «%v»."},
	PushPartyWithdrawn: {Title: "Application withdrawn", Msg: "%v left «%v»."},
	PushPartyDeleted:   {Title: "Party deleted", Msg: "«%v» was deleted by its author."},
}
