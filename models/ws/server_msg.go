package wsmodels

// TimeLayout is the format of ServerMessage.Time (UTC).
const TimeLayout = "2006-01-02T15:04:05Z"

type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"` // event time
	Code     string `json:"code"` // event code, models.PushCode
	Title    string `json:"title"`
	Msg      string `json:"msg"`
}
