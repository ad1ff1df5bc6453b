package nostrnode

// Commands understood by nodes in the "command" field of a control envelope.
const (
	CommandPublishEvent = "PUBLISH_EVENT"
	CommandGetEvent     = "GET_EVENT"
)

// Statuses a node puts in the content of its signed responses.
const (
	StatusOK        = "ok"
	StatusDuplicate = "duplicate"
	StatusNotFound  = "not_found"
)

// Ack is the content of a node response to a control envelope.
type Ack struct {
	Status   string `json:"status"`
	Command  string `json:"command,omitempty"`
	Envelope ID     `json:"envelope"`
	EventID  *ID    `json:"event_id,omitempty"`
	Event    *Event `json:"event,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (ack Ack) OK() bool { return ack.Status == StatusOK || ack.Status == StatusDuplicate }
