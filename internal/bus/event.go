package bus

import "time"

// Event kinds published by the core stores. Subscribers filter by
// namespace prefix, e.g. "roster." matches both roster kinds.
const (
	KindRosterUpdated  = "roster.updated"
	KindRosterSelected = "roster.selected"
	KindThreadUpdated  = "thread.updated"
	KindCallStarted    = "call.started"
	KindCallEnded      = "call.ended"
	KindRecorderStart  = "recorder.started"
	KindRecorderStop   = "recorder.stopped"
	KindFlash          = "notify.flash"
)

// Event is a domain event carried on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Flash is the payload for notify.flash events.
type Flash struct {
	Level   string // info, warn, error
	Message string
}
