package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted event code, e.g. "fee.generated".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

// Event types published by the billing jobs.
const (
	TypeFeeGenerated        = "fee.generated"
	TypeFeesMarkedOverdue   = "fee.overdue"
	TypeSubscriptionExpired = "subscription.expired"

	// NotifyPrefix is the type prefix of notification requests from other services,
	// e.g. "notify.general".
	NotifyPrefix = "notify."
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
