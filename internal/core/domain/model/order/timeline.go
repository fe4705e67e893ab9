package order

import "time"

// TimelineEvent is one line of the order's audit trail.
type TimelineEvent struct {
	Description string
	CreatedAt   time.Time
}

// appendTimeline is the only writer of the timeline. Each successful mutation
// calls it exactly once, and it also bumps updatedAt.
func (o *Order) appendTimeline(description string, now time.Time) {
	o.timeline = append(o.timeline, TimelineEvent{Description: description, CreatedAt: now})
	o.updatedAt = now
}
