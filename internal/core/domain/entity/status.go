package entity

import "time"

// Status is the lifecycle state of an order. Transitions move strictly
// forward through the fulfillment states; Cancelled is terminal and
// reachable from any non-terminal state.
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlaced, StatusProcessing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// next maps each fulfillment state to its single forward successor.
var next = map[Status]Status{
	StatusPlaced:     StatusProcessing,
	StatusProcessing: StatusReady,
	StatusReady:      StatusCompleted,
}

// CanTransition reports whether an order currently in state s may move to
// target. Only stepwise forward moves and cancellation are allowed.
func (s Status) CanTransition(target Status) bool {
	if s.Terminal() || !target.Valid() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return next[s] == target
}

// StatusEvent is one append-only row in the order's status history. The
// first event (placed) is written together with the order; every accepted
// transition appends exactly one more.
type StatusEvent struct {
	OrderID    string
	Status     Status
	OccurredAt time.Time
}

// FulfillmentStep is one entry of the four-step timeline shown on the order
// detail view.
type FulfillmentStep struct {
	ID       int
	Title    string
	Date     string
	IsActive bool
}

// timelineOrder is the display order of the fulfillment states. Cancelled
// orders keep whatever steps they reached before cancellation.
var timelineOrder = []struct {
	status Status
	title  string
}{
	{StatusPlaced, "Order Placed"},
	{StatusProcessing, "Processing"},
	{StatusReady, "Ready for Pickup"},
	{StatusCompleted, "Completed"},
}

// Timeline derives the fulfillment steps from the recorded status history.
// A step is active once a matching event exists; pending steps carry the
// literal "Pending" in place of a date.
func Timeline(events []StatusEvent) []FulfillmentStep {
	reached := make(map[Status]time.Time, len(events))
	for _, ev := range events {
		if _, ok := reached[ev.Status]; !ok {
			reached[ev.Status] = ev.OccurredAt
		}
	}

	steps := make([]FulfillmentStep, 0, len(timelineOrder))
	for i, def := range timelineOrder {
		step := FulfillmentStep{ID: i + 1, Title: def.title, Date: "Pending"}
		if at, ok := reached[def.status]; ok {
			step.IsActive = true
			step.Date = at.Format("1/2/2006")
		}
		steps = append(steps, step)
	}
	return steps
}
