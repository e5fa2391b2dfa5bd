package purchaseorder

type Status string

const (
	StatusPending            Status = "Pending"
	StatusAccepted           Status = "Accepted"
	StatusProposedBySupplier Status = "Proposed by Supplier"
	StatusDeclined           Status = "Declined"
	StatusShipping           Status = "Shipping"
	StatusDelivered          Status = "Delivered"
	// Set by buyer-side tooling only.
	StatusCompleted          Status = "Completed"
	StatusDeclinedByAMAS     Status = "Declined by AMAS"
	StatusDeclinedBySupplier Status = "Declined by Supplier"
)

type Action string

const (
	ActionAccept  Action = "accept"
	ActionPropose Action = "propose"
	ActionDecline Action = "decline"
	ActionShip    Action = "ship"
	ActionDeliver Action = "deliver"
)

var allStatuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusProposedBySupplier,
	StatusDeclined,
	StatusShipping,
	StatusDelivered,
	StatusCompleted,
	StatusDeclinedByAMAS,
	StatusDeclinedBySupplier,
}

// ActiveStatuses are listed on the supplier's working board.
var ActiveStatuses = []Status{StatusPending, StatusAccepted, StatusShipping}

// ArchivedStatuses are read-only history.
var ArchivedStatuses = []Status{
	StatusDeclined,
	StatusDeclinedByAMAS,
	StatusDeclinedBySupplier,
	StatusDelivered,
	StatusCompleted,
}

type transition struct {
	from Status
	to   Status
}

var transitions = map[Action]transition{
	ActionAccept:  {from: StatusPending, to: StatusAccepted},
	ActionPropose: {from: StatusPending, to: StatusProposedBySupplier},
	ActionDecline: {from: StatusPending, to: StatusDeclined},
	ActionShip:    {from: StatusAccepted, to: StatusShipping},
	ActionDeliver: {from: StatusShipping, to: StatusDelivered},
}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) Archived() bool {
	for _, v := range ArchivedStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) Active() bool {
	for _, v := range ActiveStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (a Action) Valid() bool {
	_, ok := transitions[a]
	return ok
}

// Transition returns the status an action moves a PO from and to.
func Transition(a Action) (from Status, to Status, ok bool) {
	t, ok := transitions[a]
	return t.from, t.to, ok
}

// Next applies a to a PO in status current.
func Next(current Status, a Action) (Status, error) {
	t, ok := transitions[a]
	if !ok {
		return current, &ValidationError{Field: "action", Reason: "unknown action " + string(a)}
	}
	if current != t.from {
		return current, &InvalidTransitionError{Current: current, Attempted: t.to, Action: a}
	}
	return t.to, nil
}

// AllowedActions lists what the supplier may do with a PO in status s.
func AllowedActions(s Status) []Action {
	out := make([]Action, 0, 3)
	for _, a := range []Action{ActionAccept, ActionPropose, ActionDecline, ActionShip, ActionDeliver} {
		if transitions[a].from == s {
			out = append(out, a)
		}
	}
	return out
}
