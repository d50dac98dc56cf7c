package gate

import "github.com/alexanderramin/daywise/internal/domain"

// Decision is the outcome of a requested status change.
type Decision struct {
	Allowed bool
	// Message is set when the change is refused.
	Message string
	Reason  BlockReason
}

// Decide applies the completion rule: moving to DONE is refused while the gate
// reports the task blocked; every other transition, including DONE -> TODO,
// is allowed without consulting dependencies.
func Decide(target domain.TaskStatus, gateResult Result) Decision {
	if target != domain.TaskDone || !gateResult.Blocked {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Message: gateResult.Message, Reason: gateResult.Reason}
}
