package service

import "bistro/internal/model"

// statusRank orders the success path. Cancelled sits outside the ranking;
// it is reachable from any non-terminal state.
var statusRank = map[string]int{
	model.StatusPending:   1,
	model.StatusPreparing: 2,
	model.StatusReady:     3,
	model.StatusServed:    4,
}

func isTerminal(status string) bool {
	return status == model.StatusServed || status == model.StatusCancelled
}

// canTransition validates a status change. Transitions are monotonic along
// Pending → Preparing → Ready → Served; skipping forward is allowed, moving
// backward is not. Terminal orders reject every further transition.
func canTransition(from, to string) error {
	if to == model.StatusCancelled {
		if isTerminal(from) {
			return ErrOrderTerminal
		}
		return nil
	}

	toRank, ok := statusRank[to]
	if !ok {
		return ErrInvalidStatus
	}
	if isTerminal(from) {
		return ErrOrderTerminal
	}
	if toRank <= statusRank[from] {
		return ErrInvalidStatus
	}
	return nil
}
