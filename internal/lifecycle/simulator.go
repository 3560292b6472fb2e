package lifecycle

import (
	"math/rand"
)

// declineMessages is the fixed set of human-readable reasons the simulated
// processor picks from, uniformly at random.
var declineMessages = []string{
	"Insufficient funds",
	"Card declined by issuer",
	"Card expired",
	"Transaction rejected by anti-fraud checks",
}

// OutcomeSource decides the result of a simulated charge. Injected so tests
// can force approvals or specific declines.
type OutcomeSource interface {
	Outcome() (approved bool, declineMessage string)
}

type RandomOutcome struct{}

func (RandomOutcome) Outcome() (bool, string) {
	if rand.Intn(100) < 90 {
		return true, ""
	}
	return false, declineMessages[rand.Intn(len(declineMessages))]
}
