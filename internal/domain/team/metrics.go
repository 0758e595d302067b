package team

const (
	DecisionRequested = "requested"
	DecisionApproved  = "approved"
	DecisionRejected  = "rejected"
)

type Metrics interface {
	MembershipDecision(decision string)
}

type noopMetrics struct{}

func (noopMetrics) MembershipDecision(string) {}
