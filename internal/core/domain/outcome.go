package domain

type OutcomeKind int

const (
	OutcomeEmpty OutcomeKind = iota
	OutcomeAccepted
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "empty"
	}
}

// ProviderOutcome is the result of one provider stage. Only Accepted carries a
// candidate; Empty and TransportError both mean "try the next stage".
type ProviderOutcome struct {
	Kind      OutcomeKind
	Provider  string
	Candidate ScoredCandidate
	Err       error
}

func Accepted(provider string, candidate ScoredCandidate) ProviderOutcome {
	return ProviderOutcome{Kind: OutcomeAccepted, Provider: provider, Candidate: candidate}
}

func Empty(provider string) ProviderOutcome {
	return ProviderOutcome{Kind: OutcomeEmpty, Provider: provider}
}

func TransportFailure(provider string, err error) ProviderOutcome {
	return ProviderOutcome{Kind: OutcomeTransportError, Provider: provider, Err: err}
}

func (o ProviderOutcome) IsAccepted() bool {
	return o.Kind == OutcomeAccepted && o.Candidate.URL != ""
}
