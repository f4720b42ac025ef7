package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseActivityEvent validates and normalizes an event name.
func ParseActivityEvent(s string) (ActivityEvent, error) {
	event := ActivityEvent(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidActivityEvents[event]; !ok {
		return "", fmt.Errorf("%w %q: must be agreed, displayed, updated, visited, sent, disagreed", ErrUnknownEvent, s)
	}
	return event, nil
}

// SignedStatus is the reduced acceptance state of a signer for a group.
type SignedStatus struct {
	SignerID               string          `json:"signer_id" yaml:"signer_id"`
	GroupKey               string          `json:"group_key" yaml:"group_key"`
	NeedsAcceptance        bool            `json:"needs_acceptance" yaml:"needs_acceptance"`
	OutstandingContractIDs []string        `json:"outstanding_contract_ids" yaml:"outstanding_contract_ids"`
	Contracts              map[string]bool `json:"contracts" yaml:"contracts"`
}

// ReduceStatus folds a per-contract acceptance map into a SignedStatus.
// A contract mapped to false is outstanding; ids are sorted numerically
// when possible and lexically otherwise.
func ReduceStatus(accepted map[string]bool) SignedStatus {
	outstanding := make([]string, 0)
	for id, ok := range accepted {
		if !ok {
			outstanding = append(outstanding, id)
		}
	}
	sortContractIDs(outstanding)
	return SignedStatus{
		NeedsAcceptance:        len(outstanding) > 0,
		OutstandingContractIDs: outstanding,
		Contracts:              accepted,
	}
}

// AcceptedContractIDs lists the contracts the signer has accepted, sorted
// like OutstandingContractIDs.
func (s SignedStatus) AcceptedContractIDs() []string {
	accepted := make([]string, 0, len(s.Contracts))
	for id, ok := range s.Contracts {
		if ok {
			accepted = append(accepted, id)
		}
	}
	sortContractIDs(accepted)
	return accepted
}

func sortContractIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
