package types

// Member is a single entry of a team member list
type Member struct {
	Login string `json:"login"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MembershipStatus is the outcome of checking one team for the sender
type MembershipStatus int

const (
	StatusNotAMember MembershipStatus = iota
	StatusMember
	StatusTeamNotFound
	StatusTransportError
)

func (s MembershipStatus) String() string {
	switch s {
	case StatusMember:
		return "member"
	case StatusNotAMember:
		return "not_a_member"
	case StatusTeamNotFound:
		return "team_not_found"
	case StatusTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// TeamResult is the membership outcome for a single team slug
type TeamResult struct {
	Slug   string
	Status MembershipStatus
	Err    error
}

// Decision collects the per-team results of an approval check
type Decision struct {
	Sender       string
	Organization string
	Teams        []TeamResult
}

// Approved is true iff at least one team reported the sender as a member.
func (d Decision) Approved() bool {
	for _, t := range d.Teams {
		if t.Status == StatusMember {
			return true
		}
	}
	return false
}

// MissingTeams returns the slugs the organization does not have.
func (d Decision) MissingTeams() []string {
	return d.slugsWithStatus(StatusTeamNotFound)
}

// FailedTeams returns the slugs whose lookup failed in transport.
func (d Decision) FailedTeams() []string {
	return d.slugsWithStatus(StatusTransportError)
}

func (d Decision) slugsWithStatus(status MembershipStatus) []string {
	slugs := make([]string, 0)
	for _, t := range d.Teams {
		if t.Status == status {
			slugs = append(slugs, t.Slug)
		}
	}
	return slugs
}
