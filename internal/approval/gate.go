package approval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sunrun/approve-label/pkg/types"
)

// DefaultExpectedLabel is the label the step gates on when none is configured
const DefaultExpectedLabel = "Label Action"

var ErrNotApproved = errors.New("not approved")

// NotApprovedError names the sender and the label that was refused.
// FailedTeams lists teams that could not be checked, if any.
type NotApprovedError struct {
	Sender      string
	Label       string
	FailedTeams []string
}

func (e *NotApprovedError) Error() string {
	msg := fmt.Sprintf("%s is not a valid approver for label %s", e.Sender, e.Label)
	if len(e.FailedTeams) > 0 {
		msg += "; lookup failed for: " + strings.Join(e.FailedTeams, ", ")
	}
	return msg
}

func (e *NotApprovedError) Is(target error) bool {
	return target == ErrNotApproved
}

// ConfigError reports approval teams that do not exist in the organization
type ConfigError struct {
	Organization string
	Teams        []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("can't find %s in %s organization", strings.Join(e.Teams, ", "), e.Organization)
}

// Gate combines the team decision with the label check. Teams missing from
// the organization are a configuration error regardless of the decision.
func Gate(decision types.Decision, triggerLabel, expectedLabel string) error {
	if missing := decision.MissingTeams(); len(missing) > 0 {
		return &ConfigError{
			Organization: decision.Organization,
			Teams:        missing,
		}
	}

	if !decision.Approved() || triggerLabel != expectedLabel {
		return &NotApprovedError{
			Sender:      decision.Sender,
			Label:       expectedLabel,
			FailedTeams: decision.FailedTeams(),
		}
	}
	return nil
}
