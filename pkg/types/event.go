package types

// TriggerEvent holds the parts of the runner-supplied event payload the
// action works with. It is built once at startup and never modified.
type TriggerEvent struct {
	EventName    string
	Action       string
	Sender       string
	Organization string
	Owner        string
	Repo         string
	LabelName    string
	CommentBody  string
	Number       int
}

// HasPullRequest reports whether the event carries a pull request number.
func (e TriggerEvent) HasPullRequest() bool {
	return e.Number > 0
}
