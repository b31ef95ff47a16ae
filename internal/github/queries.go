package github

import (
	"github.com/shurcooL/githubv4"

	"github.com/sunrun/approve-label/pkg/types"
)

// Query and mutation shapes. Lists are capped at a single page.

// ID is a node id passed as a query variable. The variable type is taken
// from the Go type name, so it has to be called ID.
type ID string

type memberNode struct {
	Login string
	Email string
	Name  *string
}

func (n memberNode) member() types.Member {
	m := types.Member{Login: n.Login, Email: n.Email}
	if n.Name != nil {
		m.Name = *n.Name
	}
	return m
}

type teamMembersQuery struct {
	Organization *struct {
		Team *struct {
			Members struct {
				Edges []struct {
					Node memberNode
				}
			} `graphql:"members(membership: ALL, first: 50)"`
		} `graphql:"team(slug: $teamSlug)"`
	} `graphql:"organization(login: $owner)"`
}

type repositoryIDQuery struct {
	Repository *struct {
		ID string
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type pullRequestIDQuery struct {
	Repository *struct {
		PullRequest *struct {
			ID string
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type labelNode struct {
	ID          string
	Name        string
	Color       string
	Description *string
}

func (n labelNode) label() types.Label {
	l := types.Label{ID: n.ID, Name: n.Name, Color: n.Color}
	if n.Description != nil {
		l.Description = *n.Description
	}
	return l
}

type repositoryLabelsQuery struct {
	Node *struct {
		Repository struct {
			Labels struct {
				Nodes []labelNode
			} `graphql:"labels(first: 50)"`
		} `graphql:"... on Repository"`
	} `graphql:"node(id: $id)"`
}

// CreateLabelInput is the input of the createLabel mutation
type CreateLabelInput struct {
	RepositoryID githubv4.ID      `json:"repositoryId"`
	Name         githubv4.String  `json:"name"`
	Color        githubv4.String  `json:"color"`
	Description  *githubv4.String `json:"description,omitempty"`
}

type createLabelMutation struct {
	CreateLabel struct {
		Label labelNode
	} `graphql:"createLabel(input: $input)"`
}

type addLabelsMutation struct {
	AddLabelsToLabelable struct {
		ClientMutationID *string
	} `graphql:"addLabelsToLabelable(input: $input)"`
}

type removeLabelsMutation struct {
	RemoveLabelsFromLabelable struct {
		ClientMutationID *string
	} `graphql:"removeLabelsFromLabelable(input: $input)"`
}

type clearLabelsMutation struct {
	ClearLabelsFromLabelable struct {
		ClientMutationID *string
	} `graphql:"clearLabelsFromLabelable(input: $input)"`
}

type addCommentMutation struct {
	AddComment struct {
		CommentEdge struct {
			Node struct {
				CreatedAt githubv4.DateTime
				Body      string
			}
		}
	} `graphql:"addComment(input: $input)"`
}
