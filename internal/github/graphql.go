package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Recnoss/A.C.E.S/schema"
)

// contributionsQuery aggregates a user's activity inside one organization.
// Pull request edges are window-filtered client side because the pull
// request connection has no date argument.
const contributionsQuery = `
query($username: String!, $from: DateTime!, $to: DateTime!, $org: ID) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to, organizationID: $org) {
      totalCommitContributions
      totalPullRequestContributions
      totalPullRequestReviewContributions
      commitContributionsByRepository {
        repository {
          name
          owner {
            login
          }
        }
        contributions {
          totalCount
        }
      }
      pullRequestReviewContributions(first: 100) {
        nodes {
          pullRequestReview {
            comments {
              totalCount
            }
          }
        }
      }
    }
    pullRequests(first: 100, states: [MERGED, OPEN, CLOSED], orderBy: {field: CREATED_AT, direction: DESC}) {
      edges {
        node {
          state
          createdAt
          mergedAt
          comments {
            totalCount
          }
          repository {
            owner {
              login
            }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				TotalCommitContributions            int `json:"totalCommitContributions"`
				TotalPullRequestContributions       int `json:"totalPullRequestContributions"`
				TotalPullRequestReviewContributions int `json:"totalPullRequestReviewContributions"`
				CommitContributionsByRepository     []struct {
					Repository struct {
						Name  string `json:"name"`
						Owner struct {
							Login string `json:"login"`
						} `json:"owner"`
					} `json:"repository"`
					Contributions struct {
						TotalCount int `json:"totalCount"`
					} `json:"contributions"`
				} `json:"commitContributionsByRepository"`
				PullRequestReviewContributions struct {
					Nodes []struct {
						PullRequestReview struct {
							Comments struct {
								TotalCount int `json:"totalCount"`
							} `json:"comments"`
						} `json:"pullRequestReview"`
					} `json:"nodes"`
				} `json:"pullRequestReviewContributions"`
			} `json:"contributionsCollection"`
			PullRequests struct {
				Edges []struct {
					Node struct {
						State     string     `json:"state"`
						CreatedAt time.Time  `json:"createdAt"`
						MergedAt  *time.Time `json:"mergedAt"`
						Comments  struct {
							TotalCount int `json:"totalCount"`
						} `json:"comments"`
						Repository struct {
							Owner struct {
								Login string `json:"login"`
							} `json:"owner"`
						} `json:"repository"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"pullRequests"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) fetchViaGraphQL(ctx context.Context, username, org string, window schema.Window) (*schema.RawContribution, error) {
	orgID, err := c.orgNodeID(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("resolve organization %s: %w", org, err)
	}

	payload, err := json.Marshal(graphQLRequest{
		Query: contributionsQuery,
		Variables: map[string]any{
			"username": username,
			"from":     window.Start.Format(time.RFC3339),
			"to":       window.End.Format(time.RFC3339),
			"org":      orgID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	var resp graphQLResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/graphql", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("query error: %s", resp.Errors[0].Message)
	}
	if resp.Data.User == nil {
		return nil, errors.New("user missing from query response")
	}

	user := resp.Data.User
	coll := user.ContributionsCollection
	raw := &schema.RawContribution{
		Commits:   coll.TotalCommitContributions,
		PRsOpened: coll.TotalPullRequestContributions,
		Reviews:   coll.TotalPullRequestReviewContributions,
	}
	for _, byRepo := range coll.CommitContributionsByRepository {
		if byRepo.Contributions.TotalCount > 0 {
			raw.Repositories = append(raw.Repositories, byRepo.Repository.Name)
		}
	}
	for _, node := range coll.PullRequestReviewContributions.Nodes {
		raw.ReviewComments += node.PullRequestReview.Comments.TotalCount
	}
	for _, edge := range user.PullRequests.Edges {
		pr := edge.Node
		if pr.Repository.Owner.Login != org || !window.Contains(pr.CreatedAt) {
			continue
		}
		switch pr.State {
		case "MERGED":
			raw.PRsMerged++
		case "CLOSED":
			raw.PRsClosed++
		}
		raw.PRCommentsReceived += pr.Comments.TotalCount
	}
	return raw, nil
}

// orgNodeID resolves an organization login to its node ID, memoizing the
// answer for the lifetime of the client.
func (c *Client) orgNodeID(ctx context.Context, org string) (string, error) {
	c.mu.Lock()
	id, ok := c.orgIDs[org]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	var out struct {
		NodeID string `json:"node_id"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/orgs/%s", c.baseURL, org), nil, &out); err != nil {
		return "", err
	}
	if out.NodeID == "" {
		return "", fmt.Errorf("organization %s has no node ID", org)
	}

	c.mu.Lock()
	c.orgIDs[org] = out.NodeID
	c.mu.Unlock()
	return out.NodeID, nil
}
