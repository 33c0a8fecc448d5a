package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Recnoss/A.C.E.S/schema"
)

type repoSummary struct {
	Name     string `json:"name"`
	Fork     bool   `json:"fork"`
	Archived bool   `json:"archived"`
}

type pullSummary struct {
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	MergedAt  *time.Time `json:"merged_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

// fetchViaREST walks every active repository in the organization and counts
// the user's commits and pull requests inside the window. Review counts are
// not recoverable on this path and stay zero.
func (c *Client) fetchViaREST(ctx context.Context, username, org string, window schema.Window) (*schema.RawContribution, error) {
	repos, err := c.listOrgRepos(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	raw := &schema.RawContribution{}
	for _, repo := range repos {
		if repo.Fork || repo.Archived {
			continue
		}
		commits, err := c.countRepoCommits(ctx, org, repo.Name, username, window)
		if err != nil {
			return nil, fmt.Errorf("commits in %s/%s: %w", org, repo.Name, err)
		}
		if commits > 0 {
			raw.Commits += commits
			raw.Repositories = append(raw.Repositories, repo.Name)
		}
		opened, merged, closed, err := c.countRepoPulls(ctx, org, repo.Name, username, window)
		if err != nil {
			return nil, fmt.Errorf("pulls in %s/%s: %w", org, repo.Name, err)
		}
		raw.PRsOpened += opened
		raw.PRsMerged += merged
		raw.PRsClosed += closed
	}
	return raw, nil
}

func (c *Client) listOrgRepos(ctx context.Context, org string) ([]repoSummary, error) {
	var all []repoSummary
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/orgs/%s/repos?%s", c.baseURL, org, url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}.Encode())
		var batch []repoSummary
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

// countRepoCommits counts commits authored by the user in one repository.
// Empty and missing repositories count as zero rather than failing the
// whole enumeration.
func (c *Client) countRepoCommits(ctx context.Context, org, repo, username string, window schema.Window) (int, error) {
	total := 0
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/repos/%s/%s/commits?%s", c.baseURL, org, repo, url.Values{
			"author":   {username},
			"since":    {window.Start.Format(time.RFC3339)},
			"until":    {window.End.Format(time.RFC3339)},
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}.Encode())
		var batch []struct {
			SHA string `json:"sha"`
		}
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &batch); err != nil {
			var se *StatusError
			if errors.As(err, &se) && (se.StatusCode == http.StatusConflict || se.StatusCode == http.StatusNotFound) {
				return total, nil
			}
			return 0, err
		}
		total += len(batch)
		if len(batch) < perPage {
			return total, nil
		}
	}
}

// countRepoPulls counts the user's pull requests created inside the window.
// Pages are ordered newest first, so the walk stops at the first pull
// request older than the window.
func (c *Client) countRepoPulls(ctx context.Context, org, repo, username string, window schema.Window) (opened, merged, closed int, err error) {
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/repos/%s/%s/pulls?%s", c.baseURL, org, repo, url.Values{
			"state":     {"all"},
			"sort":      {"created"},
			"direction": {"desc"},
			"per_page":  {strconv.Itoa(perPage)},
			"page":      {strconv.Itoa(page)},
		}.Encode())
		var batch []pullSummary
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &batch); err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
				return opened, merged, closed, nil
			}
			return 0, 0, 0, err
		}
		for _, pr := range batch {
			if pr.CreatedAt.Before(window.Start) {
				return opened, merged, closed, nil
			}
			if pr.User.Login != username || !window.Contains(pr.CreatedAt) {
				continue
			}
			opened++
			switch {
			case pr.MergedAt != nil:
				merged++
			case pr.State == "closed":
				closed++
			}
		}
		if len(batch) < perPage {
			return opened, merged, closed, nil
		}
	}
}

// FetchTeam resolves a team slug within an organization.
func (c *Client) FetchTeam(ctx context.Context, org, slug string) (*schema.TeamInfo, error) {
	var out struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	u := fmt.Sprintf("%s/orgs/%s/teams/%s", c.baseURL, org, slug)
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &schema.TeamInfo{
		Slug:         out.Slug,
		Name:         out.Name,
		Description:  out.Description,
		Organization: org,
	}, nil
}

// FetchTeamMembers lists every member login of a team.
func (c *Client) FetchTeamMembers(ctx context.Context, org, slug string) ([]string, error) {
	var logins []string
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/orgs/%s/teams/%s/members?%s", c.baseURL, org, slug, url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}.Encode())
		var batch []struct {
			Login string `json:"login"`
		}
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &batch); err != nil {
			return nil, err
		}
		for _, m := range batch {
			logins = append(logins, m.Login)
		}
		if len(batch) < perPage {
			return logins, nil
		}
	}
}
