package core

import (
	"context"
	"errors"
	"sync"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/internal/github"
	"github.com/Recnoss/A.C.E.S/schema"
)

// userFetchResult carries the outcome for one configured user across all
// configured organizations.
type userFetchResult struct {
	record   *schema.UserRecord
	failures []schema.FetchFailure
}

// FetchAllUsers fetches raw contributions for every configured user using a
// worker pool of cfg.Workers goroutines. Results land in a slice indexed by
// the user's configured position, so the output order matches the sorted
// login order regardless of worker scheduling. A user appears in the output
// when at least one organization succeeded; every failed user/organization
// pair is returned as a failure either way.
func FetchAllUsers(ctx context.Context, cfg *contract.Config, client contract.ContributionsClient, mgr contract.CacheManager) ([]*schema.UserRecord, []schema.FetchFailure) {
	results := make([]userFetchResult, len(cfg.Users))
	indexCh := make(chan int, len(cfg.Users))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for i := range indexCh {
				// Each goroutine writes to a unique index, which is safe.
				results[i] = fetchOneUser(ctx, cfg, client, mgr, cfg.Users[i])
			}
		})
	}

	for i := range cfg.Users {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	users := make([]*schema.UserRecord, 0, len(cfg.Users))
	var failures []schema.FetchFailure
	for _, r := range results {
		if r.record != nil {
			users = append(users, r.record)
		}
		failures = append(failures, r.failures...)
	}
	return users, failures
}

// fetchOneUser collects one user's activity across every configured
// organization, merging successful responses and recording failed ones.
// One failing organization never discards counts from the others.
func fetchOneUser(ctx context.Context, cfg *contract.Config, client contract.ContributionsClient, mgr contract.CacheManager, entry contract.UserEntry) userFetchResult {
	var merged *schema.RawContribution
	var orgs []string
	var failures []schema.FetchFailure

	for _, org := range cfg.Organizations {
		raw, err := cachedUserContributions(ctx, client, mgr, entry.Login, org, cfg.Window)
		if err != nil {
			failures = append(failures, schema.FetchFailure{
				Username: entry.Login,
				Org:      org,
				Status:   statusFromErr(err),
				Reason:   err.Error(),
			})
			continue
		}
		orgs = append(orgs, org)
		if merged == nil {
			merged = raw
		} else {
			sum := merged.Merge(*raw)
			merged = &sum
		}
	}

	if merged == nil {
		return userFetchResult{failures: failures}
	}
	return userFetchResult{
		record: &schema.UserRecord{
			Username:      entry.Login,
			DisplayName:   entry.DisplayName,
			Organizations: orgs,
			Raw:           *merged,
			Source:        merged.Source,
		},
		failures: failures,
	}
}

// statusFromErr extracts the last HTTP status from an upstream error chain,
// returning 0 for transport-level failures.
func statusFromErr(err error) int {
	var se *github.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
