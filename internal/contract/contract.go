// Package contract provides interfaces and shared utilities for the aces CLI's internal architecture.
package contract

import (
	"context"

	"github.com/Recnoss/A.C.E.S/schema"
)

// ContributionsClient defines the upstream operations needed by the fetch
// pipeline. This allows the core logic to be tested without network access.
type ContributionsClient interface {
	// FetchUserContributions returns a user's raw activity counts within an
	// organization for the given window. Implementations attempt the
	// structured aggregate query first and fall back to repository
	// enumeration; an error means both paths failed.
	FetchUserContributions(ctx context.Context, username, org string, window schema.Window) (*schema.RawContribution, error)

	// FetchTeam resolves a configured team slug within an organization.
	FetchTeam(ctx context.Context, org, slug string) (*schema.TeamInfo, error)

	// FetchTeamMembers lists the usernames belonging to a team.
	FetchTeamMembers(ctx context.Context, org, slug string) ([]string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetContributionStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	Close() error
	GetStatus() (schema.CacheStatus, error)
}
