package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

// currentCacheVersion defines the version of the cache payload encoding.
// Bumping it invalidates every existing entry at once.
const currentCacheVersion = 1

// cacheTTL is how long an upstream response stays usable. Contribution
// counts drift slowly, so a day-old answer is good enough for a leaderboard.
const cacheTTL = 24 * time.Hour

// cachedUserContributions wraps the upstream fetch with the cache store.
// A nil or unavailable store degrades to a direct fetch.
func cachedUserContributions(ctx context.Context, client contract.ContributionsClient, mgr contract.CacheManager, username, org string, window schema.Window) (*schema.RawContribution, error) {
	store := contributionStore(mgr)
	if store == nil {
		return client.FetchUserContributions(ctx, username, org, window)
	}

	key := cacheFingerprint("user:"+username, org, window, "contributions")

	var cached schema.RawContribution
	if checkCacheHit(store, key, &cached) {
		return &cached, nil
	}

	raw, err := client.FetchUserContributions(ctx, username, org, window)
	if err != nil {
		return nil, err
	}
	storeInCache(store, key, raw)
	return raw, nil
}

// cachedTeam wraps team resolution with the cache store. Team metadata is
// keyed on the window too, so a cleared window never reuses stale teams.
func cachedTeam(ctx context.Context, client contract.ContributionsClient, mgr contract.CacheManager, org, slug string, window schema.Window) (*schema.TeamInfo, error) {
	store := contributionStore(mgr)
	if store == nil {
		return client.FetchTeam(ctx, org, slug)
	}

	key := cacheFingerprint("team:"+slug, org, window, "team")

	var cached schema.TeamInfo
	if checkCacheHit(store, key, &cached) {
		return &cached, nil
	}

	team, err := client.FetchTeam(ctx, org, slug)
	if err != nil {
		return nil, err
	}
	storeInCache(store, key, team)
	return team, nil
}

// cachedTeamMembers wraps the member listing with the cache store.
func cachedTeamMembers(ctx context.Context, client contract.ContributionsClient, mgr contract.CacheManager, org, slug string, window schema.Window) ([]string, error) {
	store := contributionStore(mgr)
	if store == nil {
		return client.FetchTeamMembers(ctx, org, slug)
	}

	key := cacheFingerprint("team:"+slug, org, window, "members")

	var cached []string
	if checkCacheHit(store, key, &cached) {
		return cached, nil
	}

	members, err := client.FetchTeamMembers(ctx, org, slug)
	if err != nil {
		return nil, err
	}
	storeInCache(store, key, members)
	return members, nil
}

// contributionStore unwraps the manager, tolerating a nil manager so the
// pipeline works with caching disabled entirely.
func contributionStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetContributionStore()
}

// checkCacheHit attempts to retrieve and validate a cached payload into out.
// Any failure along the way counts as a miss, never as an error.
func checkCacheHit(store contract.CacheStore, key string, out any) bool {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion {
		return false
	}
	if time.Since(time.Unix(ts, 0)) > cacheTTL {
		return false
	}

	return json.Unmarshal(data, out) == nil
}

// storeInCache persists a payload. Write failures are logged and otherwise
// ignored: a broken cache must never break a fetch that already succeeded.
func storeInCache(store contract.CacheStore, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		contract.LogWarn("could not encode cache payload", err)
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("could not write cache entry", err)
	}
}

// cacheFingerprint derives a stable key from the fetch parameters. Window
// bounds are truncated to the caching granularity so repeated runs within
// the same hour share entries.
func cacheFingerprint(entity, org string, window schema.Window, kind string) string {
	w := contract.TruncateWindow(window)
	key := fmt.Sprintf("%s:%s:%d:%d:%s",
		entity,
		org,
		w.Start.Unix(),
		w.End.Unix(),
		kind,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
