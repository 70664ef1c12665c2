package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ahmedooo1/nfeat/internal/cache"
	"github.com/ahmedooo1/nfeat/internal/config"
	obsctx "github.com/ahmedooo1/nfeat/internal/observability/context"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
)

var errNoAuthenticatedUser = errors.New("no_authenticated_user")

// LocalFetcher resolves the current user's profile through the in-process
// profile service. The user identity travels on the context.
type LocalFetcher struct {
	svc profiledomain.Service
}

func NewLocalFetcher(svc profiledomain.Service) *LocalFetcher {
	return &LocalFetcher{svc: svc}
}

func (f *LocalFetcher) FetchCurrentUser(ctx context.Context) (receiptdomain.Profile, error) {
	rawID := obsctx.UserIDFromContext(ctx)
	if rawID == "" {
		return receiptdomain.Profile{}, errNoAuthenticatedUser
	}
	userID, err := profiledomain.ParseID(rawID)
	if err != nil {
		return receiptdomain.Profile{}, err
	}
	resp, err := f.svc.Get(ctx, userID)
	if err != nil {
		return receiptdomain.Profile{}, err
	}
	return toProfile(resp), nil
}

// HTTPFetcher resolves profiles over the REST surface, for deployments
// where profile data lives in a separate service.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(cfg config.Config) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(cfg.ProfileBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.ProfileFetchTimeout},
	}
}

func (f *HTTPFetcher) FetchCurrentUser(ctx context.Context) (receiptdomain.Profile, error) {
	rawID := obsctx.UserIDFromContext(ctx)
	if rawID == "" {
		return receiptdomain.Profile{}, errNoAuthenticatedUser
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/user/profile", nil)
	if err != nil {
		return receiptdomain.Profile{}, err
	}
	req.Header.Set("X-User-Id", rawID)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return receiptdomain.Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return receiptdomain.Profile{}, fmt.Errorf("profile_fetch_status_%d", resp.StatusCode)
	}

	var payload struct {
		Data profiledomain.Response `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return receiptdomain.Profile{}, err
	}
	return toProfile(payload.Data), nil
}

// CachedFetcher memoizes fetches per user for a short TTL so a burst of
// receipt downloads does not refetch the same profile.
type CachedFetcher struct {
	next receiptdomain.ProfileFetcher
	ttl  time.Duration
	data cache.Cache[string, receiptdomain.Profile]
}

func NewCachedFetcher(cfg config.Config, next receiptdomain.ProfileFetcher) *CachedFetcher {
	return &CachedFetcher{
		next: next,
		ttl:  cfg.ProfileCacheTTL,
		data: cache.NewTTLCache[string, receiptdomain.Profile](),
	}
}

func (f *CachedFetcher) FetchCurrentUser(ctx context.Context) (receiptdomain.Profile, error) {
	key := obsctx.UserIDFromContext(ctx)
	if key != "" {
		if profile, ok := f.data.Get(key); ok {
			return profile, nil
		}
	}
	profile, err := f.next.FetchCurrentUser(ctx)
	if err != nil {
		return receiptdomain.Profile{}, err
	}
	if key != "" {
		f.data.Set(key, profile, f.ttl)
	}
	return profile, nil
}

func toProfile(resp profiledomain.Response) receiptdomain.Profile {
	return receiptdomain.Profile{
		Name:      resp.Name,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Email:     resp.Email,
		Phone:     resp.Phone,
		Address:   resp.Address,
		Picture:   resp.Picture,
	}
}
