package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fedbox/internal/db"
	"fedbox/internal/env"
	"fedbox/internal/models"
)

// Resolver dereferences remote actor documents to find delivery endpoints.
// Successful fetches are cached in Redis so bursts of deliveries to the same
// audience don't refetch every actor.
type Resolver struct {
	Client *http.Client
	TTL    time.Duration
}

func NewResolver() *Resolver {
	return &Resolver{
		Client: &http.Client{Timeout: 10 * time.Second},
		TTL:    env.REMOTE_CACHE_TTL,
	}
}

const actorCachePrefix = "remote-actor:"

func (r *Resolver) ResolveActor(ctx context.Context, iri string) (*models.RemoteActor, error) {
	if db.RDB != nil {
		if cached, err := db.CacheGetBytes(actorCachePrefix + iri); err == nil {
			var actor models.RemoteActor
			if err := json.Unmarshal(cached, &actor); err == nil {
				return &actor, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", models.ContentTypeActivityJSON)

	res, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("actor fetch %s: status %d", iri, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var actor models.RemoteActor
	if err := json.Unmarshal(body, &actor); err != nil {
		return nil, err
	}
	if actor.Inbox == "" {
		return nil, errors.New("actor document has no inbox")
	}

	if db.RDB != nil {
		if encoded, err := json.Marshal(actor); err == nil {
			_ = db.CacheSetBytes(actorCachePrefix+iri, encoded, r.TTL)
		}
	}

	return &actor, nil
}
