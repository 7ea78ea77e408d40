package federation

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"fedbox/internal/env"
	"fedbox/internal/events"
	"fedbox/internal/models"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

var logger = zerolog.New(os.Stderr).
	With().
	Timestamp().
	Str("component", "federation").
	Logger()

// Dispatcher performs concurrent signed delivery to remote inboxes. It is
// fire-and-forget: the submission that triggered a dispatch never observes
// delivery outcomes, only the event journal and logs do.
type Dispatcher struct {
	Resolver *Resolver
	Client   *http.Client
	Timeout  time.Duration
	Em       *events.Emitter
}

func NewDispatcher(resolver *Resolver, em *events.Emitter) *Dispatcher {
	return &Dispatcher{
		Resolver: resolver,
		Client:   &http.Client{Timeout: 15 * time.Second},
		Timeout:  env.DELIVERY_TIMEOUT,
		Em:       em,
	}
}

// Dispatch expands the activity's addressees, resolves each recipient's
// inbox, and posts one signed copy per distinct endpoint. Run it in its own
// goroutine; it carries its own timeout rather than the client's.
func (d *Dispatcher) Dispatch(activity bson.M, actor bson.M) {
	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()

	actorID := models.ID(actor)
	activityID := models.ID(activity)

	key, err := models.ParseRSAPrivateKey(models.PrivateKeyPEM(actor))
	if err != nil {
		logger.Error().Err(err).Str("actor", actorID).
			Msg("no usable signing key, dropping dispatch")
		return
	}

	body, err := json.Marshal(activity)
	if err != nil {
		logger.Error().Err(err).Str("activity", activityID).
			Msg("activity not serializable, dropping dispatch")
		return
	}

	recipients := models.Addressees(activity)
	if len(recipients) == 0 {
		return
	}

	// resolve every recipient independently; one failure never blocks the rest
	var mu sync.Mutex
	seen := map[string]bool{}
	var inboxes []string

	var wg sync.WaitGroup
	for _, iri := range recipients {
		wg.Add(1)
		go func(iri string) {
			defer wg.Done()

			remote, err := d.Resolver.ResolveActor(ctx, iri)
			if err != nil {
				logger.Warn().Err(err).Str("recipient", iri).
					Msg("recipient resolution failed")
				if d.Em != nil {
					d.Em.DeliveryFailure(actorID, iri, activityID, err.Error())
				}
				return
			}

			inbox := remote.Inbox
			if remote.Endpoints.SharedInbox != "" {
				inbox = remote.Endpoints.SharedInbox
			}

			mu.Lock()
			if !seen[inbox] {
				seen[inbox] = true
				inboxes = append(inboxes, inbox)
			}
			mu.Unlock()
		}(iri)
	}
	wg.Wait()

	// one signed request per distinct endpoint, no ordering between them
	keyID := models.KeyID(actorID)
	for _, inbox := range inboxes {
		wg.Add(1)
		go func(inbox string) {
			defer wg.Done()
			d.deliver(ctx, inbox, body, keyID, key, actorID, activityID)
		}(inbox)
	}
	wg.Wait()
}

func (d *Dispatcher) deliver(
	ctx context.Context,
	inbox string,
	body []byte,
	keyID string,
	key *rsa.PrivateKey,
	actorID string,
	activityID string,
) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inbox, bytes.NewReader(body))
	if err != nil {
		d.recordFailure(actorID, inbox, activityID, err.Error())
		return
	}
	req.Header.Set("Content-Type", models.ContentTypeActivityJSON)

	if err := SignRequest(req, body, keyID, key); err != nil {
		d.recordFailure(actorID, inbox, activityID, err.Error())
		return
	}

	res, err := d.Client.Do(req)
	if err != nil {
		d.recordFailure(actorID, inbox, activityID, err.Error())
		return
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		d.recordFailure(actorID, inbox, activityID,
			fmt.Sprintf("status %d", res.StatusCode))
		return
	}

	logger.Debug().Str("inbox", inbox).Str("activity", activityID).
		Msg("delivered")
	if d.Em != nil {
		d.Em.DeliverySuccess(actorID, inbox, activityID, res.StatusCode)
	}
}

func (d *Dispatcher) recordFailure(actorID, inbox, activityID, reason string) {
	logger.Warn().
		Str("inbox", inbox).
		Str("activity", activityID).
		Str("reason", reason).
		Msg("delivery failed")
	if d.Em != nil {
		d.Em.DeliveryFailure(actorID, inbox, activityID, reason)
	}
}
