package events

import (
	"context"
	"time"

	"fedbox/internal/models"
)

const (
	ActorLocalUser  = "actor"
	ActorFederation = "federation"
	ActorAdmin      = "admin"
)

const (
	TargetActivity = "activity"
	TargetInbox    = "inbox"
	TargetActor    = "actor"
)

func (e *Emitter) Emit(evt models.Event) {
	evt.TimeStamp = time.Now().UTC()

	e.broadcast(evt)

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		_ = e.InsertOne(ctx, evt)
	}
}
