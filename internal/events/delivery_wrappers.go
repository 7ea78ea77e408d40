package events

import "fedbox/internal/models"

func (e *Emitter) OutboxAccepted(actorID string, activityID string) {
	e.Emit(models.Event{
		Action: "outbox.accepted",

		ActorRole: ActorLocalUser,
		ActorID:   actorID,

		TargetType: TargetActivity,
		TargetID:   activityID,

		Props: nil,
	})
}

func (e *Emitter) DeliverySuccess(actorID string, inbox string, activityID string, statusCode int) {
	e.Emit(models.Event{
		Action: "delivery.success",

		ActorRole: ActorFederation,
		ActorID:   actorID,

		TargetType: TargetInbox,
		TargetID:   inbox,

		Props: map[string]any{
			"activity":   activityID,
			"statusCode": statusCode,
		},
	})
}

func (e *Emitter) DeliveryFailure(actorID string, inbox string, activityID string, reason string) {
	e.Emit(models.Event{
		Action: "delivery.failure",

		ActorRole: ActorFederation,
		ActorID:   actorID,

		TargetType: TargetInbox,
		TargetID:   inbox,

		Props: map[string]any{
			"activity": activityID,
			"reason":   reason,
		},
	})
}

func (e *Emitter) ActorProvisioned(adminID string, actorID string) {
	e.Emit(models.Event{
		Action: "actor.provisioned",

		ActorRole: ActorAdmin,
		ActorID:   adminID,

		TargetType: TargetActor,
		TargetID:   actorID,

		Props: nil,
	})
}
