package commands

import (
	"encoding/json"
	"time"

	"scribe/contexts/document-lifecycle/lifecycle-service/ports"
)

const (
	EventTypeDocumentRegistered  = "document.registered"
	EventTypeDraftCreated        = "document.version.drafted"
	EventTypeVersionSubmitted    = "document.version.submitted"
	EventTypeVersionApproved     = "document.version.approved"
	EventTypeVersionRejected     = "document.version.rejected"
	EventTypeSubmissionCancelled = "document.version.cancelled"
)

func newLifecycleEnvelope(
	eventID string,
	eventType string,
	documentID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "lifecycle-service",
		OccurredAt:    occurredAt.UTC(),
		SchemaVersion: 1,
		PartitionKey:  documentID,
		Data:          payload,
	}, nil
}
