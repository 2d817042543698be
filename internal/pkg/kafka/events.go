package kafka

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

const (
	eventSource           = "/filterbench/workspace"
	contentTypeStructured = "application/cloudevents+json; charset=UTF-8"
)

func NewEvent(eventType, subject string, data any) (cloudevents.Event, error) {
	event := cloudevents.NewEvent()
	event.SetID(uuid.New().String())
	event.SetSource(eventSource)
	event.SetType(eventType)
	event.SetSubject(subject)
	event.SetTime(time.Now().UTC())
	if err := event.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return event, err
	}
	return event, event.Validate()
}
