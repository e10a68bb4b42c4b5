package eventqueue

import eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"

// EventAutoEndJob ends a live event once its duration has elapsed.
type EventAutoEndJob struct {
	EventID string `json:"event_id"`
}

// Kind returns the job type identifier for River
func (EventAutoEndJob) Kind() string { return "event_auto_end" }

// JobInfo is a River auto-end job as reported to admins.
type JobInfo = eventservice.AutoEndJob
