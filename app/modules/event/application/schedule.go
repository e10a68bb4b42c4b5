package eventservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var scheduleParser = newScheduleParser()

func newScheduleParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}

// parseScheduleTime accepts RFC3339 or English phrases such as
// "tomorrow at 6pm", resolved relative to now. Blank input yields nil.
func parseScheduleTime(field, raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	r, err := scheduleParser.Parse(strings.ToLower(raw), now)
	if err != nil || r == nil {
		return nil, fmt.Errorf("%w: could not parse %s %q", ErrInvalidSchedule, field, raw)
	}
	t := r.Time.UTC()
	return &t, nil
}
