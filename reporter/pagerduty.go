package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/PagerDuty/go-pagerduty"
)

type PagerDutyReporter struct {
	routingKey string
	source     string
	client     *pagerduty.Client
}

// NewPagerDutyReporter creates reporter which triggers an Events API v2
// alert for every termination. Source identifies this process instance,
// usually the host name.
func NewPagerDutyReporter(routingKey, source string, opts ...pagerduty.ClientOptions) *PagerDutyReporter {
	return &PagerDutyReporter{
		routingKey: routingKey,
		source:     source,
		client:     pagerduty.NewClient("", opts...),
	}
}

func (r *PagerDutyReporter) Report(ctx context.Context, t Termination) error {
	summary := fmt.Sprintf("heartbeat loop on %s stopped after %d iterations", r.source, t.Counter)
	if t.Err != nil {
		summary = fmt.Sprintf("%s: %v", summary, t.Err)
	}

	event := &pagerduty.V2Event{
		RoutingKey: r.routingKey,
		Action:     "trigger",
		DedupKey:   fmt.Sprintf("loopapp/%s", r.source),
		Payload: &pagerduty.V2Payload{
			Summary:   summary,
			Source:    r.source,
			Severity:  "error",
			Timestamp: t.At.UTC().Format(time.RFC3339),
			Details: map[string]interface{}{
				"counter": t.Counter,
			},
		},
	}

	_, err := r.client.ManageEventWithContext(ctx, event)
	if err != nil {
		return fmt.Errorf("unable to trigger PagerDuty event: %w", err)
	}

	return nil
}
