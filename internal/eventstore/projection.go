// Package eventstore records sitemap builds as events in SQLite and projects
// them into build summaries.
package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// Summary status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// BuildSummary is a read model of one build.
type BuildSummary struct {
	BuildID      string        `json:"build_id"`
	Status       string        `json:"status"`
	Trigger      string        `json:"trigger,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Pages        int           `json:"pages"`
	Blocks       int           `json:"blocks"`
	Fingerprint  string        `json:"fingerprint,omitempty"`
	ErrorStage   string        `json:"error_stage,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Summarize folds events into one summary per build, newest first. Events may
// arrive in any order.
func Summarize(events []Event) []*BuildSummary {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	builds := make(map[string]*BuildSummary)
	var order []*BuildSummary
	for _, event := range sorted {
		buildID := event.BuildID()
		if buildID == "" {
			continue
		}
		summary, ok := builds[buildID]
		if !ok {
			summary = &BuildSummary{BuildID: buildID, Status: StatusRunning, StartedAt: event.Timestamp()}
			builds[buildID] = summary
			order = append(order, summary)
		}
		apply(summary, event)
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].StartedAt.After(order[j].StartedAt) })
	return order
}

func apply(summary *BuildSummary, event Event) {
	finish := func(status string) {
		at := event.Timestamp()
		summary.CompletedAt = &at
		summary.Duration = at.Sub(summary.StartedAt)
		summary.Status = status
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		var payload struct {
			Trigger string `json:"trigger"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Trigger = payload.Trigger
		}

	case TypeBuildCompleted:
		finish(StatusCompleted)
		var payload BuildCompletedData
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Pages = payload.Pages
			summary.Blocks = payload.Blocks
			summary.Fingerprint = payload.Fingerprint
		}

	case TypeBuildSkipped:
		finish(StatusSkipped)

	case TypeBuildFailed:
		finish(StatusFailed)
		var payload struct {
			Stage string `json:"stage"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorStage = payload.Stage
			summary.ErrorMessage = payload.Error
		}
	}
}

// eventsPerBuild is the most events a single build records.
const eventsPerBuild = 2

// History returns summaries of the newest limit builds.
func History(ctx context.Context, store Store, limit int) ([]*BuildSummary, error) {
	events, err := store.Recent(ctx, limit*eventsPerBuild)
	if err != nil {
		return nil, err
	}
	summaries := Summarize(events)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
