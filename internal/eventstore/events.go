package eventstore

import (
	"encoding/json"
	"time"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
)

// Event type names.
const (
	TypeBuildStarted   = "build.started"
	TypeBuildCompleted = "build.completed"
	TypeBuildSkipped   = "build.skipped"
	TypeBuildFailed    = "build.failed"
)

// BuildStarted is emitted when a build begins.
type BuildStarted struct {
	BaseEvent
	Sitemap string `json:"sitemap"`
	Trigger string `json:"trigger"`
}

// NewBuildStarted creates a BuildStarted event. trigger names what started the
// build (cli, watch, schedule).
func NewBuildStarted(buildID, sitemap, trigger string) (*BuildStarted, error) {
	payload, err := marshalPayload(buildID, TypeBuildStarted, map[string]any{
		"sitemap": sitemap,
		"trigger": trigger,
	})
	if err != nil {
		return nil, err
	}

	return &BuildStarted{
		BaseEvent: newBase(buildID, TypeBuildStarted, payload),
		Sitemap:   sitemap,
		Trigger:   trigger,
	}, nil
}

// BuildCompletedData is the payload of a completed build.
type BuildCompletedData struct {
	Artifact    string `json:"artifact"`
	Fingerprint string `json:"fingerprint"`
	Pages       int    `json:"pages"`
	Blocks      int    `json:"blocks"`
	Roots       int    `json:"roots"`
	DurationMS  int64  `json:"duration_ms"`
}

// BuildCompleted is emitted after the artifact was written.
type BuildCompleted struct {
	BaseEvent
	Data BuildCompletedData
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, data BuildCompletedData) (*BuildCompleted, error) {
	payload, err := marshalPayload(buildID, TypeBuildCompleted, data)
	if err != nil {
		return nil, err
	}
	return &BuildCompleted{BaseEvent: newBase(buildID, TypeBuildCompleted, payload), Data: data}, nil
}

// BuildSkipped is emitted when the inputs match the previous build.
type BuildSkipped struct {
	BaseEvent
	Reason     string `json:"reason"`
	InputsHash string `json:"inputs_hash"`
}

// NewBuildSkipped creates a BuildSkipped event.
func NewBuildSkipped(buildID, reason, inputsHash string) (*BuildSkipped, error) {
	payload, err := marshalPayload(buildID, TypeBuildSkipped, map[string]any{
		"reason":      reason,
		"inputs_hash": inputsHash,
	})
	if err != nil {
		return nil, err
	}
	return &BuildSkipped{
		BaseEvent:  newBase(buildID, TypeBuildSkipped, payload),
		Reason:     reason,
		InputsHash: inputsHash,
	}, nil
}

// BuildFailed is emitted when a stage aborts the build.
type BuildFailed struct {
	BaseEvent
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID, stage, errorMsg string) (*BuildFailed, error) {
	payload, err := marshalPayload(buildID, TypeBuildFailed, map[string]any{
		"stage": stage,
		"error": errorMsg,
	})
	if err != nil {
		return nil, err
	}
	return &BuildFailed{
		BaseEvent: newBase(buildID, TypeBuildFailed, payload),
		Stage:     stage,
		Error:     errorMsg,
	}, nil
}

func newBase(buildID, eventType string, payload []byte) BaseEvent {
	return BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   payload,
	}
}

func marshalPayload(buildID, eventType string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, serrors.HistoryError("marshal "+eventType, err).WithContext("build_id", buildID)
	}
	return payload, nil
}
