package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/retry"
)

func TestGeneratedJSON(t *testing.T) {
	msg := Generated{
		BuildID:     "b1",
		Artifact:    "config/sitemap.yml",
		Fingerprint: "fp",
		Pages:       3,
		Blocks:      1,
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"build_id": "b1",
		"artifact": "config/sitemap.yml",
		"fingerprint": "fp",
		"pages": 3,
		"blocks": 1,
		"generated_at": "2024-01-02T03:04:05Z"
	}`, string(data))
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	p, err := NewNATSPublisher("nats://127.0.0.1:1", "sitemapper.generated")
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryNotify))
	assert.False(t, serrors.IsFatal(err))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	require.NoError(t, p.Publish(t.Context(), Generated{}))
	p.Close()
}

type flakyPublisher struct {
	failures int
	calls    int
	closed   bool
}

func (f *flakyPublisher) Publish(context.Context, Generated) error {
	f.calls++
	if f.calls <= f.failures {
		return serrors.NotifyError("sitemapper.generated", errors.New("no responders"))
	}
	return nil
}

func (f *flakyPublisher) Close() { f.closed = true }

func TestWithRetry(t *testing.T) {
	policy := retry.NewPolicy(retry.ModeFixed, time.Millisecond, time.Millisecond, 2)

	t.Run("recovers", func(t *testing.T) {
		inner := &flakyPublisher{failures: 2}
		p := WithRetry(inner, policy)
		require.NoError(t, p.Publish(context.Background(), Generated{BuildID: "b1"}))
		assert.Equal(t, 3, inner.calls)

		p.Close()
		assert.True(t, inner.closed)
	})

	t.Run("gives up", func(t *testing.T) {
		inner := &flakyPublisher{failures: 5}
		err := WithRetry(inner, policy).Publish(context.Background(), Generated{BuildID: "b1"})
		require.Error(t, err)
		assert.True(t, serrors.IsCategory(err, serrors.CategoryNotify))
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("no retries", func(t *testing.T) {
		inner := &flakyPublisher{}
		assert.Same(t, Publisher(inner), WithRetry(inner, retry.NewPolicy(retry.ModeFixed, 0, 0, 0)))
	})
}
