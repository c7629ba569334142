package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
)

type fakePublisher struct {
	channel string
	message []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	return goredis.NewIntResult(1, f.err)
}

func (f *fakePublisher) Close() error { return nil }

func TestRedisNotifier_PublishProgressChanged(t *testing.T) {
	pub := &fakePublisher{}
	n := service.NewRedisNotifier(pub, "")

	event := model.ProgressChangedEvent{
		UserID:         uuid.New(),
		CourseID:       uuid.New(),
		LessonID:       uuid.New(),
		Completed:      true,
		CourseProgress: 50,
		OccurredAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, n.PublishProgressChanged(testContext(), event))
	assert.Equal(t, config.DefaultRedisChannel, pub.channel)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.message, &got))
	assert.Equal(t, "progress.changed", got["type"])
	assert.Equal(t, event.CourseID.String(), got["course_id"])
	assert.Equal(t, float64(50), got["course_progress"])
	assert.Equal(t, true, got["completed"])
}

func TestRedisNotifier_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	n := service.NewRedisNotifier(pub, "custom")

	err := n.PublishProgressChanged(testContext(), model.ProgressChangedEvent{})
	require.Error(t, err)
	assert.Equal(t, "custom", pub.channel)
}

func TestNewNotifier_NoAddrIsNoop(t *testing.T) {
	n, err := service.NewNotifier(context.Background(), &config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, service.NoopNotifier{}, n)
	assert.NoError(t, n.PublishProgressChanged(context.Background(), model.ProgressChangedEvent{}))
	assert.NoError(t, n.Close())
}
