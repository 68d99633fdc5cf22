package taskqueue

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisc "github.com/lexpress/core/internal/pkg/redis"
)

// unreachableClient returns a client whose every command fails at dial time,
// standing in for a redis outage.
func unreachableClient() *redisc.Client {
	return redisc.NewFromClient(goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestUpdateStatusPropagatesStoreErrors(t *testing.T) {
	svc := NewService(unreachableClient())

	err := svc.UpdateStatus(context.Background(), "task-1", TaskFailed, nil, "boom")
	require.Error(t, err)
	assert.NotEqual(t, "task not found", err.Error())
	assert.Contains(t, err.Error(), "task-1")
}
