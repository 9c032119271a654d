package countcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "echo:unread:enwiki:42", Key("enwiki", 42))
}

func TestCache_WithoutClient(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Cache{"nil": nil, "no client": New(nil, "enwiki", 0)} {
		t.Run(name, func(t *testing.T) {
			c.Set(ctx, 1, 5)
			_, ok := c.Get(ctx, 1)
			assert.False(t, ok)
			c.InvalidateCount(ctx, 1)
		})
	}
}
