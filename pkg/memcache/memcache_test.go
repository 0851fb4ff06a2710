package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestResetTokensSingleUse(t *testing.T) {
	store := NewResetTokens()
	store.Set("tok", "a@example.com", time.Minute)

	email, ok := store.Peek("tok")
	assert.True(t, ok)
	assert.Equal(t, "a@example.com", email)

	assert.Equal(t, "a@example.com", store.Consume("tok"))
	assert.Equal(t, "", store.Consume("tok"))
}

func TestResetTokensExpire(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	store := NewResetTokens()
	store.now = clock.now

	store.Set("tok", "a@example.com", time.Minute)
	clock.t = clock.t.Add(2 * time.Minute)

	_, ok := store.Peek("tok")
	assert.False(t, ok)
	assert.Equal(t, "", store.Consume("tok"))
}

func TestTTLStore(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	store := NewTTLStore()
	store.now = clock.now

	value := []byte("draft")
	store.Set("a", value, time.Minute)
	store.Set("b", []byte("other"), time.Hour)
	value[0] = 'X'

	got, ok := store.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "draft", string(got))

	clock.t = clock.t.Add(2 * time.Minute)
	_, ok = store.Get("a")
	assert.False(t, ok)

	store.Set("c", []byte("c"), time.Second)
	clock.t = clock.t.Add(time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}
