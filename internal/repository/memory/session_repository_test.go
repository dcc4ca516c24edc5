package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tv-assist-be/pkg/store"
)

func TestSaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	sess := store.NewSession("abc", "en", "English", 7, 35)
	repo.Save(sess)

	got, found := repo.Get("abc")
	require.True(t, found)
	assert.Same(t, sess, got)

	repo.Delete("abc")
	_, found = repo.Get("abc")
	assert.False(t, found)
}

func TestListNewestFirst(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	older := store.NewSession("older", "en", "English", 7, 35)
	repo.Save(older)

	newer := store.NewSession("newer", "en", "English", 7, 35)
	newer.AddTurn(store.RoleUser, "hello")
	repo.Save(newer)

	sessions := repo.List()
	require.Len(t, sessions, 2)
	assert.Equal(t, "newer", sessions[0].ID)
	assert.Equal(t, "older", sessions[1].ID)
}

func TestPerSessionLockSerializesTurns(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	sess := store.NewSession("abc", "en", "English", 7, 35)
	repo.Save(sess)

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Lock("abc")
			defer repo.Unlock("abc")
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}
