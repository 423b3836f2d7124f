package leaselock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	key string
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.key
	return nil
}

// fakeDB keeps lock holders in memory and ignores expiry.
type fakeDB struct {
	mu       sync.Mutex
	holders  map[string]string
	renewErr error
	released int
}

func newFakeDB() *fakeDB {
	return &fakeDB{holders: make(map[string]string)}
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	switch sql {
	case tryAcquireSQL:
		if holder, ok := f.holders[key]; ok && holder != token {
			return row{err: pgx.ErrNoRows}
		}
		f.holders[key] = token
		return row{key: key}
	case renewSQL:
		if f.renewErr != nil {
			return row{err: f.renewErr}
		}
		if f.holders[key] != token {
			return row{err: pgx.ErrNoRows}
		}
		return row{key: key}
	}
	return row{err: errors.New("unexpected query")}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	if f.holders[key] == token {
		delete(f.holders, key)
		f.released++
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func TestWithLease(t *testing.T) {
	db := newFakeDB()
	client := New(db)

	ran := false
	err := client.WithLease(context.Background(), "kg-sink", Options{}, func(ctx context.Context) error {
		ran = true
		assert.Len(t, db.holders, 1)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Empty(t, db.holders)
	assert.Equal(t, 1, db.released)
}

func TestAcquireBusy(t *testing.T) {
	db := newFakeDB()
	db.holders["kg-sink"] = "other"

	_, err := New(db).Acquire(context.Background(), "kg-sink", Options{})
	assert.ErrorIs(t, err, ErrBusy)
}

func TestAcquireWaitsUntilContextDone(t *testing.T) {
	db := newFakeDB()
	db.holders["kg-sink"] = "other"

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(db).Acquire(ctx, "kg-sink", Options{Wait: true, WaitInterval: 10 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAcquireEmptyKey(t *testing.T) {
	_, err := New(newFakeDB()).Acquire(context.Background(), "", Options{})
	require.Error(t, err)
}

func TestLeaseLostCancelsContext(t *testing.T) {
	db := newFakeDB()
	client := New(db)

	lease, err := client.Acquire(context.Background(), "kg-sink", Options{TTL: 2 * time.Second, RenewEvery: 10 * time.Millisecond})
	require.NoError(t, err)

	db.mu.Lock()
	db.holders["kg-sink"] = "someone else"
	db.mu.Unlock()

	select {
	case <-lease.Context.Done():
	case <-time.After(time.Second):
		t.Fatal("lease context was not canceled")
	}
	assert.ErrorIs(t, context.Cause(lease.Context), ErrLost)
	require.NoError(t, lease.Release(context.Background()))
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{TTL: time.Minute, RenewEvery: 2 * time.Minute, WaitJitter: -1}.withDefaults()
	assert.Equal(t, 30*time.Second, o.RenewEvery)
	assert.Equal(t, 250*time.Millisecond, o.WaitInterval)
	assert.Zero(t, o.WaitJitter)

	o = Options{}.withDefaults()
	assert.Equal(t, 5*time.Minute, o.TTL)
}
