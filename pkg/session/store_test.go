package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	sess := identitySession(t)
	sess.Layout.Nodes[0].Payload = map[string]any{"name": "Alpha"}

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "missing session")

	require.NoError(t, store.Set(ctx, sess))
	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Viewport, got.Viewport)
	assert.Equal(t, sess.Canvas, got.Canvas)
	assert.Equal(t, sess.Limits, got.Limits)
	assert.Len(t, got.Layout.Nodes, 3)
	assert.Equal(t, "Alpha", got.Layout.Nodes[0].Payload["name"])
	assert.Equal(t, sess.Layout.Edges, got.Layout.Edges)

	// Overwrite.
	_, err = got.Apply(Command{Type: CmdZoomIn})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, got))
	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.InDelta(t, 1.2, again.Viewport.Scale, 1e-9)

	require.NoError(t, store.Delete(ctx, sess.ID))
	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "deleted session")
	assert.NoError(t, store.Delete(ctx, sess.ID), "double delete")

	// Expired sessions read as missing and are removed by Cleanup.
	old := identitySession(t)
	old.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Set(ctx, old))
	got, err = store.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "expired session")
	assert.NoError(t, store.Cleanup(ctx))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testStore(t, store)

	expired := identitySession(t)
	expired.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Set(context.Background(), expired))
	require.NoError(t, store.Cleanup(context.Background()))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore()
	sess := identitySession(t)
	require.NoError(t, store.Set(context.Background(), sess))

	sess.Viewport.Scale = 2
	got, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Viewport.Scale)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Path())
	testStore(t, store)

	// Cleanup removes expired files and ignores other entries.
	expired := identitySession(t)
	expired.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Set(context.Background(), expired))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
	require.NoError(t, store.Cleanup(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	id := identitySession(t).ID
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte("{"), 0600))
	_, err = store.Get(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SKILLTREE_TEST_REDIS")
	if addr == "" {
		t.Skip("SKILLTREE_TEST_REDIS not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	store := NewRedisStoreFromClient(client, "skilltree:test:"+t.Name()+":")
	defer store.Close()
	testStore(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SKILLTREE_TEST_MONGO")
	if uri == "" {
		t.Skip("SKILLTREE_TEST_MONGO not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	coll := client.Database("skilltree_test").Collection("sessions")
	defer coll.Drop(ctx)
	store := NewMongoStoreFromCollection(coll)
	require.NoError(t, store.EnsureIndexes(ctx))
	testStore(t, store)
}

type countingSessionHooks struct {
	observability.NoopSessionHooks
	mu       sync.Mutex
	created  int
	commands int
	deleted  int
}

func (h *countingSessionHooks) OnSessionCreated(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created++
}

func (h *countingSessionHooks) OnSessionCommand(context.Context, string, bool, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands++
}

func (h *countingSessionHooks) OnSessionDeleted(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted++
}

func TestManagerLifecycle(t *testing.T) {
	hooks := &countingSessionHooks{}
	observability.SetSessionHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	mgr := NewManager(NewMemoryStore(), WithTTL(time.Hour))
	defer mgr.Close()

	sess, err := mgr.Create(ctx, testLayout(), CreateOptions{Canvas: geom.Size{Width: 1000, Height: 800}})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	got, changed, err := mgr.Apply(ctx, sess.ID, Command{Type: CmdReset})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, got.Version)

	loaded, err := mgr.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Viewport, loaded.Viewport)

	_, _, err = mgr.Apply(ctx, sess.ID, Command{Type: CmdCenter, Node: "nope"})
	assert.True(t, errors.Is(err, errors.ErrCodeNodeNotFound))

	require.NoError(t, mgr.Delete(ctx, sess.ID))
	_, err = mgr.Get(ctx, sess.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
	err = mgr.Delete(ctx, sess.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))

	assert.Equal(t, 1, hooks.created)
	assert.Equal(t, 2, hooks.commands)
	assert.Equal(t, 1, hooks.deleted)
}

func TestManagerErrors(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore())

	_, err := mgr.Get(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	bad := testLayout()
	bad.Nodes[1].Parent = "ghost"
	_, err = mgr.Create(ctx, bad, CreateOptions{Canvas: geom.Size{Width: 10, Height: 10}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = mgr.Create(ctx, graph.Layout{}, CreateOptions{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestManagerSerializesCommands(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore())
	sess, err := mgr.Create(ctx, testLayout(), CreateOptions{
		Canvas: geom.Size{Width: 1000, Height: 800},
		State:  &viewport.State{Scale: 1},
	})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := mgr.Apply(ctx, sess.ID, Command{Type: CmdPan, To: geom.Point{X: 1}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := mgr.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(n), got.Viewport.TranslateX)
	assert.Equal(t, n, got.Version)
	assert.Zero(t, mgr.lockCount(), "locks released after commands")
}

// lockCount returns the number of sessions with a held or awaited lock.
func (m *Manager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func TestManagerReleasesLocks(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewMemoryStore())

	for i := 0; i < 100; i++ {
		_, _, err := mgr.Apply(ctx, uuid.NewString(), Command{Type: CmdReset})
		assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
	}
	_, _, err := mgr.Apply(ctx, "not-a-uuid", Command{Type: CmdReset})
	assert.Error(t, err)
	assert.Zero(t, mgr.lockCount(), "unknown ids must not leave locks behind")

	sess, err := mgr.Create(ctx, testLayout(), CreateOptions{Canvas: geom.Size{Width: 1000, Height: 800}})
	require.NoError(t, err)
	_, _, err = mgr.Apply(ctx, sess.ID, Command{Type: CmdReset})
	require.NoError(t, err)
	assert.Zero(t, mgr.lockCount())

	// A waiter keeps the entry alive until it is done.
	unlock := mgr.lock(sess.ID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := mgr.Apply(ctx, sess.ID, Command{Type: CmdZoomIn})
		assert.NoError(t, err)
	}()
	require.Eventually(t, func() bool {
		mgr.mu.Lock()
		defer mgr.mu.Unlock()
		return mgr.locks[sess.ID] != nil && mgr.locks[sess.ID].refs == 2
	}, time.Second, time.Millisecond)
	unlock()
	<-done
	assert.Zero(t, mgr.lockCount())
}
