package localstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
	"github.com/nuemind/student-profile/internal/infrastructure/messaging"
	"github.com/nuemind/student-profile/internal/infrastructure/persistence/memory"
)

var fixedTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *memory.Area, *[]shared.Event) {
	t.Helper()

	bus := messaging.NewInMemoryEventBus(messaging.DefaultInMemoryEventBusConfig())
	t.Cleanup(func() { _ = bus.Close() })

	var events []shared.Event
	require.NoError(t, bus.Subscribe(shared.EventStorageChanged, func(e shared.Event) error {
		events = append(events, e)
		return nil
	}))

	area := memory.NewArea()
	store, err := New(Config{
		Area:       area,
		Publisher:  bus,
		Clock:      func() time.Time { return fixedTime },
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	return store, area, &events
}

func TestStore_SetPublishesChange(t *testing.T) {
	ctx := context.Background()
	store, area, events := newTestStore(t)

	require.NoError(t, store.SetAvatarURL(ctx, "http://localhost/dev-api/a.png"))

	v, ok, err := area.Get(ctx, storage.KeyAvatarURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost/dev-api/a.png", v)

	require.Len(t, *events, 1)
	payload := (*events)[0].Payload()
	assert.Equal(t, "avatarUrl", payload["key"])
	assert.Equal(t, "http://localhost/dev-api/a.png", payload["value"])
	assert.Equal(t, fixedTime.UnixMilli(), payload["timestamp"])
}

func TestStore_NameAlwaysCarriesTimestamp(t *testing.T) {
	ctx := context.Background()
	store, _, events := newTestStore(t)

	require.NoError(t, store.SetName(ctx, "Li Hua"))

	name, ok, err := store.Name(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Li Hua", name)

	require.Len(t, *events, 1)
	assert.Contains(t, (*events)[0].Payload(), "timestamp")
}

func TestStore_GetMissing(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, ok, err := store.AvatarURL(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_EmptyValueIsStored(t *testing.T) {
	ctx := context.Background()
	store, _, events := newTestStore(t)

	require.NoError(t, store.SetName(ctx, ""))

	v, ok, err := store.Name(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.Len(t, *events, 1)
}

func TestStore_Metrics(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	require.NoError(t, store.SetName(ctx, "a"))
	require.NoError(t, store.SetName(ctx, "b"))
	require.NoError(t, store.SetAvatarURL(ctx, "c"))

	assert.Equal(t, 2.0, testutil.ToFloat64(store.WritesCollector().WithLabelValues(storage.KeyName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(store.WritesCollector().WithLabelValues(storage.KeyAvatarURL)))
}

type failingArea struct{}

func (failingArea) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (failingArea) Set(context.Context, string, string) error          { return errors.New("disk full") }
func (failingArea) Delete(context.Context, string) error               { return nil }

func TestStore_WriteFailureSkipsEvent(t *testing.T) {
	var published int
	pub := publisherFunc(func(shared.Event) error {
		published++
		return nil
	})

	store, err := New(Config{Area: failingArea{}, Publisher: pub})
	require.NoError(t, err)

	assert.Error(t, store.SetName(context.Background(), "x"))
	assert.Zero(t, published)
}

func TestStore_PublishFailureIsNotAnError(t *testing.T) {
	pub := publisherFunc(func(shared.Event) error { return errors.New("bus down") })

	store, err := New(Config{Area: memory.NewArea(), Publisher: pub})
	require.NoError(t, err)

	assert.NoError(t, store.SetName(context.Background(), "x"))
}

func TestNew_RequiresArea(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(Config{Area: memory.NewArea(), Registerer: reg})
	require.NoError(t, err)

	_, err = New(Config{Area: memory.NewArea(), Registerer: reg})
	assert.Error(t, err)
}

type publisherFunc func(shared.Event) error

func (f publisherFunc) Publish(e shared.Event) error { return f(e) }
