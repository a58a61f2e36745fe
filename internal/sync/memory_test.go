package sync_test

import (
	"context"
	"testing"

	"student-directory/internal/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNotifierFanOut(t *testing.T) {
	notifier := sync.NewMemoryNotifier()
	defer notifier.Close()

	var first, second []sync.Event
	unsub1, err := notifier.Subscribe(func(e sync.Event) { first = append(first, e) })
	require.NoError(t, err)
	defer unsub1()
	unsub2, err := notifier.Subscribe(func(e sync.Event) { second = append(second, e) })
	require.NoError(t, err)
	defer unsub2()

	event := sync.NewEvent(sync.StudentAdded)
	require.NoError(t, notifier.Publish(context.Background(), event))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, sync.StudentAdded, first[0].Kind)
	assert.NotEmpty(t, first[0].At)
}

func TestMemoryNotifierUnsubscribe(t *testing.T) {
	notifier := sync.NewMemoryNotifier()
	defer notifier.Close()

	var events []sync.Event
	unsubscribe, err := notifier.Subscribe(func(e sync.Event) { events = append(events, e) })
	require.NoError(t, err)

	unsubscribe()
	require.NoError(t, notifier.Publish(context.Background(), sync.NewEvent(sync.StudentDeleted)))

	assert.Empty(t, events)
}

func TestEventKinds(t *testing.T) {
	assert.Equal(t, sync.Kind("studentAdded"), sync.StudentAdded)
	assert.Equal(t, sync.Kind("studentDeleted"), sync.StudentDeleted)
}
