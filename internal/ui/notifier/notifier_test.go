package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Changed("clusters")

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "clusters", ev.Resource)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("listener did not receive broadcast")
		}
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	ch <- Event{Resource: "servers"}

	done := make(chan bool)
	go func() {
		n.Changed("servers")
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on full channel")
	}

	assert.Equal(t, Event{Resource: "servers"}, <-ch, "same resource stays specific")
}

func TestNotifier_Broadcast_CoalescesDifferentResources(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Changed("clusters")
	n.Changed("tokens")

	ev := <-ch
	assert.Equal(t, ResourceAll, ev.Resource)
	assert.True(t, ev.Affects("servers"))
}

func TestEvent_Affects(t *testing.T) {
	tests := []struct {
		event    string
		resource string
		want     bool
	}{
		{"clusters", "clusters", true},
		{"clusters", "servers", false},
		{ResourceAll, "servers", true},
		{"inventory", "inventory/instances", true},
		{"inventory/images", "inventory/instances", false},
		{"inventory", "inventory-extra", false},
	}

	for _, tt := range tests {
		got := Event{Resource: tt.event}.Affects(tt.resource)
		assert.Equal(t, tt.want, got, "%s affects %s", tt.event, tt.resource)
	}
}

func TestNotifier_Reload_SurvivesCoalescing(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Reload()
	n.Changed("clusters")

	ev := <-ch
	assert.Equal(t, Event{Resource: ResourceAll, Reload: true}, ev)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Changed("channels")
			n.Unsubscribe(ch)
		}()
	}

	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
