package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_BatchesEvents(t *testing.T) {
	batches := make(chan []fsnotify.Event, 4)
	debouncer := NewDebouncer(30*time.Millisecond, func(events []fsnotify.Event) {
		batches <- events
	})
	defer debouncer.Stop()

	for _, name := range []string{"a.go", "b.go", "c.go"} {
		debouncer.Add(fsnotify.Event{Name: name, Op: fsnotify.Write})
	}

	select {
	case batch := <-batches:
		require.Len(t, batch, 3)
		assert.Equal(t, "a.go", batch[0].Name)
		assert.Equal(t, "c.go", batch[2].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}

	select {
	case batch := <-batches:
		t.Fatalf("unexpected second batch: %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_QueuesWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var calls [][]fsnotify.Event

	debouncer := NewDebouncer(10*time.Millisecond, func(events []fsnotify.Event) {
		mu.Lock()
		calls = append(calls, events)
		first := len(calls) == 1
		mu.Unlock()
		if first {
			<-release
		}
	})
	defer debouncer.Stop()

	debouncer.Add(fsnotify.Event{Name: "first.go", Op: fsnotify.Write})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, 2*time.Second, 5*time.Millisecond)

	debouncer.Add(fsnotify.Event{Name: "second.go", Op: fsnotify.Write})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Len(t, calls, 1)
	mu.Unlock()

	close(release)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 2 && calls[1][0].Name == "second.go"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	called := make(chan struct{}, 1)
	debouncer := NewDebouncer(20*time.Millisecond, func([]fsnotify.Event) {
		called <- struct{}{}
	})

	debouncer.Add(fsnotify.Event{Name: "a.go", Op: fsnotify.Write})
	debouncer.Stop()
	debouncer.Add(fsnotify.Event{Name: "b.go", Op: fsnotify.Write})

	select {
	case <-called:
		t.Fatal("callback ran after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestIsSourceEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/p/settings.go", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/p/settings.go", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/p/settings.go", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/p/settings.go", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/p/settings_lazygen.go", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/settings_test.go", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isSourceEvent(tt.event), tt.event.String())
	}
}

func TestWatcher_RegeneratesOnChange(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":               consumerGoMod,
		"settings/settings.go": "package settings\n",
	})

	g, _ := newTestGenerator(t, Config{Directories: []string{root + "/..."}})
	watcher, err := NewWatcher(g)
	require.NoError(t, err)
	watcher.SetDebounce(20 * time.Millisecond)

	runs := make(chan GenerationSummary, 8)
	watcher.OnRun = func(summary GenerationSummary, err error) {
		if err == nil {
			runs <- summary
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool { return watcher.watchedCount() >= 2 }, 2*time.Second, 5*time.Millisecond)

	source := filepath.Join(root, "settings", "settings.go")
	require.NoError(t, os.WriteFile(source, []byte(settingsSource), 0o644))

	output := filepath.Join(root, "settings", "settings_lazygen.go")
	select {
	case summary := <-runs:
		assert.Contains(t, summary.GeneratedFiles, output)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not regenerate")
	}
	assert.FileExists(t, output)

	require.NoError(t, os.Remove(source))
	require.Eventually(t, func() bool {
		_, err := os.Stat(output)
		return os.IsNotExist(err)
	}, 5*time.Second, 10*time.Millisecond)
}
