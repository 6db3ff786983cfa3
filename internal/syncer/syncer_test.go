package syncer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shiplift/shiplift/internal/logging"
)

// memStore is a concurrency-safe in-memory ObjectStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failKey string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.failKey != "" && key == m.failKey {
		return errors.New("injected upload failure")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return nil
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// TestPlanMapsRelativePathsToKeys verifies nested files map to prefixed,
// slash-separated keys.
func TestPlanMapsRelativePathsToKeys(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":     "<html>",
		"assets/app.js":  "js",
		"assets/app.css": "css",
		"img/logo/x.png": "png",
	})

	items, err := Plan(root, "site/")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	keys := make(map[string]int64)
	for _, item := range items {
		keys[item.Key] = item.Size
	}

	want := map[string]int64{
		"site/index.html":     6,
		"site/assets/app.js":  2,
		"site/assets/app.css": 3,
		"site/img/logo/x.png": 3,
	}
	if len(keys) != len(want) {
		t.Fatalf("planned keys %v, want %v", keys, want)
	}
	for key, size := range want {
		if keys[key] != size {
			t.Errorf("key %s size = %d, want %d", key, keys[key], size)
		}
	}
}

// TestPlanEmptyPrefix verifies keys land at the bucket root without a
// leading slash.
func TestPlanEmptyPrefix(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "a"})

	items, err := Plan(root, "")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}
	if len(items) != 1 || items[0].Key != "a.txt" {
		t.Errorf("items = %+v, want single a.txt key", items)
	}
}

// TestPlanRejectsNonDirectory verifies a file root is an error.
func TestPlanRejectsNonDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "a"})

	if _, err := Plan(filepath.Join(root, "a.txt"), ""); err == nil {
		t.Error("Plan() accepted a file as sync root")
	}
	if _, err := Plan(filepath.Join(root, "missing"), ""); err == nil {
		t.Error("Plan() accepted a missing root")
	}
}

// TestUploaderRunUploadsAll verifies every planned item is stored with its
// exact content.
func TestUploaderRunUploadsAll(t *testing.T) {
	root := writeTree(t, map[string]string{
		"one.bin":        "11111",
		"two.bin":        "22",
		"nested/tre.bin": "333",
	})
	items, err := Plan(root, "drop")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	store := newMemStore()
	uploader := &Uploader{Store: store, Log: logging.NewDefaultLogger(), Workers: 3}
	if err := uploader.Run(context.Background(), items); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(store.objects) != 3 {
		t.Fatalf("stored %d objects, want 3", len(store.objects))
	}
	if !bytes.Equal(store.objects["drop/one.bin"], []byte("11111")) {
		t.Errorf("drop/one.bin content mismatch")
	}
	if !bytes.Equal(store.objects["drop/nested/tre.bin"], []byte("333")) {
		t.Errorf("drop/nested/tre.bin content mismatch")
	}
}

// TestUploaderRunPropagatesFailure verifies the first failure is returned.
func TestUploaderRunPropagatesFailure(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok.bin":  "ok",
		"bad.bin": "bad",
	})
	items, err := Plan(root, "")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	store := newMemStore()
	store.failKey = "bad.bin"
	uploader := &Uploader{Store: store, Workers: 2}

	err = uploader.Run(context.Background(), items)
	if err == nil {
		t.Fatal("Run() succeeded despite injected failure")
	}
}

// recordingProgress counts hook invocations.
type recordingProgress struct {
	mu      sync.Mutex
	started []string
	done    map[string]error
}

func (r *recordingProgress) Start(item Item, body io.Reader) io.Reader {
	r.mu.Lock()
	r.started = append(r.started, item.Key)
	r.mu.Unlock()
	return body
}

func (r *recordingProgress) Done(item Item, err error) {
	r.mu.Lock()
	if r.done == nil {
		r.done = make(map[string]error)
	}
	r.done[item.Key] = err
	r.mu.Unlock()
}

// TestUploaderProgressHook verifies Start and Done fire once per item and
// Done carries the upload error.
func TestUploaderProgressHook(t *testing.T) {
	// The failing file sorts last so the single worker reaches both items
	// before the cancel.
	root := writeTree(t, map[string]string{
		"aa-good.bin": "g",
		"zz-bad.bin":  "b",
	})
	items, err := Plan(root, "")
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}

	store := newMemStore()
	store.failKey = "zz-bad.bin"
	rec := &recordingProgress{}
	uploader := &Uploader{Store: store, Workers: 1, Progress: rec}

	_ = uploader.Run(context.Background(), items)

	if len(rec.started) != 2 {
		t.Errorf("Start called %d times, want 2", len(rec.started))
	}
	if len(rec.done) != 2 {
		t.Fatalf("Done called %d times, want 2", len(rec.done))
	}
	if rec.done["aa-good.bin"] != nil {
		t.Errorf("Done(aa-good.bin) = %v, want nil", rec.done["aa-good.bin"])
	}
	if rec.done["zz-bad.bin"] == nil {
		t.Error("Done(zz-bad.bin) = nil, want the injected failure")
	}
}

// TestUploaderRunEmptyPlan verifies a no-op plan succeeds.
func TestUploaderRunEmptyPlan(t *testing.T) {
	uploader := &Uploader{Store: newMemStore()}
	if err := uploader.Run(context.Background(), nil); err != nil {
		t.Errorf("Run(nil) = %v, want nil", err)
	}
}
