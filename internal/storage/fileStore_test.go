package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStore_PutOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key, err := store.Put(ctx, "annual report.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(key, "-annual_report.pdf") {
		t.Errorf("unexpected key %q", key)
	}

	r, err := store.Open(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	content, _ := io.ReadAll(r)
	r.Close()
	if string(content) != "pdf bytes" {
		t.Errorf("content = %q", content)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Error("expected Open to fail after Delete")
	}
}

func TestLocalStore_RejectsPathKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"", "../secrets", "a/b.pdf"} {
		if _, err := store.LocalPath(context.Background(), key); err == nil {
			t.Errorf("LocalPath(%q) should fail", key)
		}
	}
}
