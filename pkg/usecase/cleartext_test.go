package usecase

import (
	"bytes"
	"context"
	"testing"

	"pirsvc/pkg/models"
)

func TestCleartextShardLayout(t *testing.T) {
	rows := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc"), []byte("d"), []byte("e")}
	uc := NewCleartext("demo", rows, 2)
	cfg := uc.Config()

	if len(cfg.Shards) != 3 {
		t.Fatalf("got %d shards, want 3", len(cfg.Shards))
	}
	var total uint64
	for _, s := range cfg.Shards {
		total += s.NumEntries
		if s.EntrySize != 3 {
			t.Fatalf("shard %s entry size %d, want max row size 3", s.ShardID, s.EntrySize)
		}
	}
	if total != uint64(len(rows)) {
		t.Fatalf("shards cover %d entries, want %d", total, len(rows))
	}
	if len(cfg.ConfigID) == 0 {
		t.Fatalf("config hash is empty")
	}
}

func TestCleartextEmptyTableStillHasConfig(t *testing.T) {
	uc := NewCleartext("empty", nil, 4)
	if len(uc.Config().Shards) != 1 {
		t.Fatalf("got %d shards, want 1", len(uc.Config().Shards))
	}
	if uc.Config().Shards[0].NumEntries != 0 {
		t.Fatalf("empty table shard reports %d entries", uc.Config().Shards[0].NumEntries)
	}
}

func TestConfigHashChangesWithLayout(t *testing.T) {
	rows := [][]byte{[]byte("a"), []byte("b")}
	a := NewCleartext("demo", rows, 1)
	b := NewCleartext("demo", rows, 2)
	c := NewCleartext("other", rows, 1)

	if bytes.Equal(a.Config().ConfigID, b.Config().ConfigID) {
		t.Fatalf("different shard layouts share a config hash")
	}
	if bytes.Equal(a.Config().ConfigID, c.Config().ConfigID) {
		t.Fatalf("different names share a config hash")
	}
	if !bytes.Equal(a.Config().ConfigID, NewCleartext("demo", rows, 1).Config().ConfigID) {
		t.Fatalf("identical construction yields different hashes")
	}
}

func TestCleartextProcess(t *testing.T) {
	rows := [][]byte{[]byte("zero"), []byte("one")}
	uc := NewCleartext("demo", rows, 2)
	key := models.EvaluationKey{
		Metadata: models.EvaluationKeyMetadata{Identifier: uc.Config().ConfigID},
	}

	reply, err := uc.Process(context.Background(), []byte(`{"index":1}`), key)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if string(reply) != "one" {
		t.Fatalf("got %q, want %q", reply, "one")
	}

	if _, err := uc.Process(context.Background(), []byte(`{"index":2}`), key); err == nil {
		t.Fatalf("out-of-range index did not fail")
	}
	if _, err := uc.Process(context.Background(), []byte(`garbage`), key); err == nil {
		t.Fatalf("malformed query did not fail")
	}

	stale := models.EvaluationKey{
		Metadata: models.EvaluationKeyMetadata{Identifier: []byte("old-config")},
	}
	if _, err := uc.Process(context.Background(), []byte(`{"index":0}`), stale); err == nil {
		t.Fatalf("key bound to another config was accepted")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Get("demo"); ok {
		t.Fatalf("empty registry returned a usecase")
	}
	uc := NewCleartext("demo", [][]byte{[]byte("r")}, 1)
	reg.Set("demo", uc)
	got, ok := reg.Get("demo")
	if !ok || got != Usecase(uc) {
		t.Fatalf("registry did not return the registered usecase")
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "demo" {
		t.Fatalf("names = %v, want [demo]", names)
	}
}
