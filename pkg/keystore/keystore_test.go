package keystore

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"pirsvc/pkg/models"
	"pirsvc/pkg/store"
)

func TestStoreAndFetchRoundTrip(t *testing.T) {
	ks := New(store.NewMemory())
	ctx := context.Background()

	key := models.EvaluationKey{
		Metadata:      models.EvaluationKeyMetadata{Timestamp: 42, Identifier: []byte{1, 2, 3}},
		EvaluationKey: []byte("material"),
	}
	if err := ks.Store(ctx, "alice", key); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, found, err := ks.Fetch(ctx, "alice", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !found {
		t.Fatalf("stored key not found")
	}
	if got.Metadata.Timestamp != 42 || !bytes.Equal(got.EvaluationKey, []byte("material")) {
		t.Fatalf("fetched key differs: %+v", got)
	}
}

func TestFetchMissingIsNotAnError(t *testing.T) {
	ks := New(store.NewMemory())
	_, found, err := ks.Fetch(context.Background(), "nobody", []byte{9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("found a key that was never stored")
	}
}

func TestOverwriteSameSlot(t *testing.T) {
	ks := New(store.NewMemory())
	ctx := context.Background()
	id := []byte{7}

	for i, material := range []string{"old", "new"} {
		key := models.EvaluationKey{
			Metadata:      models.EvaluationKeyMetadata{Timestamp: uint64(i), Identifier: id},
			EvaluationKey: []byte(material),
		}
		if err := ks.Store(ctx, "alice", key); err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
	}
	got, found, err := ks.Fetch(ctx, "alice", id)
	if err != nil || !found {
		t.Fatalf("fetch: found=%v err=%v", found, err)
	}
	if string(got.EvaluationKey) != "new" {
		t.Fatalf("got %q, want last write to win", got.EvaluationKey)
	}
}

func TestDistinctSlotsCoexist(t *testing.T) {
	ks := New(store.NewMemory())
	ctx := context.Background()

	slots := []struct {
		user string
		id   []byte
	}{
		{"alice", []byte{1}},
		{"alice", []byte{2}},
		{"bob", []byte{1}},
	}
	for i, s := range slots {
		key := models.EvaluationKey{
			Metadata:      models.EvaluationKeyMetadata{Identifier: s.id},
			EvaluationKey: []byte{byte(i)},
		}
		if err := ks.Store(ctx, s.user, key); err != nil {
			t.Fatalf("store %d: %v", i, err)
		}
	}
	for i, s := range slots {
		got, found, err := ks.Fetch(ctx, s.user, s.id)
		if err != nil || !found {
			t.Fatalf("fetch %d: found=%v err=%v", i, found, err)
		}
		if !bytes.Equal(got.EvaluationKey, []byte{byte(i)}) {
			t.Fatalf("slot %d returned someone else's key", i)
		}
	}
}

func TestPersistKeyNeverCollides(t *testing.T) {
	// concatenation without a length prefix would make these collide
	pairs := [][2]struct {
		user string
		id   []byte
	}{
		{{"ab", []byte("c")}, {"a", []byte("bc")}},
		{{"", []byte("abc")}, {"abc", nil}},
		{{"a", []byte("")}, {"", []byte("a")}},
	}
	for _, p := range pairs {
		k0 := PersistKey(p[0].user, p[0].id)
		k1 := PersistKey(p[1].user, p[1].id)
		if bytes.Equal(k0, k1) {
			t.Fatalf("PersistKey(%q,%q) collides with PersistKey(%q,%q)",
				p[0].user, p[0].id, p[1].user, p[1].id)
		}
	}
}

func TestPersistKeyCarriesNamespacePrefix(t *testing.T) {
	k := PersistKey("alice", []byte{1})
	if !bytes.HasPrefix(k, []byte(KeyPrefix)) {
		t.Fatalf("persist key %q lacks the %q prefix", k, KeyPrefix)
	}
}

func TestFetchUndecodableRecord(t *testing.T) {
	driver := store.NewMemory()
	ks := New(driver)
	id := []byte{5}
	if err := driver.Set(PersistKey("alice", id), []byte("not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, _, err := ks.Fetch(context.Background(), "alice", id)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want a DecodeError", err)
	}
}
