package store

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
)

// drivers under test share one behavioral contract.
func driversUnderTest(t *testing.T) map[string]Driver {
	t.Helper()
	p, err := OpenPebble(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return map[string]Driver{
		"memory": NewMemory(),
		"pebble": p,
	}
}

func TestDriverGetSet(t *testing.T) {
	for name, d := range driversUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if _, found, err := d.Get([]byte("missing")); err != nil || found {
				t.Fatalf("missing key: found=%v err=%v", found, err)
			}
			if err := d.Set([]byte("k"), []byte("v1")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := d.Set([]byte("k"), []byte("v2")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, found, err := d.Get([]byte("k"))
			if err != nil || !found {
				t.Fatalf("get: found=%v err=%v", found, err)
			}
			if !bytes.Equal(v, []byte("v2")) {
				t.Fatalf("got %q, want overwrite to win", v)
			}
		})
	}
}

func TestDriverScanAndDelete(t *testing.T) {
	for name, d := range driversUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			sc, ok := d.(Scanner)
			if !ok {
				t.Fatalf("driver does not implement Scanner")
			}
			for i := 0; i < 5; i++ {
				if err := d.Set([]byte(fmt.Sprintf("ek/%02d", i)), []byte{byte(i)}); err != nil {
					t.Fatalf("set: %v", err)
				}
			}
			if err := d.Set([]byte("other/x"), []byte("noise")); err != nil {
				t.Fatalf("set noise: %v", err)
			}

			var visited []string
			err := sc.Scan([]byte("ek/"), func(key, value []byte) error {
				visited = append(visited, string(key))
				return nil
			})
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			if len(visited) != 5 {
				t.Fatalf("scan visited %d keys, want 5: %v", len(visited), visited)
			}
			for i := 1; i < len(visited); i++ {
				if visited[i-1] >= visited[i] {
					t.Fatalf("scan order not ascending: %v", visited)
				}
			}

			if err := sc.Delete([]byte("ek/02")); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, found, _ := d.Get([]byte("ek/02")); found {
				t.Fatalf("deleted key still present")
			}
		})
	}
}

func TestPrefixUpperBound(t *testing.T) {
	cases := []struct {
		prefix []byte
		want   []byte
	}{
		{[]byte("ek/"), []byte("ek0")},
		{[]byte{0x01, 0xff}, []byte{0x02}},
		{[]byte{0xff, 0xff}, nil},
	}
	for _, c := range cases {
		if got := prefixUpperBound(c.prefix); !bytes.Equal(got, c.want) {
			t.Fatalf("prefixUpperBound(%v) = %v, want %v", c.prefix, got, c.want)
		}
	}
}
