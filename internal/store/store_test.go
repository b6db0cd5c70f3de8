package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	st := New(4, filepath.Join(t.TempDir(), "dump"), nil)

	if _, ok := st.Get("missing"); ok {
		t.Fatal("expected missing key to be absent")
	}

	st.Set("key", []byte("value"))
	got, ok := st.Get("key")
	if !ok || string(got) != "value" {
		t.Fatalf("got %q, %v; want value, true", got, ok)
	}

	st.Set("key", []byte("value2"))
	got, ok = st.Get("key")
	if !ok || string(got) != "value2" {
		t.Fatalf("SET of an existing key did not overwrite: got %q", got)
	}
}

func TestExpireMakesKeyImmediatelyUnreadable(t *testing.T) {
	st := New(4, filepath.Join(t.TempDir(), "dump"), nil)
	st.Set("key", []byte("value"))

	if err := st.Expire("key", 0); err != nil {
		t.Fatalf("Expire: %v", err)
	}

	if _, ok := st.Get("key"); ok {
		t.Fatal("expected key to be unreadable immediately after EXPIRE with ttl=0")
	}
}

func TestExpireOnMissingKeyIsNotFound(t *testing.T) {
	st := New(4, filepath.Join(t.TempDir(), "dump"), nil)
	if err := st.Expire("nope", time.Second); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestIncrDecrSemantics(t *testing.T) {
	st := New(4, filepath.Join(t.TempDir(), "dump"), nil)

	v, err := st.Incr("n")
	if err != nil || v != 1 {
		t.Fatalf("first Incr: got %d, %v; want 1, nil", v, err)
	}
	v, err = st.Incr("n")
	if err != nil || v != 2 {
		t.Fatalf("second Incr: got %d, %v; want 2, nil", v, err)
	}
	v, err = st.Decr("n")
	if err != nil || v != 1 {
		t.Fatalf("Decr: got %d, %v; want 1, nil", v, err)
	}
}

func TestIncrOnNonIntegerValue(t *testing.T) {
	st := New(4, filepath.Join(t.TempDir(), "dump"), nil)
	st.Set("n", []byte("abc"))

	if _, err := st.Incr("n"); err != ErrNotInteger {
		t.Fatalf("got %v, want ErrNotInteger", err)
	}
	got, _ := st.Get("n")
	if string(got) != "abc" {
		t.Fatalf("failed Incr must not modify the value, got %q", got)
	}
}

func TestIncrThenDecrReturnsOriginalValue(t *testing.T) {
	st := New(4, filepath.Join(t.TempDir(), "dump"), nil)
	st.Set("n", []byte("41"))

	if _, err := st.Incr("n"); err != nil {
		t.Fatal(err)
	}
	v, err := st.Decr("n")
	if err != nil || v != 41 {
		t.Fatalf("got %d, %v; want 41, nil", v, err)
	}
}

func TestSaveThenLoadRestoresEntries(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump")
	st := New(3, dump, nil)

	st.Set("a", []byte("1"))
	st.Set("b", []byte("2"))
	if err := st.Expire("b", time.Hour); err != nil {
		t.Fatal(err)
	}

	if err := st.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New(7, dump, nil) // different shard count, per spec.md §9
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, ok := loaded.Get("a"); !ok || string(v) != "1" {
		t.Fatalf("a: got %q, %v", v, ok)
	}
	if v, ok := loaded.Get("b"); !ok || string(v) != "2" {
		t.Fatalf("b: got %q, %v", v, ok)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump")
	if err := os.WriteFile(dump, []byte("not a dump file"), 0o600); err != nil {
		t.Fatal(err)
	}

	st := New(2, dump, nil)
	if err := st.Load(); err != ErrBadDumpFormat {
		t.Fatalf("got %v, want ErrBadDumpFormat", err)
	}
}

func TestLoadDoesNotFlushExistingKeys(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump")
	src := New(2, dump, nil)
	src.Set("only-in-dump", []byte("x"))
	if err := src.Save(); err != nil {
		t.Fatal(err)
	}

	dst := New(2, dump, nil)
	dst.Set("only-in-memory", []byte("y"))
	if err := dst.Load(); err != nil {
		t.Fatal(err)
	}

	if v, ok := dst.Get("only-in-memory"); !ok || string(v) != "y" {
		t.Fatalf("LOAD must not flush pre-existing keys, got %q, %v", v, ok)
	}
	if v, ok := dst.Get("only-in-dump"); !ok || string(v) != "x" {
		t.Fatalf("LOAD must add dumped keys, got %q, %v", v, ok)
	}
}

func TestReapExpiredRemovesElapsedEntries(t *testing.T) {
	st := New(2, filepath.Join(t.TempDir(), "dump"), nil)
	st.Set("k", []byte("v"))
	if err := st.Expire("k", 0); err != nil {
		t.Fatal(err)
	}

	removed := st.ReapExpired()
	if removed != 1 {
		t.Fatalf("got %d removed, want 1", removed)
	}
}

func TestDrainAndCommitDrainRoundTrip(t *testing.T) {
	st := New(1, filepath.Join(t.TempDir(), "dump"), []string{"replica-a"})
	st.Set("k1", []byte("v1"))
	st.Set("k2", []byte("v2"))

	ops, hw := st.DrainLog(0, 0, 100)
	if len(ops) != 2 || hw != 2 {
		t.Fatalf("got %d ops, hw=%d; want 2 ops, hw=2", len(ops), hw)
	}
	if ops[0].Kind != OpSet || ops[0].Key != "k1" {
		t.Fatalf("unexpected first op: %+v", ops[0])
	}

	st.CommitDrain(0, 0, hw)

	// No new writes since the drain: the segment must now be empty.
	ops, hw = st.DrainLog(0, 0, 100)
	if len(ops) != 0 || hw != 0 {
		t.Fatalf("expected drained segment to reset to empty, got %d ops, hw=%d", len(ops), hw)
	}
}

func TestCommitDrainPreservesTailWrittenDuringTransmission(t *testing.T) {
	st := New(1, filepath.Join(t.TempDir(), "dump"), []string{"replica-a"})
	st.Set("k1", []byte("v1"))

	ops, hw := st.DrainLog(0, 0, 100)
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}

	// Simulate a write arriving while the batch above is in flight.
	st.Set("k2", []byte("v2"))

	st.CommitDrain(0, 0, hw)

	ops, _ = st.DrainLog(0, 0, 100)
	if len(ops) != 1 || ops[0].Key != "k2" {
		t.Fatalf("expected only the tail write to remain, got %+v", ops)
	}
}
