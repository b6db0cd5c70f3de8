package store

import "testing"

func TestShardIndexIsStableForProcessLifetime(t *testing.T) {
	keys := []string{"a", "user:123", "counter", "", "a-very-long-key-name-indeed"}
	for _, k := range keys {
		first := shardIndex(k, 8)
		for i := 0; i < 100; i++ {
			if got := shardIndex(k, 8); got != first {
				t.Fatalf("shardIndex(%q, 8) is not stable: got %d and %d", k, first, got)
			}
		}
	}
}

func TestShardIndexInRange(t *testing.T) {
	for n := 1; n <= 16; n++ {
		for i := 0; i < 50; i++ {
			idx := shardIndex(string(rune('a'+i%26))+string(rune(i)), n)
			if idx < 0 || idx >= n {
				t.Fatalf("shardIndex out of range [0,%d): %d", n, idx)
			}
		}
	}
}
