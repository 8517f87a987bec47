package main

import (
	"reflect"
	"sync"
	"testing"
)

func TestRouteCacheBasicOperations(t *testing.T) {
	cache := NewRouteCache(2)

	path := []string{"Room101", "hall_101", "Room105"}
	cache.Put("Room101", "Room105", path)

	got, found := cache.Get("Room101", "Room105")
	if !found {
		t.Fatal("path not found in cache")
	}
	if !reflect.DeepEqual(got, path) {
		t.Errorf("Get = %v, want %v", got, path)
	}

	// Direction matters
	if _, found := cache.Get("Room105", "Room101"); found {
		t.Error("reverse direction should miss")
	}

	// Returned slices are copies
	got[0] = "mutated"
	if again, _ := cache.Get("Room101", "Room105"); again[0] != "Room101" {
		t.Error("cache entry was mutated through a returned slice")
	}

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestRouteCacheEviction(t *testing.T) {
	cache := NewRouteCache(2)
	cache.Put("a", "b", []string{"a", "b"})
	cache.Put("b", "c", []string{"b", "c"})
	cache.Put("c", "d", []string{"c", "d"})

	if _, found := cache.Get("a", "b"); found {
		t.Error("oldest entry should have been evicted")
	}
	for _, pair := range [][2]string{{"b", "c"}, {"c", "d"}} {
		if _, found := cache.Get(pair[0], pair[1]); !found {
			t.Errorf("entry %v missing", pair)
		}
	}
	if size := cache.Stats().Size; size != 2 {
		t.Errorf("Size = %d, want 2", size)
	}

	// Overwriting an existing key does not evict
	cache.Put("b", "c", []string{"b", "x", "c"})
	if _, found := cache.Get("c", "d"); !found {
		t.Error("overwrite evicted another entry")
	}
}

func TestRouteCacheDisabled(t *testing.T) {
	cache := NewRouteCache(0)
	cache.Put("a", "b", []string{"a", "b"})
	if _, found := cache.Get("a", "b"); found {
		t.Error("disabled cache stored an entry")
	}
}

func TestRouteCacheConcurrentAccess(t *testing.T) {
	cache := NewRouteCache(16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := string(rune('a' + (i+j)%20))
				cache.Put(key, "z", []string{key, "z"})
				cache.Get(key, "z")
			}
		}(i)
	}
	wg.Wait()

	if size := cache.Stats().Size; size > 16 {
		t.Errorf("Size = %d exceeds capacity", size)
	}
}

func TestRouteCacheKeyCollision(t *testing.T) {
	cache := NewRouteCache(4)
	cache.hash = func(start, end string) uint64 { return 42 }

	cache.Put("Room101", "Room105", []string{"Room101", "hall_101", "Room105"})

	if path, found := cache.Get("Room102", "Reception"); found {
		t.Fatalf("colliding pair returned %v", path)
	}
	if _, found := cache.Get("Room101", "Room105"); !found {
		t.Error("original pair should still hit")
	}

	cache.Put("Room102", "Reception", []string{"Room102", "Reception"})
	if _, found := cache.Get("Room101", "Room105"); found {
		t.Error("overwritten pair should miss")
	}
	got, found := cache.Get("Room102", "Reception")
	if !found || !reflect.DeepEqual(got, []string{"Room102", "Reception"}) {
		t.Errorf("Get = %v, %v", got, found)
	}

	if stats := cache.Stats(); stats.Size != 1 || stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("Stats = %+v", stats)
	}
}
