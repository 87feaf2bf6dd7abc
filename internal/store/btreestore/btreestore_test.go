package btreestore

import (
	"bytes"
	"testing"
)

func TestSearch_FoundAndNotFound(t *testing.T) {
	s := New(4)

	if _, found, _ := s.Search(7); found {
		t.Fatalf("search on empty store reported found")
	}

	s.Insert(7, []byte("seven"))
	got, found, _ := s.Search(7)
	if !found || !bytes.Equal(got, []byte("seven")) {
		t.Fatalf("got %q found=%v, want %q found=true", got, found, "seven")
	}
}

func TestSearch_EmptyPayloadIsFound(t *testing.T) {
	s := New(4)
	s.Insert(0, []byte{})

	got, found, _ := s.Search(0)
	if !found {
		t.Fatalf("stored empty payload reported as absent")
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want empty payload", got)
	}
}

func TestInsert_Upserts(t *testing.T) {
	s := New(4)
	s.Insert(3, []byte("a"))
	s.Insert(3, []byte("b"))

	if s.Count() != 1 {
		t.Fatalf("count=%d after upsert, want 1", s.Count())
	}
	got, _, _ := s.Search(3)
	if !bytes.Equal(got, []byte("b")) {
		t.Fatalf("got %q, want %q", got, "b")
	}
}

func TestRangeSearch_AscendingWithinBounds(t *testing.T) {
	s := New(4)
	for _, k := range []int64{5, 1, 9, 3, 7} {
		s.Insert(k, []byte{byte(k)})
	}

	var keys []int64
	s.RangeSearch(3, 7, func(k int64, _ []byte) {
		keys = append(keys, k)
	})

	want := []int64{3, 5, 7}
	if len(keys) != len(want) {
		t.Fatalf("visited %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("visited %v, want %v", keys, want)
		}
	}
}

func TestSearch_ReportsCost(t *testing.T) {
	s := New(2)
	for k := int64(0); k < 256; k++ {
		s.Insert(k, []byte("v"))
	}

	_, _, cost := s.Search(200)
	if cost <= 0 {
		t.Fatalf("cost=%d for search in populated tree, want > 0", cost)
	}
}
