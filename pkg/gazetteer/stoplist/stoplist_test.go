package stoplist

import (
	"errors"
	"testing"

	"github.com/cognicore/gazetteer/pkg/gazetteer/internalerr"
)

func TestSelectMostFrequent(t *testing.T) {
	// ids:        0  1  2  3  4
	counts := []int{3, 1, 2, 5, 2}

	set, err := Select(counts, 2, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	ids := set.IDs()
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 3 {
		t.Fatalf("expected stop ids [0 3], got %v", ids)
	}

	r, ok := set.Reason(3)
	if !ok || !r.Frequent || r.Configured || r.Count != 5 {
		t.Errorf("unexpected reason for id 3: %+v", r)
	}
}

func TestSelectTieBreaksOnSmallerID(t *testing.T) {
	counts := []int{1, 2, 1, 2, 2}

	set, err := Select(counts, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	// ids 1, 3 and 4 all have count 2; the first registered win.
	if !set.IsStop(1) || !set.IsStop(3) || set.IsStop(4) {
		t.Errorf("expected ids 1 and 3, got %v", set.IDs())
	}
}

func TestSelectClampsN(t *testing.T) {
	counts := []int{1, 1, 1}

	set, err := Select(counts, 10, nil)
	if err != nil {
		t.Fatalf("n above the number of tokens should clamp, got %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected all 3 tokens, got %d", set.Len())
	}
}

func TestSelectNegativeN(t *testing.T) {
	_, err := Select([]int{1}, -1, nil)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSelectExplicit(t *testing.T) {
	counts := []int{4, 1, 1}

	set, err := Select(counts, 1, []int{0, 2, 9, -1})
	if err != nil {
		t.Fatal(err)
	}

	if set.Len() != 2 {
		t.Fatalf("expected 2 stop words, got %v", set.IDs())
	}
	r, _ := set.Reason(0)
	if !r.Frequent || !r.Configured {
		t.Errorf("id 0 should be both frequent and configured: %+v", r)
	}
	r, _ = set.Reason(2)
	if r.Frequent || !r.Configured {
		t.Errorf("id 2 should only be configured: %+v", r)
	}
	if set.IsStop(1) {
		t.Error("id 1 should not be a stop word")
	}
}

func TestEmpty(t *testing.T) {
	set := Empty()
	if set.Len() != 0 || set.IsStop(0) {
		t.Error("empty set should contain nothing")
	}
	if len(set.IDs()) != 0 {
		t.Error("empty set should have no ids")
	}
}
