package datastructure

import (
	"math/rand"
	"sort"
	"testing"
)

func TestHeapExtractsInRankOrder(t *testing.T) {
	pq := NewFourAryHeap[int]()

	ranks := make([]float64, 0, 200)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		rank := r.Float64() * 1000
		ranks = append(ranks, rank)
		pq.Insert(NewPriorityQueueNode(rank, 0, i))
	}
	sort.Float64s(ranks)

	for i := 0; i < 200; i++ {
		node, err := pq.ExtractMin()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.GetRank() != ranks[i] {
			t.Fatalf("pop %d: got rank %f, want %f", i, node.GetRank(), ranks[i])
		}
	}
	if !pq.IsEmpty() {
		t.Fatalf("heap should be empty, has %d", pq.Size())
	}
}

func TestHeapTieBreakOnSecondaryKey(t *testing.T) {
	pq := NewFourAryHeap[int]()

	// same rank, distinct tie-break values inserted out of order
	pq.Insert(NewPriorityQueueNode(5.0, 30.0, 0))
	pq.Insert(NewPriorityQueueNode(5.0, 10.0, 1))
	pq.Insert(NewPriorityQueueNode(5.0, 20.0, 2))

	wantItems := []int{1, 2, 0}
	for i, want := range wantItems {
		node, err := pq.ExtractMin()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.GetItem() != want {
			t.Fatalf("pop %d: got item %d, want %d", i, node.GetItem(), want)
		}
	}
}

func TestHeapDecreaseKey(t *testing.T) {
	pq := NewFourAryHeap[int]()

	a := NewPriorityQueueNode(10.0, 0, 0)
	b := NewPriorityQueueNode(20.0, 0, 1)
	c := NewPriorityQueueNode(30.0, 0, 2)
	pq.Insert(a)
	pq.Insert(b)
	pq.Insert(c)

	if err := pq.DecreaseKey(c, 1.0, 0); err != nil {
		t.Fatalf("decrease key: %v", err)
	}

	node, err := pq.ExtractMin()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.GetItem() != 2 {
		t.Fatalf("got item %d, want the decreased item 2", node.GetItem())
	}

	// increasing the rank must be rejected
	if err := pq.DecreaseKey(a, 100.0, 0); err == nil {
		t.Fatal("expected error when increasing rank")
	}
}

func TestHeapExtractMinEmpty(t *testing.T) {
	pq := NewBinaryHeap[int]()
	if _, err := pq.ExtractMin(); err == nil {
		t.Fatal("expected error on empty heap")
	}
}

func TestHeapPosTracksSlot(t *testing.T) {
	pq := NewFourAryHeap[int]()

	nodes := make([]*PriorityQueueNode[int], 0, 50)
	for i := 0; i < 50; i++ {
		n := NewPriorityQueueNode(float64(50-i), 0, i)
		nodes = append(nodes, n)
		pq.Insert(n)
	}

	for _, n := range nodes {
		pos := n.GetPos()
		if pos < 0 || pos >= pq.Size() {
			t.Fatalf("item %d has position %d outside heap of size %d", n.GetItem(), pos, pq.Size())
		}
	}

	popped, _ := pq.ExtractMin()
	if popped.GetPos() != -1 {
		t.Fatalf("extracted node should have pos -1, got %d", popped.GetPos())
	}
}
