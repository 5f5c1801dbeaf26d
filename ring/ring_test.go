package ring

import "testing"

func TestPushPopOrder(t *testing.T) {
	r := New[int](3)
	if !r.Push(1) || !r.Push(2) || !r.Push(3) {
		t.Fatalf("expected three pushes to succeed")
	}
	if r.Push(4) {
		t.Fatalf("push into a full ring should fail")
	}
	for _, want := range []int{1, 2, 3} {
		got, ok := r.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if !r.Empty() {
		t.Fatalf("ring should be empty after draining")
	}
}

func TestReshapeDropsNewestOverflow(t *testing.T) {
	r := New[int](4)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	r.Push(4)
	r.Reshape(2)
	if r.Cap() != 2 || r.Len() != 2 {
		t.Fatalf("Cap()=%d Len()=%d, want 2 and 2", r.Cap(), r.Len())
	}
	first, _ := r.Pop()
	second, _ := r.Pop()
	if first != 1 || second != 2 {
		t.Fatalf("got (%d, %d), want (1, 2): reshape should keep the oldest elements", first, second)
	}
}

func TestEraseRemovesMatchingPreservesOrder(t *testing.T) {
	r := New[int](5)
	for _, v := range []int{1, 2, 3, 4, 5} {
		r.Push(v)
	}
	removed := r.Erase(func(v int) bool { return v%2 == 0 })
	if removed != 2 {
		t.Fatalf("Erase removed %d, want 2", removed)
	}
	var got []int
	r.Each(func(v int) { got = append(got, v) })
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
