package lrulist

import "testing"

func values(l *List) []any {
	var out []any
	if l.head == nil {
		return out
	}
	n := l.head
	for {
		out = append(out, n.Value)
		n = n.next
		if n == l.head {
			break
		}
	}
	return out
}

func TestPushFrontOrder(t *testing.T) {
	l := New()
	l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	got := values(l)
	want := []any{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestMoveToFront(t *testing.T) {
	l := New()
	na := l.PushFront("a")
	l.PushFront("b")
	l.PushFront("c")
	l.MoveToFront(na)
	got := values(l)
	want := []any{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestRemove(t *testing.T) {
	l := New()
	na := l.PushFront("a")
	l.PushFront("b")
	l.Remove(na)
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	got := values(l)
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("got %v, want [b]", got)
	}
}

func TestBack(t *testing.T) {
	l := New()
	if l.Back() != nil {
		t.Fatal("Back() of empty list should be nil")
	}
	l.PushFront(1)
	l.PushFront(2)
	if l.Back().Value != 1 {
		t.Fatalf("Back().Value = %v, want 1", l.Back().Value)
	}
}

func TestRemoveLastEmptiesList(t *testing.T) {
	l := New()
	n := l.PushFront("only")
	l.Remove(n)
	if l.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", l.Len())
	}
	if l.Back() != nil {
		t.Fatal("Back() should be nil after removing last node")
	}
}
