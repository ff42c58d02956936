package dll

import "testing"

func ints(l *List) []int {
	var out []int
	for e := l.Front(); e != nil; e = l.Next(e) {
		out = append(out, e.Value.(int))
	}
	return out
}

func TestPushFrontBack(t *testing.T) {
	var l List
	l.MakeEmpty()
	l.PushBack(NewElem(1))
	l.PushBack(NewElem(2))
	l.PushFront(NewElem(0))
	got := ints(&l)
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestRemove(t *testing.T) {
	var l List
	l.MakeEmpty()
	a, b, c := NewElem(1), NewElem(2), NewElem(3)
	l.PushBack(a)
	l.PushBack(b)
	l.PushBack(c)
	b.Remove()
	got := ints(&l)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("got %v", got)
	}
	if l.IsInList(b) {
		t.Fatalf("removed element still reported in list")
	}
}

func TestInsertOrderedStableFIFO(t *testing.T) {
	var l List
	l.MakeEmpty()
	less := func(a, b interface{}) bool { return a.(int) > b.(int) } // descending
	l.InsertOrdered(NewElem(5), less)
	l.InsertOrdered(NewElem(5), less) // equal priority, must stay FIFO (after the first 5)
	l.InsertOrdered(NewElem(9), less)
	l.InsertOrdered(NewElem(1), less)
	got := ints(&l)
	want := []int{9, 5, 5, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestPopFrontEmpty(t *testing.T) {
	var l List
	l.MakeEmpty()
	if e := l.PopFront(); e != nil {
		t.Fatalf("PopFront on empty list returned %v", e)
	}
}
