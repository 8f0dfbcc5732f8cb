package candidate

import "testing"

func TestContainsBytes(t *testing.T) {
	c := New("foo_bar")
	if !c.ContainsBytes("fb") {
		t.Fatal("expected foo_bar to contain f and b")
	}
	if c.ContainsBytes("fbz") {
		t.Fatal("did not expect foo_bar to contain z")
	}
	if !c.ContainsBytes("") {
		t.Fatal("empty query should always be contained")
	}
}

func TestWordStarts(t *testing.T) {
	c := New("fooBar_baz")
	starts := c.WordStarts()
	// f(0) o o B(3) a r _ b(7) a z
	want := map[int]bool{0: true, 3: true, 7: true}
	for i, isStart := range starts {
		if want[i] != isStart {
			t.Errorf("index %d: word start = %v, want %v", i, isStart, want[i])
		}
	}
}

func TestRepositoryInterning(t *testing.T) {
	repo := NewRepository()
	a := repo.Get("hello")
	b := repo.Get("hello")
	if a != b {
		t.Fatal("expected interned pointer identity for repeated Get")
	}
	if repo.Len() != 1 {
		t.Fatalf("len = %d, want 1", repo.Len())
	}

	elems := repo.GetElements([]string{"hello", "world", "hello"})
	if elems[0] != a || elems[2] != a {
		t.Fatal("GetElements should return the interned pointer for repeats")
	}
	if repo.Len() != 2 {
		t.Fatalf("len = %d, want 2", repo.Len())
	}
}
