package cursor

import "testing"

func TestMove(t *testing.T) {
	tests := []struct {
		name       string
		start      int
		delta      int
		listLen    int
		height     int
		wantPos    int
		wantOffset int
	}{
		{"down inside viewport", 0, 1, 20, 10, 1, 0},
		{"clamped at end", 18, 5, 20, 10, 19, 10},
		{"clamped at start", 2, -5, 20, 10, 0, 0},
		{"scrolls with margin", 0, 8, 20, 10, 8, 1},
		{"short list never scrolls", 0, 3, 4, 10, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(2)
			c.Jump(tt.start, tt.listLen, tt.height)
			c.Move(tt.delta, tt.listLen, tt.height)
			if c.Pos() != tt.wantPos || c.Offset() != tt.wantOffset {
				t.Errorf("pos=%d offset=%d, want pos=%d offset=%d",
					c.Pos(), c.Offset(), tt.wantPos, tt.wantOffset)
			}
		})
	}
}

func TestMoveEmptyList(t *testing.T) {
	c := New(2)
	c.Move(3, 0, 10)
	if c.Pos() != 0 || c.Offset() != 0 {
		t.Errorf("pos=%d offset=%d, want 0/0", c.Pos(), c.Offset())
	}
}

func TestClampAfterShrink(t *testing.T) {
	c := New(1)
	c.Jump(30, 40, 10)
	c.Clamp(5, 10)
	if c.Pos() != 4 {
		t.Errorf("pos = %d, want 4", c.Pos())
	}
	if c.Offset() != 0 {
		t.Errorf("offset = %d, want 0", c.Offset())
	}
}

func TestVisibleRange(t *testing.T) {
	c := New(0)
	c.Jump(15, 20, 10)
	start, end := c.VisibleRange(20, 10)
	if start != 6 || end != 16 {
		t.Errorf("range = [%d,%d), want [6,16)", start, end)
	}
	if s, e := c.VisibleRange(0, 10); s != 0 || e != 0 {
		t.Errorf("empty range = [%d,%d)", s, e)
	}
}

func TestHandleKey(t *testing.T) {
	c := New(0)
	for _, key := range []string{"j", "down", "G", "k", "g"} {
		if !c.HandleKey(key, 10, 5) {
			t.Errorf("HandleKey(%q) = false", key)
		}
	}
	if c.Pos() != 0 {
		t.Errorf("pos = %d, want 0", c.Pos())
	}
	if c.HandleKey("x", 10, 5) {
		t.Error("HandleKey(x) = true")
	}

	c.HandleKey("pgdown", 10, 4)
	if c.Pos() != 2 {
		t.Errorf("pos after pgdown = %d, want 2", c.Pos())
	}
}
