package controller

import "testing"

func TestReadSequenceMatchesButtonOrder(t *testing.T) {
	// A, Select, Up, Right pressed (bits 0, 2, 4, 7).
	buttons := uint8(1<<0 | 1<<2 | 1<<4 | 1<<7)
	c := New(func() uint8 { return buttons })

	c.Write(1)
	c.Write(0)

	want := []uint8{1, 0, 1, 0, 1, 0, 0, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Errorf("read %d: got %d, want %d", i, got, w)
		}
	}
}

func TestReadsPastEighthReturnOne(t *testing.T) {
	c := New(func() uint8 { return 0 })
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("overflow read %d: got %d, want 1", i, got)
		}
	}
}

func TestStrobeHighResamplesBitA(t *testing.T) {
	pressed := false
	c := New(func() uint8 {
		if pressed {
			return 1
		}
		return 0
	})

	c.Write(1)
	if got := c.Read(); got != 0 {
		t.Errorf("got %d, want 0 before press", got)
	}
	pressed = true
	if got := c.Read(); got != 1 {
		t.Errorf("got %d, want 1 after press while still strobed", got)
	}
}
