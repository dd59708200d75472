package blockarc

import "testing"

// TestCursorReadEOF exercises a 12-byte block holding three uint32s: decoding them in
// sequence succeeds, and a fourth decode past the end fails with ErrEOF.
func TestCursorReadEOF(t *testing.T) {
	buf := []byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3}
	cur := NewCursor(buf)

	for i, want := range []uint32{1, 2, 3} {
		got, err := cur.Uint32()
		if err != nil {
			t.Fatalf("decode %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Fatalf("decode %d: got %d, want %d", i, got, want)
		}
	}

	if _, err := cur.Uint32(); err != ErrEOF {
		t.Fatalf("fourth decode: got err %v, want ErrEOF", err)
	}
}

// TestCursorWriteNoSpace exercises a 12-byte buffer: three uint32 writes fit exactly, a
// fourth fails with ErrNoSpace, and the buffer holds the three written values unchanged.
func TestCursorWriteNoSpace(t *testing.T) {
	cur := NewCursor(make([]byte, 12))

	for i, v := range []uint32{1, 2, 3} {
		if err := cur.PutUint32(v); err != nil {
			t.Fatalf("encode %d: unexpected error: %v", i, err)
		}
	}

	if err := cur.PutUint32(4); err != ErrNoSpace {
		t.Fatalf("fourth encode: got err %v, want ErrNoSpace", err)
	}

	want := []byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3}
	got := cur.buf
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("buffer mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestCursorStringRoundTrip(t *testing.T) {
	cur := NewCursor(make([]byte, 64))
	if err := cur.PutString("foo"); err != nil {
		t.Fatalf("PutString: %v", err)
	}

	rd := NewCursor(cur.buf)
	got, err := rd.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if got != "foo" {
		t.Fatalf("got %q, want %q", got, "foo")
	}
}

func TestCursorBytesRoundTrip(t *testing.T) {
	cur := NewCursor(make([]byte, 16))
	if err := cur.PutBytes([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("PutBytes: %v", err)
	}

	rd := NewCursor(cur.buf)
	got, err := rd.Bytes(4)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
