package binary

import (
	"io"
	"strings"
	"testing"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x00, 0x00, 0x0F, 0xFC}
	mock := &mockReader{data: data}
	sr := NewSafeReader(mock, int64(len(data)), "test.taf")

	buf := make([]byte, 2)
	err := sr.ReadAt(buf, 2, "test read")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x0F || buf[1] != 0xFC {
		t.Errorf("expected [0x0f, 0xfc], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	mock := &mockReader{data: data}
	sr := NewSafeReader(mock, int64(len(data)), "test.taf")

	buf := make([]byte, 2)
	err := sr.ReadAt(buf, 10, "out of bounds read")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "test.taf") {
		t.Errorf("error should contain filename: %v", errMsg)
	}
	if !strings.Contains(errMsg, "out of bounds read") {
		t.Errorf("error should contain context: %v", errMsg)
	}
}

func TestSafeReader_ReadAt_ExceedsSize(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	mock := &mockReader{data: data}
	sr := NewSafeReader(mock, int64(len(data)), "test.taf")

	err := sr.ReadAt(make([]byte, 3), 2, "header block")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "would exceed file size 4") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSafeReader_ReadBlock(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.taf")

	tests := []struct {
		name    string
		off     int64
		max     int
		wantLen int
	}{
		{"full block", 0, 40, 40},
		{"clamped to size", 0, 4096, 100},
		{"clamped from offset", 90, 40, 10},
		{"at end", 100, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := sr.ReadBlock(tt.off, tt.max, "header block")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(block) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(block), tt.wantLen)
			}
			if tt.wantLen > 0 && block[0] != byte(tt.off) {
				t.Errorf("first byte = %d, want %d", block[0], tt.off)
			}
		})
	}
}

func TestSafeReader_ReadBlock_NegativeOffset(t *testing.T) {
	sr := NewSafeReader(&mockReader{data: []byte{1}}, 1, "test.taf")

	if _, err := sr.ReadBlock(-1, 10, "header block"); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestSafeReader_Section(t *testing.T) {
	data := []byte("headerpayload")
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.taf")

	section := sr.Section(6, 100)
	if section.Size() != 7 {
		t.Fatalf("section size = %d, want 7", section.Size())
	}

	got, err := io.ReadAll(section)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("section = %q, want %q", got, "payload")
	}

	if empty := sr.Section(50, 10); empty.Size() != 0 {
		t.Errorf("section past end size = %d, want 0", empty.Size())
	}
}

func BenchmarkSafeReader_ReadBlock(b *testing.B) {
	data := make([]byte, 1024*1024) // 1MB
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "bench.taf")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sr.ReadBlock(0, 4096, "benchmark")
	}
}
