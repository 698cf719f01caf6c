package tonie_test

import (
	"context"
	"testing"

	"github.com/simonhull/tonie"
)

// BenchmarkOpen measures the performance of opening a single content file.
func BenchmarkOpen(b *testing.B) {
	path := content{audio: sampleAudio(), chapters: []uint32{0, 100, 200, 300}}.write(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		file, err := tonie.Open(path)
		if err != nil {
			b.Fatal(err)
		}
		file.Close()
	}
}

// BenchmarkOpen_VerifyHash includes hashing the audio payload.
func BenchmarkOpen_VerifyHash(b *testing.B) {
	path := content{audio: sampleAudio()}.write(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		file, err := tonie.Open(path, tonie.WithHashVerification())
		if err != nil {
			b.Fatal(err)
		}
		file.Close()
	}
}

// BenchmarkOpenMany measures concurrent opening of many files.
func BenchmarkOpenMany(b *testing.B) {
	paths := make([]string, 32)
	for i := range paths {
		paths[i] = content{audio: sampleAudio(), audioID: uint32(i)}.write(b)
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		files, err := tonie.OpenMany(ctx, paths)
		if err != nil {
			b.Fatal(err)
		}
		for _, f := range files {
			f.Close()
		}
	}
}

// BenchmarkDecode measures decoding an in-memory header block.
func BenchmarkDecode(b *testing.B) {
	block := content{audio: sampleAudio(), chapters: []uint32{0, 100, 200, 300}}.bytes()[:tonie.HeaderSize]

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, _, err := tonie.Decode(block); err != nil {
			b.Fatal(err)
		}
	}
}
