// Package tonie reads the header of Tonie content files.
//
// A content file starts with a fixed 4096-byte header block followed by the
// Ogg audio payload. The header is a small protobuf-style message carrying
// the SHA-1 of the payload, the payload length, an audio id, and the Ogg page
// numbers at which chapters start. The rest of the block is zero padding.
//
// # Quick Start
//
// Reading the header of a content file:
//
//	file, err := tonie.Open("CONTENT/E0040350/0A1B2C3D")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%d bytes of audio, %d chapters\n",
//		file.Header.AudioLength, len(file.Header.Chapters))
//
// Decoding a header block already in memory:
//
//	h, warnings, err := tonie.Decode(block)
//
// # Header Layout
//
//	offset 0   00 00 0F FC              magic (4092, the length of the message)
//	offset 4   tag 0x0A  varint 20  ... SHA-1 of the audio payload
//	           tag 0x10  varint         audio length in bytes
//	           tag 0x18  varint         audio id (unix time of creation)
//	           tag 0x22  varint n  n×varint  chapter start pages
//	           tag 0x2A  varint fill    zero padding up to offset 4096
//
// # Error Handling
//
// Decoding is all or nothing. A bad magic, a hash of the wrong length, an
// unknown field, or a header that ends early is a fatal error, and no header
// is returned. Every error type matches a sentinel:
//
//	if errors.Is(err, tonie.ErrTruncatedHeader) {
//		// the file is cut off
//	}
//
// A padding field that does not add up to 4096 bytes is the only recoverable
// problem: the header is returned together with a Warning. Open adds further
// warnings when the payload size on disk does not match the header, or when
// hash verification (WithHashVerification) fails. Use WithStrictParsing to
// turn warnings into errors.
//
//	for _, w := range file.Warnings {
//		log.Printf("Warning: %s", w)
//	}
//
// # Audio Payload
//
// Chapters are stored as Ogg page sequence numbers. ScanAudio indexes the
// Opus stream and turns them into file offsets and playback times:
//
//	info, err := file.ScanAudio(ctx)
//
// # Concurrency
//
// Decode is a pure function of its input and is safe for concurrent use.
// OpenMany opens many files in parallel:
//
//	files, err := tonie.OpenMany(ctx, paths)
package tonie
