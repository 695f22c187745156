package envelope

import (
	"testing"

	"github.com/sideband/core/identity"
)

// BenchmarkEncodeRequest and BenchmarkDecodeRequest mirror
// test/bench_test.go's BenchmarkCodecJSON: pure marshal/unmarshal cost,
// no network involved.
func BenchmarkEncodeRequest(b *testing.B) {
	req := Request{
		Method: "bench.method",
		Params: []byte(`{"key":"value","n":42}`),
		CID:    identity.NewFrameID(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(req); err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
	}
}

func BenchmarkDecodeRequest(b *testing.B) {
	req := Request{
		Method: "bench.method",
		Params: []byte(`{"key":"value","n":42}`),
		CID:    identity.NewFrameID(),
	}
	data, err := Encode(req)
	if err != nil {
		b.Fatalf("Encode failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatalf("Decode failed: %v", err)
		}
	}
}

func BenchmarkEncodeDecodeConcurrent(b *testing.B) {
	data, err := Encode(Success{
		Result: []byte(`{"ok":true}`),
		CID:    identity.NewFrameID(),
	})
	if err != nil {
		b.Fatalf("Encode failed: %v", err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Decode(data); err != nil {
				b.Error("Decode failed:", err)
				return
			}
		}
	})
}
