package compress

import (
	"fmt"
	"testing"
)

func BenchmarkAllCodecs_Compress(b *testing.B) {
	for codecName, codec := range getAllCodecs() {
		for _, notes := range []int{100, 2000, 20000} {
			data := notePayload(notes)
			b.Run(fmt.Sprintf("%s/%d_notes", codecName, notes), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()

				for b.Loop() {
					if _, err := codec.Compress(data); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	for codecName, codec := range getAllCodecs() {
		for _, notes := range []int{100, 2000, 20000} {
			data := notePayload(notes)
			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("%s/%d_notes", codecName, notes), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				b.ReportAllocs()

				for b.Loop() {
					if _, err := codec.Decompress(compressed); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
