package todotxt

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkParseFile measures decoding performance with varying sizes
func BenchmarkParseFile(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			var sb strings.Builder
			for i := 0; i < size; i++ {
				fmt.Fprintf(&sb, "(B) 2025-01-01 Task %d +proj @ctx due:2025-02-01\n", i)
			}
			content := sb.String()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = ParseFile(content)
			}
		})
	}
}
