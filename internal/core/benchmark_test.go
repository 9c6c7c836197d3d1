package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

func benchmarkFile(rows int) string {
	lines := make([]string, 0, rows+1)
	lines = append(lines, csvHeader)
	for i := 0; i < rows; i++ {
		lines = append(lines, validLine(fmt.Sprintf("Pantry %d", i)))
	}
	return strings.Join(lines, "\n") + "\n"
}

// BenchmarkReader_Parse measures decoding a 1000-row file.
func BenchmarkReader_Parse(b *testing.B) {
	data := benchmarkFile(1000)
	r := NewReader(0)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Parse(strings.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRowValidator_Validate measures one row's full check set.
func BenchmarkRowValidator_Validate(b *testing.B) {
	v := NewRowValidator(ValidatorConfig{}, nil)
	row := rawRow(2, nil)
	titles := BatchTitles{row.Get(HeaderTitle): 1}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Validate(ctx, row, titles)
	}
}

// BenchmarkUTF8Sanitizer measures the import reader on mixed input.
func BenchmarkUTF8Sanitizer(b *testing.B) {
	data := strings.Repeat("Café Pantry,\xff1 Main St\n", 1000)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := io.Copy(io.Discard, NewImportReader(strings.NewReader(data))); err != nil {
			b.Fatal(err)
		}
	}
}
