package output

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KIRKR101/Streamline/internal/transfer"
)

func TestRenderBatch(t *testing.T) {
	report := transfer.BatchReport{
		Files: []transfer.FileReport{
			{Name: "a.txt", Bytes: 3, Elapsed: 2 * time.Millisecond},
			{Name: "missing.txt", Err: errors.New("no such file")},
		},
		Sent:    1,
		Skipped: 1,
		Bytes:   3,
		Elapsed: 5 * time.Millisecond,
	}
	out := RenderBatch(report)
	for _, want := range []string{"a.txt", "missing.txt", "skipped", "1 sent, 1 skipped"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBatchEmpty(t *testing.T) {
	out := RenderBatch(transfer.BatchReport{})
	if !strings.Contains(out, "No files") {
		t.Fatalf("unexpected empty-batch output: %q", out)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := map[uint64]string{
		0:       "0 B",
		512:     "512 B",
		2048:    "2.00 KiB",
		3 << 20: "3.00 MiB",
		5 << 30: "5.00 GiB",
	}
	for n, want := range cases {
		if got := humanBytes(n); got != want {
			t.Fatalf("humanBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
