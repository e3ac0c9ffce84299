package metrics

import "testing"

func TestReadHeap(t *testing.T) {
	t.Parallel()

	before := ReadHeap()
	if before.Alloc == 0 || before.Sys == 0 {
		t.Fatalf("heap snapshot should not be zero: %+v", before)
	}

	buf := make([]byte, 1<<20)
	buf[len(buf)-1] = 1

	after := ReadHeap()
	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
	_ = buf
}
