package metrics

import "runtime"

// HeapSnapshot is a point-in-time reading of the process heap.
type HeapSnapshot struct {
	Alloc   uint64 // bytes of live heap objects
	Sys     uint64 // bytes obtained from the OS
	NumGC   uint32
	Objects uint64
}

// ReadHeap samples the runtime memory statistics.
func ReadHeap() HeapSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return HeapSnapshot{
		Alloc:   m.HeapAlloc,
		Sys:     m.Sys,
		NumGC:   m.NumGC,
		Objects: m.HeapObjects,
	}
}
