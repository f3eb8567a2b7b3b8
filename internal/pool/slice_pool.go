package pool

import "sync"

var intSlicePool = sync.Pool{
	New: func() any { return &[]int{} },
}

// GetIntSlice retrieves an int slice of exactly size elements from the pool.
//
// The contents are not cleared. The caller must call the returned cleanup
// function to return the slice to the pool.
//
// Example:
//
//	order, cleanup := pool.GetIntSlice(len(cells))
//	defer cleanup()
func GetIntSlice(size int) ([]int, func()) {
	ptr, _ := intSlicePool.Get().(*[]int)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { intSlicePool.Put(ptr) }
}
