package track

// DefaultBatchSize is the number of tracks submitted per generation request.
const DefaultBatchSize = 10

// Batch is a fixed-size group of descriptors submitted together as one
// generation request. Num is 1-based and Total is the run's batch count; both
// exist only for progress reporting.
type Batch struct {
	Tracks []Descriptor
	Num    int
	Total  int
}

// Partition splits tracks into batches of at most size descriptors each,
// preserving the input order. No descriptor is dropped, reordered across batch
// boundaries, or duplicated. Empty input yields no batches. Partition panics
// if size is not positive.
func Partition(tracks []Descriptor, size int) []Batch {
	if size <= 0 {
		panic("track: batch size must be positive")
	}
	if len(tracks) == 0 {
		return nil
	}

	total := (len(tracks) + size - 1) / size
	batches := make([]Batch, 0, total)
	for start := 0; start < len(tracks); start += size {
		end := min(start+size, len(tracks))
		batches = append(batches, Batch{
			Tracks: tracks[start:end],
			Num:    len(batches) + 1,
			Total:  total,
		})
	}
	return batches
}
