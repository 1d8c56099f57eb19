package chime

// Curator selects the channels of a recording that downstream analysis
// should see. It receives the current channel ids and their locations, in
// the same order, and returns the ids to keep. Returned ids must be a subset
// of the ids it was given; order is preserved as returned.
type Curator interface {
	Curate(channelIDs []int, locations []Location) ([]int, error)
}

// CuratorFunc adapts a function to the Curator interface.
type CuratorFunc func(channelIDs []int, locations []Location) ([]int, error)

// Curate calls f.
func (f CuratorFunc) Curate(channelIDs []int, locations []Location) ([]int, error) {
	return f(channelIDs, locations)
}

// validateCurated checks that every id in curated is one of current and
// that no id repeats.
func validateCurated(current, curated []int) error {
	known := make(map[int]struct{}, len(current))
	for _, id := range current {
		known[id] = struct{}{}
	}
	seen := make(map[int]struct{}, len(curated))
	for _, id := range curated {
		if _, ok := known[id]; !ok {
			return &RangeError{Param: "channel_id", Value: id, Limit: len(current), Reason: "curator returned unknown channel"}
		}
		if _, dup := seen[id]; dup {
			return &RangeError{Param: "channel_id", Value: id, Limit: len(current), Reason: "curator returned duplicate channel"}
		}
		seen[id] = struct{}{}
	}
	return nil
}
