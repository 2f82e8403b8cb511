package distributed

// Shard is one rank's partition of segment ids (spec §5, §2:
// "shard-parallel mapping of segments").
type Shard struct {
	Rank     int
	Segments []int
}

// Shards partitions segmentIDs round-robin across numRanks shards (<1
// clamped to 1), preserving each segment's relative order within its
// shard. Round-robin keeps shard sizes within one of each other
// regardless of how the ids are ordered going in.
func Shards(segmentIDs []int, numRanks int) []Shard {
	if numRanks < 1 {
		numRanks = 1
	}

	shards := make([]Shard, numRanks)
	for r := range shards {
		shards[r].Rank = r
	}
	for i, id := range segmentIDs {
		r := i % numRanks
		shards[r].Segments = append(shards[r].Segments, id)
	}

	return shards
}
