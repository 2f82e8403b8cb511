package distributed

import "github.com/google/uuid"

// RunID tags one coordinator invocation (one call to a learner's outer
// loop, or one MERT sweep) for log correlation across shards, the same
// role ehrlich-b-wingthing's session/relay ids play: a label attached
// to every log line a run produces, never a determinism input. Per
// spec §5, the PRNG used by rejection sampling is instead seeded
// deterministically from segment id + iteration, not from RunID.
type RunID string

// NewRunID returns a fresh random run identifier.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func (id RunID) String() string { return string(id) }
