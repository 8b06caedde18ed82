package execution

// Scheduler splits test addresses into shards
type Scheduler interface {
	Schedule(addresses []string, shards int) [][]string
}

// RoundRobinScheduler deals addresses to shards in turn
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule deals addresses round-robin. Shards that would stay empty are
// not returned, so a shard never runs the host without explicit targets.
func (s *RoundRobinScheduler) Schedule(addresses []string, shards int) [][]string {
	if shards <= 0 {
		shards = 1
	}
	if shards > len(addresses) {
		shards = len(addresses)
	}

	distribution := make([][]string, shards)
	for i, address := range addresses {
		distribution[i%shards] = append(distribution[i%shards], address)
	}
	return distribution
}
