package tree

// detectCycles walks every parent chain with Floyd's tortoise and hare and
// returns an entry on a cycle, if any. Entries already proven to lead to the
// root are marked so each chain is walked once.
func detectCycles(parents []resolvedParent) (int, bool) {
	acyclic := make([]bool, len(parents))

	next := func(index int) (int, bool) {
		return parents[index].parentIndex()
	}

	for start := range parents {
		if acyclic[start] {
			continue
		}

		slow, slowOK := next(start)
		fast, fastOK := slow, slowOK
		if fastOK {
			fast, fastOK = next(fast)
		}
		for slowOK && fastOK {
			if slow == fast {
				return slow, true
			}
			if acyclic[slow] || acyclic[fast] {
				break
			}
			slow, slowOK = next(slow)
			fast, fastOK = next(fast)
			if fastOK {
				fast, fastOK = next(fast)
			}
		}

		// The chain from start ends at the root or at a known-acyclic entry
		for index, ok := start, true; ok && !acyclic[index]; index, ok = next(index) {
			acyclic[index] = true
		}
	}
	return 0, false
}
