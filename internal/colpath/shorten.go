package colpath

// ShortestUniqueSuffixes assigns each path the shortest trailing segment run
// that no other path shares. Every colliding group grows by one segment per
// round, all at once, until each suffix is unique or a path is exhausted.
func ShortestUniqueSuffixes(paths []Path) []Path {
	lengths := make([]int, len(paths))
	for i, p := range paths {
		lengths[i] = min(1, len(p))
	}

	for {
		groups := make(map[string][]int, len(paths))
		for i, p := range paths {
			key := p.Last(lengths[i]).Key()
			groups[key] = append(groups[key], i)
		}

		grew := false
		for _, members := range groups {
			if len(members) < 2 {
				continue
			}
			for _, i := range members {
				if lengths[i] < len(paths[i]) {
					lengths[i]++
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = p.Last(lengths[i])
	}
	return out
}
