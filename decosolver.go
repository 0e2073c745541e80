package main

import "sort"

// ── Decoration slot solver ──────────────────────────────────────────

// SlotSolution is the best decoration assignment for one socket list.
// Decos aligns with the capacities passed by the caller; nil means the
// socket was left empty. Totals is the final relevant vector, clipped.
type SlotSolution struct {
	Decos  []*Decoration
	Totals []int
	Score  float64
}

type solveState struct {
	totals []int
	decos  []*Decoration // aligned to the largest-first exploration order
}

// solveSlots fills the given socket capacities from pool, maximizing score
// over base plus decoration contributions. Only assignments whose effective
// levels reach every minimum in mins compete (nil mins accepts all); when
// no assignment qualifies the solution is nil. Sockets are explored largest
// first; per socket every fitting decoration is tried in pool order, then
// leaving it empty. States with equal totals at the same depth collapse to
// the first generated, so ties resolve to the earliest full assignment.
func solveSlots(capacities []int, pool []*Decoration, rel *SkillSet, base, mins []int, score Scorer) (*SlotSolution, error) {
	for _, c := range capacities {
		if c < 1 || c > maxSocketSize {
			return nil, invariantErrf("socket capacity %d outside 1..%d", c, maxSocketSize)
		}
	}

	// largest capacity first, remembering the caller's positions
	order := make([]int, len(capacities))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return capacities[order[i]] > capacities[order[j]]
	})

	// fitting pool entries per capacity, in pool order
	vecs := make([][]int, len(pool))
	for i, d := range pool {
		vecs[i] = rel.Vec(d.Skills)
	}
	var fits [maxSocketSize + 1][]int
	for c := 1; c <= maxSocketSize; c++ {
		for i, d := range pool {
			if d.Size <= c {
				fits[c] = append(fits[c], i)
			}
		}
	}

	start := solveState{totals: make([]int, len(base))}
	copy(start.totals, base)
	cur := []solveState{start}
	seen := make(map[string]struct{})

	for depth := 0; depth < len(order); depth++ {
		capa := capacities[order[depth]]
		next := make([]solveState, 0, len(cur)*(len(fits[capa])+1))
		clear(seen)
		for _, st := range cur {
			for _, pi := range fits[capa] {
				nt := make([]int, len(st.totals))
				copy(nt, st.totals)
				rel.AddVec(nt, vecs[pi])
				key := vecKey(nt)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				nd := make([]*Decoration, depth+1)
				copy(nd, st.decos)
				nd[depth] = pool[pi]
				next = append(next, solveState{totals: nt, decos: nd})
			}
			// empty socket last
			key := vecKey(st.totals)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				nd := make([]*Decoration, depth+1)
				copy(nd, st.decos)
				next = append(next, solveState{totals: st.totals, decos: nd})
			}
		}
		cur = next
	}

	best := -1
	bestScore := 0.0
	for i := range cur {
		if !rel.Meets(cur[i].totals, mins) {
			continue
		}
		s := score(cur[i].totals)
		if best < 0 || s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		if len(cur) == 0 {
			return nil, invariantErrf("slot solver produced no states")
		}
		return nil, nil // no assignment reaches the minimums
	}

	sol := &SlotSolution{
		Decos:  make([]*Decoration, len(capacities)),
		Totals: cur[best].totals,
		Score:  bestScore,
	}
	for depth, d := range cur[best].decos {
		sol.Decos[order[depth]] = d
	}
	return sol, nil
}

// vecKey packs a small non-negative vector into a map key. Levels never
// exceed extended limits, which fit a byte comfortably.
func vecKey(v []int) string {
	b := make([]byte, len(v))
	for i, x := range v {
		b[i] = byte(x)
	}
	return string(b)
}
