package main

// ── Vector partial order ────────────────────────────────────────────

// vecCover reports whether a is componentwise >= b and whether any
// component is strictly greater. Both vectors share the relevant layout.
func vecCover(a, b []int) (ge, strict bool) {
	for i := range a {
		if a[i] < b[i] {
			return false, false
		}
		if a[i] > b[i] {
			strict = true
		}
	}
	return true, strict
}

// socketCover reports whether socket capacities a (sorted descending) can
// host every decoration set that capacities b can. Shorter lists compare
// as if padded with zeros.
func socketCover(a, b []int) (ge, strict bool) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av < bv {
			return false, false
		}
		if av > bv {
			strict = true
		}
	}
	return true, strict
}

// ── Armour frontier ─────────────────────────────────────────────────

type domResult int

const (
	domNo domResult = iota
	domStrict
	domEqual
)

// armourDom reports whether a makes b redundant under the relevant skills:
// a must cover b's contribution vector and sockets, and must not drop a
// set bonus the request cares about. Equal means interchangeable.
func armourDom(a *ArmourPiece, av []int, b *ArmourPiece, bv []int, relBonus []bool) domResult {
	bRel := b.SetBonus >= 0 && relBonus[b.SetBonus]
	if bRel && a.SetBonus != b.SetBonus {
		return domNo
	}
	skillGE, skillStrict := vecCover(av, bv)
	if !skillGE {
		return domNo
	}
	sockGE, sockStrict := socketCover(a.Sockets, b.Sockets)
	if !sockGE {
		return domNo
	}
	if skillStrict || sockStrict {
		return domStrict
	}
	aRel := a.SetBonus >= 0 && relBonus[a.SetBonus]
	if aRel && !bRel {
		return domStrict
	}
	return domEqual
}

// PruneArmour returns the non-dominated frontier of pieces for one body
// slot. Exact ties collapse to the earliest catalog entry, so the result
// is deterministic and a second pass returns it unchanged.
func PruneArmour(pieces []*ArmourPiece, rel *SkillSet, relBonus []bool) []*ArmourPiece {
	vecs := make([][]int, len(pieces))
	for i, p := range pieces {
		vecs[i] = rel.Vec(p.Skills)
	}
	out := make([]*ArmourPiece, 0, len(pieces))
	for i, p := range pieces {
		dominated := false
		for j, q := range pieces {
			if i == j {
				continue
			}
			switch armourDom(q, vecs[j], p, vecs[i], relBonus) {
			case domStrict:
				dominated = true
			case domEqual:
				dominated = j < i
			}
			if dominated {
				break
			}
		}
		if !dominated {
			out = append(out, p)
		}
	}
	return out
}

// ── Charm and decoration filters ────────────────────────────────────

// FilterCharms keeps charms contributing at least one relevant level.
func FilterCharms(charms []*Charm, rel *SkillSet) []*Charm {
	out := make([]*Charm, 0, len(charms))
	for _, c := range charms {
		if contributes(c.Skills, rel) {
			out = append(out, c)
		}
	}
	return out
}

// PruneDecorations drops irrelevant decorations, then removes any that an
// equal-or-smaller decoration covers skill-for-skill. A smaller size with
// the same contribution counts as strictly better: it fits more sockets.
func PruneDecorations(decos []*Decoration, rel *SkillSet) []*Decoration {
	kept := make([]*Decoration, 0, len(decos))
	for _, d := range decos {
		if contributes(d.Skills, rel) {
			kept = append(kept, d)
		}
	}
	vecs := make([][]int, len(kept))
	for i, d := range kept {
		vecs[i] = rel.Vec(d.Skills)
	}
	out := make([]*Decoration, 0, len(kept))
	for i, d := range kept {
		dominated := false
		for j, e := range kept {
			if i == j || e.Size > d.Size {
				continue
			}
			ge, strict := vecCover(vecs[j], vecs[i])
			if !ge {
				continue
			}
			if strict || e.Size < d.Size {
				dominated = true
			} else if j < i {
				dominated = true
			}
			if dominated {
				break
			}
		}
		if !dominated {
			out = append(out, d)
		}
	}
	return out
}

func contributes(skills []SkillLevel, rel *SkillSet) bool {
	for _, sl := range skills {
		if rel.Pos(sl.Skill) >= 0 {
			return true
		}
	}
	return false
}
