package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"
)

// ── Results ─────────────────────────────────────────────────────────

// BuildResult is one complete build. Sockets pools every capacity of the
// build (weapon first, then head through legs); Decos aligns with it, nil
// meaning the socket stayed empty. Totals holds the effective levels of
// the relevant skills, omitting zeros.
type BuildResult struct {
	Score    float64
	Combo    WeaponCombo
	Pieces   [numArmourSlots]*ArmourPiece
	Charm    *Charm // nil when no charm helps the request
	Sockets  []int
	Decos    []*Decoration
	Totals   []SkillLevel
	Affinity int
	SharpLv  int
	Defense  int

	key string // dedup fingerprint: score bits and totals
}

// SearchResult is the outcome of one Optimize call.
type SearchResult struct {
	Builds  []BuildResult
	Combos  int64 // gear combinations evaluated
	Partial bool  // true when the timeout cut enumeration short
	Elapsed time.Duration
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer owns one search: the resolved request, the relevant skill
// set, and the candidate pools. NewOptimizer filters, Prune shrinks,
// Optimize enumerates.
type Optimizer struct {
	cat *Catalog
	req *SearchRequest
	cfg Config

	rel      *SkillSet
	relBonus []bool // per SetBonusID: grants a relevant skill
	mins     []int  // required minimum per relevant position

	combos []WeaponCombo
	armour [numArmourSlots][]*ArmourPiece
	charms []*Charm
	decos  []*Decoration
}

// NewOptimizer resolves the request against the catalog, applies the
// class, tier, and exclusion filters, and verifies that every required
// minimum is reachable at all. Request knobs override the config.
func NewOptimizer(cat *Catalog, req *SearchRequest, cfg Config) (*Optimizer, error) {
	if req.TopK > 0 {
		cfg.TopK = req.TopK
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if req.Timeout > 0 {
		cfg.Timeout = req.Timeout
	}
	if cfg.TopK < 1 {
		cfg.TopK = 1
	}
	if cfg.CheckEvery < 1 {
		cfg.CheckEvery = 1
	}

	o := &Optimizer{cat: cat, req: req, cfg: cfg}

	ids := make([]SkillID, len(req.Targets))
	for i, t := range req.Targets {
		ids[i] = t.Skill
	}
	o.rel = newSkillSet(cat, ids)
	o.mins = make([]int, len(ids))
	for i, t := range req.Targets {
		o.mins[i] = t.Min
	}
	for _, id := range req.BonusSkills {
		p := o.rel.Pos(id)
		if o.mins[p] < 1 {
			o.mins[p] = 1
		}
	}
	o.relBonus = make([]bool, len(cat.SetBonuses))
	for bi := range cat.SetBonuses {
		for _, st := range cat.SetBonuses[bi].Stages {
			if o.rel.Pos(st.Skill) >= 0 {
				o.relBonus[bi] = true
			}
		}
	}

	var weapons []*Weapon
	for i := range cat.Weapons {
		w := &cat.Weapons[i]
		if req.Class != ClassNone && w.Class != req.Class {
			continue
		}
		if req.Weapon != "" && w.Name != req.Weapon {
			continue
		}
		if req.ExcludeWeapons[w.Name] {
			continue
		}
		weapons = append(weapons, w)
	}
	if len(weapons) == 0 {
		return nil, constraintErrf("no weapons left after class and exclusion filters")
	}
	o.combos = expandWeaponCombos(weapons, req.MinRegen)
	if len(o.combos) == 0 {
		return nil, constraintErrf("no weapon configuration reaches health regen %d", req.MinRegen)
	}

	for i := range cat.Armour {
		p := &cat.Armour[i]
		if req.Tier != TierAny && p.Tier != req.Tier {
			continue
		}
		if req.ExcludeArmour[p.Name] {
			continue
		}
		o.armour[p.Slot] = append(o.armour[p.Slot], p)
	}
	for s := range o.armour {
		if len(o.armour[s]) == 0 {
			return nil, constraintErrf("no %s armour left after tier and exclusion filters", ArmourSlot(s))
		}
	}

	o.charms = make([]*Charm, 0, len(cat.Charms))
	for i := range cat.Charms {
		if !req.ExcludeArmour[cat.Charms[i].Name] {
			o.charms = append(o.charms, &cat.Charms[i])
		}
	}
	o.decos = make([]*Decoration, 0, len(cat.Decorations))
	for i := range cat.Decorations {
		o.decos = append(o.decos, &cat.Decorations[i])
	}

	if err := o.checkCeilings(); err != nil {
		return nil, err
	}
	fmt.Fprintf(logw(), "[init] relevant=%d combos=%d charms=%d decos=%d\n",
		o.rel.Len(), len(o.combos), len(o.charms), len(o.decos))
	return o, nil
}

// checkCeilings sums the most optimistic contribution each category could
// make per relevant skill. A required minimum above its ceiling cannot be
// met by any build, so the search refuses to start.
func (o *Optimizer) checkCeilings() error {
	n := o.rel.Len()
	ceil := make([]int, n)
	best := make([]int, n)

	for s := range o.armour {
		for i := range best {
			best[i] = 0
		}
		for _, p := range o.armour[s] {
			maxInto(best, o.rel.Vec(p.Skills))
		}
		for i := range ceil {
			ceil[i] += best[i]
		}
	}

	for i := range best {
		best[i] = 0
	}
	for _, c := range o.charms {
		maxInto(best, o.rel.Vec(c.Skills))
	}
	for i := range ceil {
		ceil[i] += best[i]
	}

	sockets := 0
	for i := range o.combos {
		if n := len(o.combos[i].Sockets); n > sockets {
			sockets = n
		}
	}
	for s := range o.armour {
		most := 0
		for _, p := range o.armour[s] {
			if len(p.Sockets) > most {
				most = len(p.Sockets)
			}
		}
		sockets += most
	}
	for i := range best {
		best[i] = 0
	}
	for _, d := range o.decos {
		maxInto(best, o.rel.Vec(d.Skills))
	}
	for i := range ceil {
		ceil[i] += sockets * best[i]
	}

	for bi := range o.cat.SetBonuses {
		for _, st := range o.cat.SetBonuses[bi].Stages {
			if p := o.rel.Pos(st.Skill); p >= 0 {
				ceil[p]++
			}
		}
	}

	for i, m := range o.mins {
		if m == 0 {
			continue
		}
		c := ceil[i]
		if c > o.rel.ext[i] {
			c = o.rel.ext[i]
		}
		if c < m {
			return constraintErrf("skill %q cannot reach level %d (ceiling %d)",
				o.cat.Skills[o.rel.ID(i)].Name, m, c)
		}
	}
	return nil
}

func maxInto(dst, v []int) {
	for i := range dst {
		if v[i] > dst[i] {
			dst[i] = v[i]
		}
	}
}

// ── Pruning ─────────────────────────────────────────────────────────

// Prune shrinks every candidate pool to its non-dominated frontier. The
// search result is unchanged; only the enumeration gets smaller. With
// cfg.NoPrune the pools stay raw.
func (o *Optimizer) Prune() {
	if o.cfg.NoPrune {
		fmt.Fprintf(logw(), "[prune] disabled\n")
		return
	}
	nc := len(o.combos)
	o.combos = PruneWeaponCombos(o.combos)
	fmt.Fprintf(logw(), "[prune] weapon combos %d -> %d\n", nc, len(o.combos))
	for s := range o.armour {
		np := len(o.armour[s])
		o.armour[s] = PruneArmour(o.armour[s], o.rel, o.relBonus)
		fmt.Fprintf(logw(), "[prune] %s %d -> %d\n", ArmourSlot(s), np, len(o.armour[s]))
	}
	nch := len(o.charms)
	o.charms = FilterCharms(o.charms, o.rel)
	nd := len(o.decos)
	o.decos = PruneDecorations(o.decos, o.rel)
	fmt.Fprintf(logw(), "[prune] charms %d -> %d, decorations %d -> %d\n", nch, len(o.charms), nd, len(o.decos))
}

// ── Partitioning ────────────────────────────────────────────────────

// splitRange divides n items into parts contiguous, near-equal spans.
// Since every weapon combination carries the same number of inner gear
// combinations, equal spans mean equal work.
func splitRange(n, parts int) [][2]int {
	if parts > n {
		parts = n
	}
	out := make([][2]int, 0, parts)
	lo := 0
	for i := 0; i < parts; i++ {
		hi := lo + (n-lo)/(parts-i)
		out = append(out, [2]int{lo, hi})
		lo = hi
	}
	return out
}

// ── Main entry point ────────────────────────────────────────────────

// Optimize enumerates every weapon combination against the armour, charm,
// and decoration pools in parallel and returns the top builds. When the
// configured timeout expires the builds found so far come back with
// Partial set. A worker hitting an invariant violation aborts the run.
func (o *Optimizer) Optimize(ctx context.Context) (*SearchResult, error) {
	start := time.Now()

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}
	ctx, abort := context.WithCancel(ctx)
	defer abort()

	workers := o.cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	parts := splitRange(len(o.combos), workers)
	fmt.Fprintf(logw(), "[search] combos=%d workers=%d topk=%d\n", len(o.combos), len(parts), o.cfg.TopK)

	resultCh := make(chan partResult, len(parts))
	var wg sync.WaitGroup
	for pi := range parts {
		wg.Add(1)
		go func(pi int, span [2]int) {
			defer wg.Done()
			res := o.searchPartition(ctx, pi, span[0], span[1])
			if res.err != nil {
				abort()
			}
			resultCh <- res
		}(pi, parts[pi])
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]partResult, len(parts))
	for r := range resultCh {
		if Verbose {
			fmt.Fprintf(logw(), "[verbose] partition #%d done: combos=%d builds=%d partial=%v\n",
				r.part, r.combos, len(r.builds), r.partial)
		}
		results[r.part] = r
	}

	// merge in partition order so tie-breaking never depends on scheduling
	acc := newTopK(o.cfg.TopK)
	out := &SearchResult{}
	for i := range results {
		r := &results[i]
		if r.err != nil {
			return nil, r.err
		}
		out.Combos += r.combos
		out.Partial = out.Partial || r.partial
		for j := range r.builds {
			b := &r.builds[j]
			acc.offer(b.Score, b.key, func() BuildResult { return *b })
		}
	}
	out.Builds = acc.builds
	out.Elapsed = time.Since(start)

	if len(out.Builds) == 0 {
		if out.Partial {
			fmt.Fprintf(logw(), "[done] no builds before timeout, elapsed=%v\n", out.Elapsed)
			return out, nil
		}
		return nil, constraintErrf("no combination meets the required skill minimums")
	}
	fmt.Fprintf(logw(), "[done] best=%.2f combos=%d partial=%v elapsed=%v\n",
		out.Builds[0].Score, out.Combos, out.Partial, out.Elapsed)
	return out, nil
}

// ── Per-partition enumeration ───────────────────────────────────────

type partResult struct {
	part    int
	builds  []BuildResult
	combos  int64
	partial bool
	err     error
}

func (o *Optimizer) searchPartition(ctx context.Context, part, lo, hi int) partResult {
	res := partResult{part: part}
	acc := newTopK(o.cfg.TopK)

	charms := o.charms
	if len(charms) == 0 {
		charms = []*Charm{nil} // charm slot stays empty
	}

	n := o.rel.Len()
	gearTotals := make([]int, n)
	totals := make([]int, n)
	bonusCount := make([]int, len(o.cat.SetBonuses))
	sockets := make([]int, 0, 16)
	sinceCheck := 0

	for wi := lo; wi < hi; wi++ {
		combo := &o.combos[wi]
		model := newEFRModel(o.cat, combo, o.rel, o.req.States)
		scorer := model.scorer()

		for _, head := range o.armour[SlotHead] {
			for _, chest := range o.armour[SlotChest] {
				for _, arms := range o.armour[SlotArms] {
					for _, waist := range o.armour[SlotWaist] {
						for _, legs := range o.armour[SlotLegs] {
							pieces := [numArmourSlots]*ArmourPiece{head, chest, arms, waist, legs}

							for i := range gearTotals {
								gearTotals[i] = 0
							}
							for i := range bonusCount {
								bonusCount[i] = 0
							}
							sockets = append(sockets[:0], combo.Sockets...)
							for _, p := range pieces {
								o.rel.Add(gearTotals, p.Skills)
								sockets = append(sockets, p.Sockets...)
								if p.SetBonus >= 0 {
									bonusCount[p.SetBonus]++
								}
							}
							for bi, cnt := range bonusCount {
								if cnt == 0 {
									continue
								}
								for _, st := range o.cat.SetBonuses[bi].Stages {
									if cnt < st.Pieces {
										break // stages ascend
									}
									if p := o.rel.Pos(st.Skill); p >= 0 {
										gearTotals[p]++
										if gearTotals[p] > o.rel.ext[p] {
											gearTotals[p] = o.rel.ext[p]
										}
									}
								}
							}

							for _, charm := range charms {
								res.combos++
								sinceCheck++
								if sinceCheck >= o.cfg.CheckEvery {
									sinceCheck = 0
									if ctx.Err() != nil {
										res.partial = true
										res.builds = acc.builds
										return res
									}
								}

								copy(totals, gearTotals)
								if charm != nil {
									o.rel.Add(totals, charm.Skills)
								}

								sol, err := solveSlots(sockets, o.decos, o.rel, totals, o.mins, scorer)
								if err != nil {
									if inv, ok := err.(*InvariantError); ok {
										inv.Partition = part
										inv.Combo = res.combos
									}
									res.err = err
									return res
								}
								if sol == nil {
									continue // no assignment reaches the minimums
								}
								key := buildKey(sol.Score, sol.Totals)
								acc.offer(sol.Score, key, func() BuildResult {
									return o.makeBuild(combo, pieces, charm, sockets, sol, model, key)
								})
							}
						}
					}
				}
			}
		}
	}
	res.builds = acc.builds
	return res
}

// makeBuild materializes an accepted build. Only called for builds that
// enter the running top-K, so it may allocate freely.
func (o *Optimizer) makeBuild(combo *WeaponCombo, pieces [numArmourSlots]*ArmourPiece, charm *Charm,
	sockets []int, sol *SlotSolution, model *efrModel, key string) BuildResult {

	b := BuildResult{
		Score:  sol.Score,
		Combo:  *combo,
		Pieces: pieces,
		Charm:  charm,
		Decos:  sol.Decos,
		key:    key,
	}
	b.Sockets = make([]int, len(sockets))
	copy(b.Sockets, sockets)
	_, b.Affinity, b.SharpLv = model.eval(sol.Totals)
	for i := 0; i < o.rel.Len(); i++ {
		if lv := o.rel.Level(sol.Totals, i); lv > 0 {
			b.Totals = append(b.Totals, SkillLevel{Skill: o.rel.ID(i), Level: lv})
		}
	}
	for _, p := range pieces {
		b.Defense += p.Defense
	}
	return b
}

// ── Top-K accumulation ──────────────────────────────────────────────

type topkAcc struct {
	k      int
	builds []BuildResult // sorted by score descending, ties in arrival order
	keys   map[string]bool
}

func newTopK(k int) *topkAcc {
	return &topkAcc{k: k, keys: make(map[string]bool, k+1)}
}

func buildKey(score float64, totals []int) string {
	return fmt.Sprintf("%016x|%s", math.Float64bits(score), vecKey(totals))
}

// offer inserts a build when its score makes the cut and no identical
// build is already held. mk runs only on acceptance.
func (a *topkAcc) offer(score float64, key string, mk func() BuildResult) {
	if len(a.builds) >= a.k && score <= a.builds[len(a.builds)-1].Score {
		return
	}
	if a.keys[key] {
		return
	}
	pos := sort.Search(len(a.builds), func(i int) bool { return a.builds[i].Score < score })
	a.builds = append(a.builds, BuildResult{})
	copy(a.builds[pos+1:], a.builds[pos:])
	a.builds[pos] = mk()
	a.keys[key] = true
	if len(a.builds) > a.k {
		delete(a.keys, a.builds[a.k].key)
		a.builds = a.builds[:a.k]
	}
}

func logw() *os.File { return os.Stderr }
