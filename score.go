package main

import "math"

// Scorer maps a relevant-skill totals vector to a scalar score. Scorers
// are pure functions of the totals; the coordinator binds one per weapon
// combination.
type Scorer func(totals []int) float64

// toFixed(2) for stable presentation of scores.
func toFixed2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ── Damage model constants ──────────────────────────────────────────

// Sharpness modifiers indexed red through purple.
var rawSharpnessModifiers = [7]float64{0.5, 0.75, 1.0, 1.05, 1.2, 1.32, 1.39}

var sharpnessNames = [7]string{"red", "orange", "yellow", "green", "blue", "white", "purple"}

const (
	rawBlunderMultiplier         = 0.75
	nonElementalBoostMultiplier  = 1.05
	powercharmAttack             = 6
	powertalonAttack             = 9
	handicraftMaxLevel           = 5
	sharpnessPointsPerHandicraft = 10
)

// Per-level contributions, indexed by effective skill level.
var (
	attackBoostAttack     = []int{0, 3, 6, 9, 12, 15, 18, 21}
	attackBoostAffinity   = []int{0, 0, 0, 0, 5, 5, 5, 5}
	criticalEyeAffinity   = []int{0, 5, 10, 15, 20, 25, 30, 40}
	criticalBoostModifier = []float64{1.25, 1.30, 1.35, 1.40}
	wexWeakpointAffinity  = []int{0, 10, 15, 30}
	wexWoundedAffinity    = []int{0, 5, 15, 20}
	agitatorAttack        = []int{0, 4, 8, 12, 16, 20, 24, 28}
	agitatorAffinity      = []int{0, 5, 5, 7, 7, 10, 15, 20}
	peakPerformanceAttack = []int{0, 5, 10, 20}
)

// Canonical scorer keys. Catalog skills with other keys are inert for
// scoring but still count toward constraints and set bonuses.
const (
	keyAttackBoost       = "attack_boost"
	keyCriticalEye       = "critical_eye"
	keyCriticalBoost     = "critical_boost"
	keyWeaknessExploit   = "weakness_exploit"
	keyAgitator          = "agitator"
	keyPeakPerformance   = "peak_performance"
	keyNonElementalBoost = "non_elemental_boost"
	keyHandicraft        = "handicraft"
)

// scorerLevelCap returns the highest level the damage model can represent
// for a canonical key. The catalog loader enforces these bounds.
func scorerLevelCap(key string) (int, bool) {
	switch key {
	case keyAttackBoost:
		return len(attackBoostAttack) - 1, true
	case keyCriticalEye:
		return len(criticalEyeAffinity) - 1, true
	case keyCriticalBoost:
		return len(criticalBoostModifier) - 1, true
	case keyWeaknessExploit:
		return len(wexWeakpointAffinity) - 1, true
	case keyAgitator:
		return len(agitatorAttack) - 1, true
	case keyPeakPerformance:
		return len(peakPerformanceAttack) - 1, true
	case keyNonElementalBoost:
		return 1, true
	case keyHandicraft:
		return handicraftMaxLevel, true
	}
	return 0, false
}

// ── Sharpness ───────────────────────────────────────────────────────

// sharpnessLevel returns the highest usable level of a maximum sharpness
// bar after the handicraft deficit eats into it from the top. Every
// handicraft level below the maximum costs ten points.
func sharpnessLevel(bar [7]int, handicraft int) int {
	if handicraft > handicraftMaxLevel {
		handicraft = handicraftMaxLevel
	}
	deficit := (handicraftMaxLevel - handicraft) * sharpnessPointsPerHandicraft
	for lv := len(bar) - 1; lv > 0; lv-- {
		if bar[lv] > deficit {
			return lv
		}
		deficit -= bar[lv]
	}
	return 0
}

// ── EFR model ───────────────────────────────────────────────────────

// efrModel is the effective-raw scorer bound to one weapon combination.
// Skill positions are resolved once; -1 means the skill is not relevant
// and contributes nothing.
type efrModel struct {
	rel          *SkillSet
	baseRaw      float64 // true raw including augment and upgrade attack
	baseAffinity int
	isRaw        bool
	sharpness    [7]int

	iAttack, iCritEye, iCritBoost int
	iWex, iAgitator, iPeak        int
	iNEB, iHandicraft             int
	wexState, agiState, peakState int
}

func newEFRModel(cat *Catalog, combo *WeaponCombo, rel *SkillSet, states map[SkillID]int) *efrModel {
	w := combo.Weapon
	return &efrModel{
		rel:          rel,
		baseRaw:      combo.TrueRaw,
		baseAffinity: combo.Affinity,
		isRaw:        w.IsRaw,
		sharpness:    w.Sharpness,
		iAttack:      relPosForKey(cat, rel, keyAttackBoost),
		iCritEye:     relPosForKey(cat, rel, keyCriticalEye),
		iCritBoost:   relPosForKey(cat, rel, keyCriticalBoost),
		iWex:         relPosForKey(cat, rel, keyWeaknessExploit),
		iAgitator:    relPosForKey(cat, rel, keyAgitator),
		iPeak:        relPosForKey(cat, rel, keyPeakPerformance),
		iNEB:         relPosForKey(cat, rel, keyNonElementalBoost),
		iHandicraft:  relPosForKey(cat, rel, keyHandicraft),
		wexState:     skillState(cat, states, keyWeaknessExploit),
		agiState:     skillState(cat, states, keyAgitator),
		peakState:    skillState(cat, states, keyPeakPerformance),
	}
}

func (m *efrModel) scorer() Scorer {
	return func(totals []int) float64 {
		efr, _, _ := m.eval(totals)
		return efr
	}
}

// eval computes effective raw for one totals vector, along with the capped
// affinity and the sharpness level actually used.
func (m *efrModel) eval(totals []int) (efr float64, affinity int, sharpLv int) {
	addedRaw := powercharmAttack + powertalonAttack
	addedAff := 0
	rawMult := 1.0
	critMult := criticalBoostModifier[m.rel.Level(totals, m.iCritBoost)]

	lv := m.rel.Level(totals, m.iAttack)
	addedRaw += attackBoostAttack[lv]
	addedAff += attackBoostAffinity[lv]

	addedAff += criticalEyeAffinity[m.rel.Level(totals, m.iCritEye)]

	if m.wexState >= 1 {
		lv = m.rel.Level(totals, m.iWex)
		addedAff += wexWeakpointAffinity[lv]
		if m.wexState >= 2 {
			addedAff += wexWoundedAffinity[lv]
		}
	}
	if m.agiState >= 1 {
		lv = m.rel.Level(totals, m.iAgitator)
		addedRaw += agitatorAttack[lv]
		addedAff += agitatorAffinity[lv]
	}
	if m.peakState >= 1 {
		addedRaw += peakPerformanceAttack[m.rel.Level(totals, m.iPeak)]
	}
	if m.isRaw && m.rel.Level(totals, m.iNEB) >= 1 {
		rawMult = nonElementalBoostMultiplier
	}

	trueRaw := math.Round(m.baseRaw*rawMult) + float64(addedRaw)

	affinity = m.baseAffinity + addedAff
	if affinity > 100 {
		affinity = 100
	}
	critChance := float64(affinity) / 100
	var critMod float64
	if critChance < 0 {
		blunder := -critChance
		critMod = rawBlunderMultiplier*blunder + (1 - blunder)
	} else {
		critMod = critMult*critChance + (1 - critChance)
	}

	sharpLv = sharpnessLevel(m.sharpness, m.rel.Level(totals, m.iHandicraft))
	efr = trueRaw * rawSharpnessModifiers[sharpLv] * critMod
	return efr, affinity, sharpLv
}

// relPosForKey resolves a canonical key to its relevant position, -1 when
// the catalog lacks the skill or the request left it out.
func relPosForKey(cat *Catalog, rel *SkillSet, key string) int {
	for id := range cat.Skills {
		if cat.Skills[id].Key == key {
			return rel.Pos(SkillID(id))
		}
	}
	return -1
}

// skillState resolves the active state of a stateful skill: the request
// override if present, otherwise the strongest state.
func skillState(cat *Catalog, states map[SkillID]int, key string) int {
	for id := range cat.Skills {
		if cat.Skills[id].Key == key {
			if st, ok := states[SkillID(id)]; ok {
				return st
			}
			return cat.Skills[id].States - 1
		}
	}
	return 0
}
