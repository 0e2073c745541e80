package main

import "sort"

// ── Iceborne weapon augments ────────────────────────────────────────

// AugmentConfig is one valid augment selection. Attack is added true raw;
// Affinity is added percent; SlotSize is the extra socket size, 0 for none.
type AugmentConfig struct {
	AttackLv   int
	AffinityLv int
	SlotLv     int
	RegenLv    int
	Attack     int
	Affinity   int
}

// augmentCapacity is the augment budget at the maximum augment slot level,
// by rarity. Only master rank weapons take augments.
var augmentCapacity = map[int]int{10: 10, 11: 8, 12: 6}

// Cumulative budget consumption and added value per augment level 0..4.
var (
	augAttackCost    = [5]int{0, 3, 5, 7, 9}
	augAffinityCost  = [5]int{0, 2, 4, 6, 8}
	augSlotCost      = [5]int{0, 3, 6, 7, 8}
	augRegenCost     = [5]int{0, 3, 5, 7, 9}
	augAttackValue   = [5]int{0, 5, 10, 15, 20}
	augAffinityValue = [5]int{0, 10, 15, 20, 25}
)

const augMaxLevel = 4

// augmentConfigs enumerates every augment selection that fits the weapon's
// budget, with health regen pinned at minRegen. Unaugmentable weapons get
// the single empty config, or none at all if regen is required.
func augmentConfigs(w *Weapon, minRegen int) []AugmentConfig {
	if !w.Augmentable {
		if minRegen > 0 {
			return nil
		}
		return []AugmentConfig{{}}
	}
	budget := augmentCapacity[w.Rarity] - augRegenCost[minRegen]
	var out []AugmentConfig
	for atk := 0; atk <= augMaxLevel; atk++ {
		for aff := 0; aff <= augMaxLevel; aff++ {
			for slot := 0; slot <= augMaxLevel; slot++ {
				if augAttackCost[atk]+augAffinityCost[aff]+augSlotCost[slot] > budget {
					continue
				}
				out = append(out, AugmentConfig{
					AttackLv:   atk,
					AffinityLv: aff,
					SlotLv:     slot,
					RegenLv:    minRegen,
					Attack:     augAttackValue[atk],
					Affinity:   augAffinityValue[aff],
				})
			}
		}
	}
	return out
}

// ── Custom upgrades ─────────────────────────────────────────────────

// UpgradeConfig is one fully-applied custom upgrade ladder.
type UpgradeConfig struct {
	Label    string
	Attack   int // added true raw
	Affinity int // added percent
}

// Six upgrade slots; every slot takes attack (+1 raw) and the first five
// also take affinity (+1%). Only the maximized ladders are worth listing.
var commonUpgradeLadders = []UpgradeConfig{
	{Label: "attack VI", Attack: 6},
	{Label: "affinity I / attack V", Attack: 5, Affinity: 1},
	{Label: "affinity II / attack IV", Attack: 4, Affinity: 2},
	{Label: "affinity III / attack III", Attack: 3, Affinity: 3},
	{Label: "affinity IV / attack II", Attack: 2, Affinity: 4},
	{Label: "affinity V / attack I", Attack: 1, Affinity: 5},
}

// upgradeConfigs returns the ladder choices for a scheme. Schemes are a
// closed set; a new scheme means a new policy here.
func upgradeConfigs(scheme UpgradeScheme) []UpgradeConfig {
	switch scheme {
	case UpgradeCommon:
		return commonUpgradeLadders
	default:
		return []UpgradeConfig{{}}
	}
}

// ── Weapon combinations ─────────────────────────────────────────────

// WeaponCombo is one weapon with a chosen augment and upgrade configuration:
// the outer axis of the search. Sockets include the augment socket and stay
// sorted descending.
type WeaponCombo struct {
	Weapon   *Weapon
	Aug      AugmentConfig
	Upg      UpgradeConfig
	TrueRaw  float64
	Affinity int
	Sockets  []int
}

// expandWeaponCombos generates the augment and upgrade cross product for
// each weapon. The result preserves weapon order, then augment order, then
// upgrade order.
func expandWeaponCombos(weapons []*Weapon, minRegen int) []WeaponCombo {
	var out []WeaponCombo
	for _, w := range weapons {
		base := float64(w.Attack) / w.Class.Bloat()
		for _, aug := range augmentConfigs(w, minRegen) {
			for _, upg := range upgradeConfigs(w.Upgrades) {
				combo := WeaponCombo{
					Weapon:   w,
					Aug:      aug,
					Upg:      upg,
					TrueRaw:  base + float64(aug.Attack) + float64(upg.Attack),
					Affinity: w.Affinity + aug.Affinity + upg.Affinity,
				}
				combo.Sockets = make([]int, 0, len(w.Sockets)+1)
				combo.Sockets = append(combo.Sockets, w.Sockets...)
				if aug.SlotLv > 0 {
					combo.Sockets = append(combo.Sockets, aug.SlotLv)
				}
				sort.Sort(sort.Reverse(sort.IntSlice(combo.Sockets)))
				out = append(out, combo)
			}
		}
	}
	return out
}

// comboDom reports whether combo a makes combo b redundant. Only combos of
// the same class and raw status compare; a must be at least as good in true
// raw, affinity, sockets, and every sharpness level. Equal combos collapse
// to the earlier one.
func comboDom(a, b *WeaponCombo) domResult {
	if a.Weapon.Class != b.Weapon.Class || a.Weapon.IsRaw != b.Weapon.IsRaw {
		return domNo
	}
	if a.TrueRaw < b.TrueRaw || a.Affinity < b.Affinity {
		return domNo
	}
	sockGE, sockStrict := socketCover(a.Sockets, b.Sockets)
	if !sockGE {
		return domNo
	}
	sharpStrict := false
	for lv := range a.Weapon.Sharpness {
		s1, s2 := a.Weapon.Sharpness[lv], b.Weapon.Sharpness[lv]
		if s1 < s2 {
			return domNo
		}
		if s1 > s2 {
			sharpStrict = true
		}
	}
	if a.TrueRaw > b.TrueRaw || a.Affinity > b.Affinity || sockStrict || sharpStrict {
		return domStrict
	}
	return domEqual
}

// PruneWeaponCombos removes dominated combinations, keeping input order.
func PruneWeaponCombos(combos []WeaponCombo) []WeaponCombo {
	out := make([]WeaponCombo, 0, len(combos))
	for i := range combos {
		dominated := false
		for j := range combos {
			if i == j {
				continue
			}
			switch comboDom(&combos[j], &combos[i]) {
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
			out = append(out, combos[i])
		}
	}
	return out
}
