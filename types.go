package main

import "sort"

// ── Enums ───────────────────────────────────────────────────────────

// WeaponClass identifies one of the fourteen weapon types. The bloat
// multiplier converts display attack to true raw.
type WeaponClass int

const (
	ClassNone WeaponClass = iota
	ClassGreatsword
	ClassLongsword
	ClassSwordAndShield
	ClassDualBlades
	ClassHammer
	ClassHuntingHorn
	ClassLance
	ClassGunlance
	ClassSwitchaxe
	ClassChargeBlade
	ClassInsectGlaive
	ClassBow
	ClassHeavyBowgun
	ClassLightBowgun
)

var classBloat = [...]float64{
	ClassNone:           1,
	ClassGreatsword:     4.8,
	ClassLongsword:      3.3,
	ClassSwordAndShield: 1.4,
	ClassDualBlades:     1.4,
	ClassHammer:         5.2,
	ClassHuntingHorn:    4.2,
	ClassLance:          2.3,
	ClassGunlance:       2.3,
	ClassSwitchaxe:      3.5,
	ClassChargeBlade:    3.6,
	ClassInsectGlaive:   3.1,
	ClassBow:            1.2,
	ClassHeavyBowgun:    1.5,
	ClassLightBowgun:    1.3,
}

var classNames = [...]string{
	ClassNone:           "",
	ClassGreatsword:     "greatsword",
	ClassLongsword:      "longsword",
	ClassSwordAndShield: "sword_and_shield",
	ClassDualBlades:     "dual_blades",
	ClassHammer:         "hammer",
	ClassHuntingHorn:    "hunting_horn",
	ClassLance:          "lance",
	ClassGunlance:       "gunlance",
	ClassSwitchaxe:      "switchaxe",
	ClassChargeBlade:    "charge_blade",
	ClassInsectGlaive:   "insect_glaive",
	ClassBow:            "bow",
	ClassHeavyBowgun:    "heavy_bowgun",
	ClassLightBowgun:    "light_bowgun",
}

// Bloat returns the class display-attack multiplier.
func (c WeaponClass) Bloat() float64 { return classBloat[c] }

func (c WeaponClass) String() string { return classNames[c] }

func parseWeaponClass(s string) WeaponClass {
	for c, name := range classNames {
		if name == s && name != "" {
			return WeaponClass(c)
		}
	}
	return ClassNone
}

// ArmourSlot is a body slot. Builds carry exactly one piece per slot.
type ArmourSlot int

const (
	SlotHead ArmourSlot = iota
	SlotChest
	SlotArms
	SlotWaist
	SlotLegs

	numArmourSlots = 5
)

var slotNames = [numArmourSlots]string{"head", "chest", "arms", "waist", "legs"}

func (s ArmourSlot) String() string { return slotNames[s] }

func parseArmourSlot(s string) (ArmourSlot, bool) {
	for i, name := range slotNames {
		if name == s {
			return ArmourSlot(i), true
		}
	}
	return 0, false
}

// Tier is the game progression tier an armour piece belongs to.
type Tier int

const (
	TierAny Tier = iota
	TierLowRank
	TierHighRank
	TierMasterRank
)

var tierNames = [...]string{TierAny: "", TierLowRank: "LR", TierHighRank: "HR", TierMasterRank: "MR"}

func (t Tier) String() string { return tierNames[t] }

func parseTier(s string) (Tier, bool) {
	if s == "" {
		return TierAny, true
	}
	for i, name := range tierNames {
		if name == s && name != "" {
			return Tier(i), true
		}
	}
	return TierAny, false
}

// UpgradeScheme selects the custom-upgrade ladder a weapon accepts.
// Schemes are a closed set; each maps to a policy in augments.go.
type UpgradeScheme int

const (
	UpgradeNone UpgradeScheme = iota
	UpgradeCommon
)

func parseUpgradeScheme(s string) (UpgradeScheme, bool) {
	switch s {
	case "", "none":
		return UpgradeNone, true
	case "common":
		return UpgradeCommon, true
	}
	return UpgradeNone, false
}

// ── Gear data model ─────────────────────────────────────────────────

// SkillID and SetBonusID index into Catalog.Skills and Catalog.SetBonuses.
type SkillID int

type SetBonusID int

const maxSocketSize = 4

// SkillDef is one skill as the catalog defines it. Limit is the natural
// level cap; ExtendedLimit is the cap while the Secret skill is active.
// States counts the skill's activity states (1 for stateless skills);
// higher states are stronger.
type SkillDef struct {
	Name          string
	Key           string // canonical scorer hook, "" for inert skills
	Limit         int
	ExtendedLimit int
	States        int
	Secret        SkillID // skill unlocking ExtendedLimit, -1 if none
}

// SkillLevel pairs a skill with a level. Gear contribution lists are
// sorted by skill ID with no duplicates.
type SkillLevel struct {
	Skill SkillID
	Level int
}

// BonusStage grants a skill at level 1 once the piece count is reached.
type BonusStage struct {
	Pieces int
	Skill  SkillID
}

// SetBonus is an armour set bonus with stages in ascending piece order.
type SetBonus struct {
	Name   string
	Stages []BonusStage
}

// Decoration is a jewel that fits any socket of at least its size.
type Decoration struct {
	Name   string
	Size   int
	Skills []SkillLevel
}

// ArmourPiece is one piece of armour. Sockets hold capacities sorted
// descending. SetBonus is -1 when the piece belongs to no bonus set.
type ArmourPiece struct {
	Name     string
	Set      string
	Slot     ArmourSlot
	Tier     Tier
	Defense  int
	Skills   []SkillLevel
	Sockets  []int
	SetBonus SetBonusID
}

// Charm is a charm. At most one is worn and it has no sockets.
type Charm struct {
	Name   string
	Skills []SkillLevel
}

// Weapon is one weapon entry. Attack is the bloated display value;
// Sharpness is the maximum bar in points per level, red through purple.
type Weapon struct {
	Name        string
	Class       WeaponClass
	Rarity      int
	Attack      int
	Affinity    int
	IsRaw       bool
	Sockets     []int
	Sharpness   [7]int
	Augmentable bool
	Upgrades    UpgradeScheme
}

// Catalog is the full gear database for a session, immutable once loaded.
type Catalog struct {
	Skills      []SkillDef
	SetBonuses  []SetBonus
	Decorations []Decoration
	Charms      []Charm
	Armour      []ArmourPiece
	Weapons     []Weapon

	skillByName map[string]SkillID
	bonusByName map[string]SetBonusID
}

// SkillByName resolves a skill name to its ID.
func (c *Catalog) SkillByName(name string) (SkillID, bool) {
	id, ok := c.skillByName[name]
	return id, ok
}

// WeaponByName returns the weapon with the given name, or nil.
func (c *Catalog) WeaponByName(name string) *Weapon {
	for i := range c.Weapons {
		if c.Weapons[i].Name == name {
			return &c.Weapons[i]
		}
	}
	return nil
}

// ── Relevant skill set ──────────────────────────────────────────────

// SkillSet fixes the skills a search is allowed to see and their order.
// Pruning, slot solving, and scoring all read totals vectors laid out in
// this order; skills outside the set contribute nothing anywhere.
type SkillSet struct {
	ids    []SkillID
	pos    []int // indexed by SkillID, -1 when not in the set
	limits []int // natural cap per position
	ext    []int // cap while the secret at secret[i] is active
	secret []int // position of the unlocking secret skill, -1 if none
}

func newSkillSet(cat *Catalog, ids []SkillID) *SkillSet {
	s := &SkillSet{
		ids:    ids,
		pos:    make([]int, len(cat.Skills)),
		limits: make([]int, len(ids)),
		ext:    make([]int, len(ids)),
		secret: make([]int, len(ids)),
	}
	for i := range s.pos {
		s.pos[i] = -1
	}
	for i, id := range ids {
		s.pos[id] = i
	}
	for i, id := range ids {
		def := &cat.Skills[id]
		s.limits[i] = def.Limit
		s.ext[i] = def.Limit
		s.secret[i] = -1
		if def.Secret >= 0 && s.pos[def.Secret] >= 0 {
			s.ext[i] = def.ExtendedLimit
			s.secret[i] = s.pos[def.Secret]
		}
	}
	return s
}

// Len returns the number of relevant skills.
func (s *SkillSet) Len() int { return len(s.ids) }

// ID returns the catalog skill at position i.
func (s *SkillSet) ID(i int) SkillID { return s.ids[i] }

// Pos returns the position of a skill in the set, or -1.
func (s *SkillSet) Pos(id SkillID) int { return s.pos[id] }

// Vec returns the relevant contribution vector of a gear skill list.
func (s *SkillSet) Vec(skills []SkillLevel) []int {
	v := make([]int, len(s.ids))
	for _, sl := range skills {
		if p := s.pos[sl.Skill]; p >= 0 {
			v[p] += sl.Level
		}
	}
	return v
}

// Add accumulates a gear skill list into totals, clipping each position
// at its extended cap so saturated states compare equal.
func (s *SkillSet) Add(totals []int, skills []SkillLevel) {
	for _, sl := range skills {
		if p := s.pos[sl.Skill]; p >= 0 {
			totals[p] += sl.Level
			if totals[p] > s.ext[p] {
				totals[p] = s.ext[p]
			}
		}
	}
}

// AddVec accumulates a relevant vector into totals with the same clipping.
func (s *SkillSet) AddVec(totals, vec []int) {
	for p, lv := range vec {
		if lv == 0 {
			continue
		}
		totals[p] += lv
		if totals[p] > s.ext[p] {
			totals[p] = s.ext[p]
		}
	}
}

// Level returns the effective level at position i: clipped at the natural
// limit unless the unlocking secret skill is present in totals.
func (s *SkillSet) Level(totals []int, i int) int {
	if i < 0 {
		return 0
	}
	lv := totals[i]
	limit := s.limits[i]
	if sec := s.secret[i]; sec >= 0 && totals[sec] > 0 {
		limit = s.ext[i]
	}
	if lv > limit {
		lv = limit
	}
	return lv
}

// Meets reports whether the effective levels reach every required minimum.
// A nil mins list accepts any totals.
func (s *SkillSet) Meets(totals, mins []int) bool {
	for i, m := range mins {
		if m > 0 && s.Level(totals, i) < m {
			return false
		}
	}
	return true
}

// sortSkillLevels orders a contribution list by skill ID.
func sortSkillLevels(skills []SkillLevel) {
	sort.Slice(skills, func(i, j int) bool { return skills[i].Skill < skills[j].Skill })
}
