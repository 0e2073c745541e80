package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/gjson"
)

// ── Catalog loading ─────────────────────────────────────────────────

// LoadCatalog reads and validates a gear catalog file. Any defect in the
// data surfaces as a CatalogError before a search can start.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogError{Msg: fmt.Sprintf("read %s", path), Err: err}
	}
	return catalogFromJSON(string(raw))
}

func catalogFromJSON(data string) (*Catalog, error) {
	if !gjson.Valid(data) {
		return nil, catalogErrf("not valid JSON")
	}
	root := gjson.Parse(data)
	cat := &Catalog{
		skillByName: make(map[string]SkillID),
		bonusByName: make(map[string]SetBonusID),
	}
	if err := parseSkills(cat, root.Get("skills")); err != nil {
		return nil, err
	}
	if err := parseSetBonuses(cat, root.Get("setBonuses")); err != nil {
		return nil, err
	}
	if err := parseDecorations(cat, root.Get("decorations")); err != nil {
		return nil, err
	}
	if err := parseCharms(cat, root.Get("charms")); err != nil {
		return nil, err
	}
	if err := parseArmour(cat, root.Get("armour")); err != nil {
		return nil, err
	}
	if err := parseWeapons(cat, root.Get("weapons")); err != nil {
		return nil, err
	}
	if Verbose {
		fmt.Fprintf(logw(), "[catalog] skills=%d bonuses=%d decos=%d charms=%d armour=%d weapons=%d\n",
			len(cat.Skills), len(cat.SetBonuses), len(cat.Decorations), len(cat.Charms), len(cat.Armour), len(cat.Weapons))
	}
	return cat, nil
}

// ── Per-category parsers ────────────────────────────────────────────

func parseSkills(cat *Catalog, arr gjson.Result) error {
	type secretRef struct {
		skill SkillID
		name  string
	}
	var pending []secretRef
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" {
			err = catalogErrf("skill with empty name")
			return false
		}
		if _, dup := cat.skillByName[name]; dup {
			err = catalogErrf("duplicate skill %q", name)
			return false
		}
		def := SkillDef{
			Name:          name,
			Key:           v.Get("key").String(),
			Limit:         int(v.Get("limit").Int()),
			ExtendedLimit: int(v.Get("extendedLimit").Int()),
			States:        int(v.Get("states").Int()),
			Secret:        -1,
		}
		if def.Limit < 1 {
			err = catalogErrf("skill %q: limit must be at least 1", name)
			return false
		}
		if def.ExtendedLimit == 0 {
			def.ExtendedLimit = def.Limit
		}
		if def.ExtendedLimit < def.Limit {
			err = catalogErrf("skill %q: extended limit %d below limit %d", name, def.ExtendedLimit, def.Limit)
			return false
		}
		if def.States == 0 {
			def.States = 1
		}
		if def.States < 1 {
			err = catalogErrf("skill %q: states must be at least 1", name)
			return false
		}
		if def.Key != "" {
			capLv, known := scorerLevelCap(def.Key)
			if !known {
				err = catalogErrf("skill %q: unknown key %q", name, def.Key)
				return false
			}
			if def.ExtendedLimit > capLv {
				err = catalogErrf("skill %q: extended limit %d exceeds the damage model cap %d", name, def.ExtendedLimit, capLv)
				return false
			}
		}
		if s := v.Get("secret"); s.Exists() {
			pending = append(pending, secretRef{skill: SkillID(len(cat.Skills)), name: s.String()})
		}
		cat.skillByName[name] = SkillID(len(cat.Skills))
		cat.Skills = append(cat.Skills, def)
		return true
	})
	if err != nil {
		return err
	}
	if len(cat.Skills) == 0 {
		return catalogErrf("no skills defined")
	}
	for _, ref := range pending {
		id, ok := cat.skillByName[ref.name]
		if !ok {
			return catalogErrf("skill %q: unknown secret skill %q", cat.Skills[ref.skill].Name, ref.name)
		}
		cat.Skills[ref.skill].Secret = id
	}
	return nil
}

func parseSetBonuses(cat *Catalog, arr gjson.Result) error {
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" {
			err = catalogErrf("set bonus with empty name")
			return false
		}
		if _, dup := cat.bonusByName[name]; dup {
			err = catalogErrf("duplicate set bonus %q", name)
			return false
		}
		bonus := SetBonus{Name: name}
		v.Get("stages").ForEach(func(_, st gjson.Result) bool {
			pieces := int(st.Get("pieces").Int())
			skillName := st.Get("skill").String()
			id, ok := cat.skillByName[skillName]
			if !ok {
				err = catalogErrf("set bonus %q: unknown skill %q", name, skillName)
				return false
			}
			if pieces < 1 || pieces > numArmourSlots {
				err = catalogErrf("set bonus %q: stage at %d pieces", name, pieces)
				return false
			}
			if n := len(bonus.Stages); n > 0 && bonus.Stages[n-1].Pieces >= pieces {
				err = catalogErrf("set bonus %q: stages must ascend", name)
				return false
			}
			bonus.Stages = append(bonus.Stages, BonusStage{Pieces: pieces, Skill: id})
			return true
		})
		if err != nil {
			return false
		}
		if len(bonus.Stages) == 0 {
			err = catalogErrf("set bonus %q: no stages", name)
			return false
		}
		cat.bonusByName[name] = SetBonusID(len(cat.SetBonuses))
		cat.SetBonuses = append(cat.SetBonuses, bonus)
		return true
	})
	return err
}

func parseDecorations(cat *Catalog, arr gjson.Result) error {
	seen := make(map[string]bool)
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" || seen[name] {
			err = catalogErrf("missing or duplicate decoration name %q", name)
			return false
		}
		seen[name] = true
		size := int(v.Get("size").Int())
		if size < 1 || size > maxSocketSize {
			err = catalogErrf("decoration %q: size %d outside 1..%d", name, size, maxSocketSize)
			return false
		}
		skills, serr := parseSkillLevels(cat, v.Get("skills"), "decoration "+name)
		if serr != nil {
			err = serr
			return false
		}
		if len(skills) == 0 {
			err = catalogErrf("decoration %q: no skills", name)
			return false
		}
		cat.Decorations = append(cat.Decorations, Decoration{Name: name, Size: size, Skills: skills})
		return true
	})
	return err
}

func parseCharms(cat *Catalog, arr gjson.Result) error {
	seen := make(map[string]bool)
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" || seen[name] {
			err = catalogErrf("missing or duplicate charm name %q", name)
			return false
		}
		seen[name] = true
		skills, serr := parseSkillLevels(cat, v.Get("skills"), "charm "+name)
		if serr != nil {
			err = serr
			return false
		}
		if len(skills) == 0 {
			err = catalogErrf("charm %q: no skills", name)
			return false
		}
		cat.Charms = append(cat.Charms, Charm{Name: name, Skills: skills})
		return true
	})
	return err
}

func parseArmour(cat *Catalog, arr gjson.Result) error {
	seen := make(map[string]bool)
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" || seen[name] {
			err = catalogErrf("missing or duplicate armour name %q", name)
			return false
		}
		seen[name] = true
		slot, ok := parseArmourSlot(v.Get("slot").String())
		if !ok {
			err = catalogErrf("armour %q: unknown slot %q", name, v.Get("slot").String())
			return false
		}
		tierStr := v.Get("tier").String()
		tier, ok := parseTier(tierStr)
		if !ok || tier == TierAny {
			err = catalogErrf("armour %q: unknown tier %q", name, tierStr)
			return false
		}
		piece := ArmourPiece{
			Name:     name,
			Set:      v.Get("set").String(),
			Slot:     slot,
			Tier:     tier,
			Defense:  int(v.Get("defense").Int()),
			SetBonus: -1,
		}
		if piece.Defense < 0 {
			err = catalogErrf("armour %q: negative defense", name)
			return false
		}
		piece.Skills, err = parseSkillLevels(cat, v.Get("skills"), "armour "+name)
		if err != nil {
			return false
		}
		piece.Sockets, err = parseSockets(v.Get("sockets"), 3, "armour "+name)
		if err != nil {
			return false
		}
		if b := v.Get("setBonus"); b.Exists() {
			id, ok := cat.bonusByName[b.String()]
			if !ok {
				err = catalogErrf("armour %q: unknown set bonus %q", name, b.String())
				return false
			}
			piece.SetBonus = id
		}
		cat.Armour = append(cat.Armour, piece)
		return true
	})
	if err != nil {
		return err
	}
	var count [numArmourSlots]int
	for i := range cat.Armour {
		count[cat.Armour[i].Slot]++
	}
	for s, n := range count {
		if n == 0 {
			return catalogErrf("no %s armour", ArmourSlot(s))
		}
	}
	return nil
}

func parseWeapons(cat *Catalog, arr gjson.Result) error {
	seen := make(map[string]bool)
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" || seen[name] {
			err = catalogErrf("missing or duplicate weapon name %q", name)
			return false
		}
		seen[name] = true
		class := parseWeaponClass(v.Get("class").String())
		if class == ClassNone {
			err = catalogErrf("weapon %q: unknown class %q", name, v.Get("class").String())
			return false
		}
		w := Weapon{
			Name:        name,
			Class:       class,
			Rarity:      int(v.Get("rarity").Int()),
			Attack:      int(v.Get("attack").Int()),
			Affinity:    int(v.Get("affinity").Int()),
			IsRaw:       v.Get("isRaw").Bool(),
			Augmentable: v.Get("augmentable").Bool(),
		}
		if w.Rarity < 1 {
			err = catalogErrf("weapon %q: rarity %d", name, w.Rarity)
			return false
		}
		if w.Attack < 1 {
			err = catalogErrf("weapon %q: attack %d", name, w.Attack)
			return false
		}
		if w.Affinity < -100 || w.Affinity > 100 {
			err = catalogErrf("weapon %q: affinity %d outside -100..100", name, w.Affinity)
			return false
		}
		if w.Augmentable {
			if _, ok := augmentCapacity[w.Rarity]; !ok {
				err = catalogErrf("weapon %q: rarity %d takes no augments", name, w.Rarity)
				return false
			}
		}
		scheme, ok := parseUpgradeScheme(v.Get("upgrades").String())
		if !ok {
			err = catalogErrf("weapon %q: unknown upgrade scheme %q", name, v.Get("upgrades").String())
			return false
		}
		w.Upgrades = scheme
		w.Sockets, err = parseSockets(v.Get("sockets"), 2, "weapon "+name)
		if err != nil {
			return false
		}
		sharp := v.Get("sharpness").Array()
		if len(sharp) != len(w.Sharpness) {
			err = catalogErrf("weapon %q: sharpness needs %d values", name, len(w.Sharpness))
			return false
		}
		total := 0
		for i, p := range sharp {
			pts := int(p.Int())
			if pts < 0 {
				err = catalogErrf("weapon %q: negative sharpness", name)
				return false
			}
			w.Sharpness[i] = pts
			total += pts
		}
		if total == 0 {
			err = catalogErrf("weapon %q: empty sharpness bar", name)
			return false
		}
		cat.Weapons = append(cat.Weapons, w)
		return true
	})
	if err != nil {
		return err
	}
	if len(cat.Weapons) == 0 {
		return catalogErrf("no weapons defined")
	}
	return nil
}

// ── Shared field parsers ────────────────────────────────────────────

// parseSkillLevels reads a {"skill name": level} object. The result is
// sorted by skill ID, free of duplicates, and may be empty.
func parseSkillLevels(cat *Catalog, obj gjson.Result, owner string) ([]SkillLevel, error) {
	var out []SkillLevel
	var err error
	seen := make(map[SkillID]bool)
	obj.ForEach(func(k, v gjson.Result) bool {
		id, ok := cat.skillByName[k.String()]
		if !ok {
			err = catalogErrf("%s: unknown skill %q", owner, k.String())
			return false
		}
		if seen[id] {
			err = catalogErrf("%s: skill %q listed twice", owner, k.String())
			return false
		}
		seen[id] = true
		lv := int(v.Int())
		if lv < 1 {
			err = catalogErrf("%s: skill %q at level %d", owner, k.String(), lv)
			return false
		}
		out = append(out, SkillLevel{Skill: id, Level: lv})
		return true
	})
	if err != nil {
		return nil, err
	}
	sortSkillLevels(out)
	return out, nil
}

// parseSockets reads a capacity array, normalized to descending order.
func parseSockets(v gjson.Result, maxCount int, owner string) ([]int, error) {
	var out []int
	var err error
	v.ForEach(func(_, s gjson.Result) bool {
		c := int(s.Int())
		if c < 1 || c > maxSocketSize {
			err = catalogErrf("%s: socket size %d outside 1..%d", owner, c, maxSocketSize)
			return false
		}
		out = append(out, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(out) > maxCount {
		return nil, catalogErrf("%s: at most %d sockets", owner, maxCount)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}
