package main

import (
	"errors"
	"strings"
	"testing"
)

func mustCatalog(t *testing.T, data string) *Catalog {
	t.Helper()
	cat, err := catalogFromJSON(data)
	if err != nil {
		t.Fatalf("catalogFromJSON: %v", err)
	}
	return cat
}

// catJSON assembles a catalog document, overriding individual sections of
// a minimal valid catalog.
func catJSON(overrides map[string]string) string {
	sections := map[string]string{
		"skills":      `[{"name": "Attack Boost", "key": "attack_boost", "limit": 7}, {"name": "Focus", "limit": 3}]`,
		"setBonuses":  `[]`,
		"decorations": `[]`,
		"charms":      `[]`,
		"armour": `[
			{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": 1},
			{"name": "Vest", "set": "Plain", "slot": "chest", "tier": "MR", "defense": 1},
			{"name": "Gloves", "set": "Plain", "slot": "arms", "tier": "MR", "defense": 1},
			{"name": "Belt", "set": "Plain", "slot": "waist", "tier": "MR", "defense": 1},
			{"name": "Boots", "set": "Plain", "slot": "legs", "tier": "MR", "defense": 1}]`,
		"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
			"affinity": 0, "isRaw": true, "upgrades": "none", "sharpness": [100, 100, 100, 100, 0, 0, 0]}]`,
	}
	for k, v := range overrides {
		sections[k] = v
	}
	parts := make([]string, 0, len(sections))
	for _, k := range []string{"skills", "setBonuses", "decorations", "charms", "armour", "weapons"} {
		parts = append(parts, `"`+k+`": `+sections[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not_json", `nope`, "not valid JSON"},
		{"no_skills", catJSON(map[string]string{"skills": `[]`}), "no skills defined"},
		{"duplicate_skill", catJSON(map[string]string{
			"skills": `[{"name": "Focus", "limit": 3}, {"name": "Focus", "limit": 3}]`}), "duplicate skill"},
		{"skill_limit_zero", catJSON(map[string]string{
			"skills": `[{"name": "Focus", "limit": 0}]`}), "limit must be at least 1"},
		{"extended_below_limit", catJSON(map[string]string{
			"skills": `[{"name": "Focus", "limit": 3, "extendedLimit": 2}]`}), "below limit"},
		{"unknown_scorer_key", catJSON(map[string]string{
			"skills": `[{"name": "Focus", "key": "focus_power", "limit": 3}]`}), "unknown key"},
		{"extended_over_model_cap", catJSON(map[string]string{
			"skills": `[{"name": "Critical Boost", "key": "critical_boost", "limit": 3, "extendedLimit": 4}]`}),
			"exceeds the damage model cap"},
		{"unknown_secret", catJSON(map[string]string{
			"skills": `[{"name": "Focus", "limit": 3, "secret": "Focus Secret"}]`}), "unknown secret skill"},
		{"bonus_unknown_skill", catJSON(map[string]string{
			"setBonuses": `[{"name": "Will", "stages": [{"pieces": 3, "skill": "Rage"}]}]`}), "unknown skill"},
		{"bonus_no_stages", catJSON(map[string]string{
			"setBonuses": `[{"name": "Will", "stages": []}]`}), "no stages"},
		{"bonus_stage_pieces", catJSON(map[string]string{
			"setBonuses": `[{"name": "Will", "stages": [{"pieces": 6, "skill": "Focus"}]}]`}), "stage at 6 pieces"},
		{"bonus_stages_descend", catJSON(map[string]string{
			"setBonuses": `[{"name": "Will", "stages": [
				{"pieces": 4, "skill": "Focus"}, {"pieces": 2, "skill": "Focus"}]}]`}), "stages must ascend"},
		{"deco_size_over", catJSON(map[string]string{
			"decorations": `[{"name": "Big Jewel 5", "size": 5, "skills": {"Focus": 1}}]`}), "size 5 outside"},
		{"deco_no_skills", catJSON(map[string]string{
			"decorations": `[{"name": "Dud Jewel 1", "size": 1, "skills": {}}]`}), "no skills"},
		{"deco_unknown_skill", catJSON(map[string]string{
			"decorations": `[{"name": "Odd Jewel 1", "size": 1, "skills": {"Rage": 1}}]`}), "unknown skill"},
		{"deco_skill_twice", catJSON(map[string]string{
			"decorations": `[{"name": "Dup Jewel 4", "size": 4, "skills": {"Focus": 1, "Focus": 2}}]`}), "listed twice"},
		{"deco_duplicate", catJSON(map[string]string{
			"decorations": `[{"name": "Focus Jewel 2", "size": 2, "skills": {"Focus": 1}},
				{"name": "Focus Jewel 2", "size": 2, "skills": {"Focus": 1}}]`}), "duplicate decoration"},
		{"charm_no_skills", catJSON(map[string]string{
			"charms": `[{"name": "Dud Charm", "skills": {}}]`}), "no skills"},
		{"skill_level_zero", catJSON(map[string]string{
			"charms": `[{"name": "Dud Charm", "skills": {"Focus": 0}}]`}), "at level 0"},
		{"armour_unknown_slot", catJSON(map[string]string{
			"armour": `[{"name": "Cape", "set": "Plain", "slot": "back", "tier": "MR", "defense": 1}]`}), "unknown slot"},
		{"armour_unknown_tier", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "tier": "GR", "defense": 1}]`}), "unknown tier"},
		{"armour_missing_tier", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "defense": 1}]`}), "unknown tier"},
		{"armour_negative_defense", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": -1}]`}), "negative defense"},
		{"armour_too_many_sockets", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": 1,
				"sockets": [1, 1, 1, 1]}]`}), "at most 3 sockets"},
		{"armour_socket_size", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": 1,
				"sockets": [5]}]`}), "socket size 5 outside"},
		{"armour_unknown_bonus", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": 1,
				"setBonus": "Lost Will"}]`}), "unknown set bonus"},
		{"armour_slot_uncovered", catJSON(map[string]string{
			"armour": `[{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": 1}]`}), "no chest armour"},
		{"weapon_unknown_class", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "crossbow", "rarity": 10, "attack": 480,
				"affinity": 0, "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "unknown class"},
		{"weapon_rarity", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 0, "attack": 480,
				"affinity": 0, "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "rarity 0"},
		{"weapon_attack", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 0,
				"affinity": 0, "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "attack 0"},
		{"weapon_affinity_range", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
				"affinity": 150, "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "outside -100..100"},
		{"weapon_augment_rarity", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 9, "attack": 480,
				"affinity": 0, "augmentable": true, "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "takes no augments"},
		{"weapon_unknown_upgrades", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
				"affinity": 0, "upgrades": "exotic", "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "unknown upgrade scheme"},
		{"weapon_too_many_sockets", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
				"affinity": 0, "sockets": [1, 1, 1], "sharpness": [100, 0, 0, 0, 0, 0, 0]}]`}), "at most 2 sockets"},
		{"weapon_short_bar", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
				"affinity": 0, "sharpness": [100, 0, 0]}]`}), "sharpness needs 7 values"},
		{"weapon_negative_sharpness", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
				"affinity": 0, "sharpness": [100, -1, 0, 0, 0, 0, 0]}]`}), "negative sharpness"},
		{"weapon_empty_bar", catJSON(map[string]string{
			"weapons": `[{"name": "Edge", "class": "greatsword", "rarity": 10, "attack": 480,
				"affinity": 0, "sharpness": [0, 0, 0, 0, 0, 0, 0]}]`}), "empty sharpness bar"},
		{"no_weapons", catJSON(map[string]string{"weapons": `[]`}), "no weapons defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalogFromJSON(tt.data)
			if err == nil {
				t.Fatalf("catalogFromJSON accepted bad data")
			}
			var ce *CatalogError
			if !errors.As(err, &ce) {
				t.Fatalf("error type %T, want *CatalogError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCatalogResolution(t *testing.T) {
	cat := mustCatalog(t, catJSON(map[string]string{
		"skills": `[
			{"name": "Agitator", "key": "agitator", "limit": 5, "extendedLimit": 7, "states": 2, "secret": "Agitator Secret"},
			{"name": "Agitator Secret", "limit": 1},
			{"name": "Focus", "limit": 3}]`,
		"setBonuses": `[{"name": "Old Will", "stages": [
			{"pieces": 2, "skill": "Focus"}, {"pieces": 4, "skill": "Agitator Secret"}]}]`,
		"armour": `[
			{"name": "Cap", "set": "Plain", "slot": "head", "tier": "MR", "defense": 1, "setBonus": "Old Will", "sockets": [1, 3, 2]},
			{"name": "Vest", "set": "Plain", "slot": "chest", "tier": "MR", "defense": 1},
			{"name": "Gloves", "set": "Plain", "slot": "arms", "tier": "MR", "defense": 1},
			{"name": "Belt", "set": "Plain", "slot": "waist", "tier": "MR", "defense": 1},
			{"name": "Boots", "set": "Plain", "slot": "legs", "tier": "MR", "defense": 1}]`,
	}))

	agi, ok := cat.SkillByName("Agitator")
	if !ok {
		t.Fatalf("Agitator not resolved")
	}
	sec, _ := cat.SkillByName("Agitator Secret")
	if got := cat.Skills[agi].Secret; got != sec {
		t.Errorf("Agitator secret = %d, want %d", got, sec)
	}
	if cat.Skills[agi].ExtendedLimit != 7 || cat.Skills[agi].States != 2 {
		t.Errorf("Agitator parsed as %+v", cat.Skills[agi])
	}
	foc, _ := cat.SkillByName("Focus")
	if cat.Skills[foc].ExtendedLimit != 3 {
		t.Errorf("extended limit defaults to limit, got %d", cat.Skills[foc].ExtendedLimit)
	}
	if cat.Skills[foc].States != 1 {
		t.Errorf("states defaults to 1, got %d", cat.Skills[foc].States)
	}

	if len(cat.SetBonuses) != 1 || len(cat.SetBonuses[0].Stages) != 2 {
		t.Fatalf("set bonus stages not parsed: %+v", cat.SetBonuses)
	}
	if cat.SetBonuses[0].Stages[1].Skill != sec {
		t.Errorf("stage 2 skill = %d, want %d", cat.SetBonuses[0].Stages[1].Skill, sec)
	}

	head := cat.Armour[0]
	if head.SetBonus != 0 {
		t.Errorf("head set bonus = %d, want 0", head.SetBonus)
	}
	want := []int{3, 2, 1}
	for i, c := range head.Sockets {
		if c != want[i] {
			t.Fatalf("sockets = %v, want descending %v", head.Sockets, want)
		}
	}
}

func TestLoadShippedCatalog(t *testing.T) {
	cat, err := LoadCatalog("data.min.json")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if len(cat.Skills) != 20 {
		t.Errorf("skills = %d, want 20", len(cat.Skills))
	}
	if len(cat.SetBonuses) != 4 {
		t.Errorf("set bonuses = %d, want 4", len(cat.SetBonuses))
	}
	if len(cat.Decorations) != 21 {
		t.Errorf("decorations = %d, want 21", len(cat.Decorations))
	}
	if len(cat.Charms) != 7 {
		t.Errorf("charms = %d, want 7", len(cat.Charms))
	}
	if len(cat.Armour) != 46 {
		t.Errorf("armour = %d, want 46", len(cat.Armour))
	}
	if len(cat.Weapons) != 10 {
		t.Errorf("weapons = %d, want 10", len(cat.Weapons))
	}

	w := cat.WeaponByName("Acid Shredder II")
	if w == nil {
		t.Fatalf("Acid Shredder II missing")
	}
	total := 0
	for _, pts := range w.Sharpness {
		total += pts
	}
	if total != 400 {
		t.Errorf("Acid Shredder II sharpness sums to %d, want 400", total)
	}
	if !w.Augmentable || w.Rarity != 11 {
		t.Errorf("Acid Shredder II augments: %v rarity %d", w.Augmentable, w.Rarity)
	}

	var eyepatch *ArmourPiece
	for i := range cat.Armour {
		if cat.Armour[i].Name == "Dragonking Eyepatch Alpha+" {
			eyepatch = &cat.Armour[i]
		}
	}
	if eyepatch == nil {
		t.Fatalf("Dragonking Eyepatch Alpha+ missing")
	}
	if eyepatch.Slot != SlotHead || eyepatch.Tier != TierMasterRank {
		t.Errorf("eyepatch parsed as slot %v tier %v", eyepatch.Slot, eyepatch.Tier)
	}
	if len(eyepatch.Sockets) != 1 || eyepatch.Sockets[0] != 4 {
		t.Errorf("eyepatch sockets = %v, want [4]", eyepatch.Sockets)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog("no-such-file.json")
	if err == nil {
		t.Fatalf("LoadCatalog accepted a missing file")
	}
	var ce *CatalogError
	if !errors.As(err, &ce) {
		t.Fatalf("error type %T, want *CatalogError", err)
	}
	if ce.Unwrap() == nil {
		t.Errorf("read failure should wrap the underlying error")
	}
}
