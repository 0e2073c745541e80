package main

import (
	"strings"
	"testing"
	"time"
)

func mustRequest(t *testing.T, cat *Catalog, data string) *SearchRequest {
	t.Helper()
	req, err := ParseRequest(cat, data)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	return req
}

func TestParseRequestValidation(t *testing.T) {
	cat, err := LoadCatalog("data.min.json")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not_json", `{`, "not valid JSON"},
		{"unknown_class", `{"weaponClass": "bowgun"}`, "unknown weapon class"},
		{"unknown_tier", `{"tier": "GR"}`, "unknown tier"},
		{"unknown_skill", `{"skills": {"Rage": 1}}`, "unknown skill"},
		{"negative_minimum", `{"skills": {"Attack Boost": -1}}`, "negative minimum"},
		{"duplicate_skill", `{"skills": {"Attack Boost": 1, "Attack Boost": 2}}`, "listed twice"},
		{"unknown_bonus_skill", `{"setBonusSkills": ["Rage"]}`, "unknown set bonus skill"},
		{"duplicate_bonus_skill", `{"setBonusSkills": ["Master's Touch", "Master's Touch"]}`, "listed twice"},
		{"unknown_state_skill", `{"skillStates": {"Rage": 0}}`, "unknown skill"},
		{"state_out_of_range", `{"skillStates": {"Weakness Exploit": 3}}`, "has no state"},
		{"stateless_skill_state", `{"skillStates": {"Attack Boost": 1}}`, "has no state"},
		{"regen_too_high", `{"minHealthRegen": 5}`, "outside 0..4"},
		{"regen_negative", `{"minHealthRegen": -1}`, "outside 0..4"},
		{"unknown_weapon", `{"weapon": "Excalibur"}`, "unknown weapon"},
		{"negative_topk", `{"topK": -1}`, "must not be negative"},
		{"negative_workers", `{"workers": -2}`, "must not be negative"},
		{"negative_timeout", `{"timeoutMs": -5}`, "negative timeoutMs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(cat, tt.data)
			if err == nil {
				t.Fatalf("ParseRequest accepted bad request")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseRequestResolvesNames(t *testing.T) {
	cat, err := LoadCatalog("data.min.json")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	req := mustRequest(t, cat, `{
		"weaponClass": "greatsword",
		"tier": "MR",
		"skills": {"Weakness Exploit": 3, "Critical Boost": 3, "Critical Eye": 0},
		"setBonusSkills": ["Master's Touch"],
		"skillStates": {"Weakness Exploit": 1},
		"minHealthRegen": 1,
		"weapon": "Acid Shredder II",
		"excludeArmour": ["Kaiser Crown Beta+"],
		"excludeWeapons": ["Lightbreak Blade"],
		"topK": 5,
		"workers": 2,
		"timeoutMs": 1500
	}`)

	if req.Class != ClassGreatsword || req.Tier != TierMasterRank {
		t.Errorf("class %v tier %v, want greatsword MR", req.Class, req.Tier)
	}

	wantOrder := []string{"Weakness Exploit", "Critical Boost", "Critical Eye", "Master's Touch"}
	wantMins := []int{3, 3, 0, 0}
	if len(req.Targets) != len(wantOrder) {
		t.Fatalf("%d targets, want %d", len(req.Targets), len(wantOrder))
	}
	for i, tgt := range req.Targets {
		if cat.Skills[tgt.Skill].Name != wantOrder[i] || tgt.Min != wantMins[i] {
			t.Errorf("target %d = %s min %d, want %s min %d",
				i, cat.Skills[tgt.Skill].Name, tgt.Min, wantOrder[i], wantMins[i])
		}
	}

	touch, _ := cat.SkillByName("Master's Touch")
	if len(req.BonusSkills) != 1 || req.BonusSkills[0] != touch {
		t.Errorf("bonus skills %v, want [Master's Touch]", req.BonusSkills)
	}
	wex, _ := cat.SkillByName("Weakness Exploit")
	if req.States[wex] != 1 {
		t.Errorf("Weakness Exploit state %d, want 1", req.States[wex])
	}

	if req.MinRegen != 1 || req.Weapon != "Acid Shredder II" {
		t.Errorf("regen %d weapon %q", req.MinRegen, req.Weapon)
	}
	if !req.ExcludeArmour["Kaiser Crown Beta+"] || !req.ExcludeWeapons["Lightbreak Blade"] {
		t.Errorf("exclusions not recorded: %v %v", req.ExcludeArmour, req.ExcludeWeapons)
	}
	if req.TopK != 5 || req.Workers != 2 || req.Timeout != 1500*time.Millisecond {
		t.Errorf("knobs = %d %d %v", req.TopK, req.Workers, req.Timeout)
	}
}

func TestParseRequestDefaults(t *testing.T) {
	cat, err := LoadCatalog("data.min.json")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	req := mustRequest(t, cat, `{}`)
	if req.Class != ClassNone || req.Tier != TierAny {
		t.Errorf("class %v tier %v, want unrestricted", req.Class, req.Tier)
	}
	if len(req.Targets) != 0 || req.Weapon != "" || req.MinRegen != 0 {
		t.Errorf("empty request resolved to %+v", req)
	}
	if req.TopK != 0 || req.Workers != 0 || req.Timeout != 0 {
		t.Errorf("knobs should defer to config, got %d %d %v", req.TopK, req.Workers, req.Timeout)
	}
}
