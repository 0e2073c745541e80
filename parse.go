package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// ── Search requests ─────────────────────────────────────────────────

// SkillTarget pairs a relevant skill with the minimum level a build must
// reach. Min 0 means the skill is optimized but not required.
type SkillTarget struct {
	Skill SkillID
	Min   int
}

// SearchRequest is a request resolved against a catalog. Targets fixes the
// relevant-skill order; BonusSkills lists set-bonus skills every build must
// have active.
type SearchRequest struct {
	Class          WeaponClass
	Tier           Tier
	Targets        []SkillTarget
	BonusSkills    []SkillID
	States         map[SkillID]int
	MinRegen       int
	Weapon         string
	ExcludeArmour  map[string]bool
	ExcludeWeapons map[string]bool

	TopK    int           // 0 defers to config
	Workers int           // 0 defers to config
	Timeout time.Duration // 0 defers to config
}

// LoadRequest reads and resolves a request file.
func LoadRequest(cat *Catalog, path string) (*SearchRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseRequest(cat, string(raw))
}

// ParseRequest resolves request JSON against the catalog. Unknown names
// and out-of-range values are rejected here, before any search work.
func ParseRequest(cat *Catalog, data string) (*SearchRequest, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("request: not valid JSON")
	}
	root := gjson.Parse(data)
	req := &SearchRequest{
		States:         make(map[SkillID]int),
		ExcludeArmour:  make(map[string]bool),
		ExcludeWeapons: make(map[string]bool),
	}

	if v := root.Get("weaponClass"); v.Exists() && v.String() != "" {
		req.Class = parseWeaponClass(v.String())
		if req.Class == ClassNone {
			return nil, fmt.Errorf("request: unknown weapon class %q", v.String())
		}
	}
	tier, ok := parseTier(root.Get("tier").String())
	if !ok {
		return nil, fmt.Errorf("request: unknown tier %q", root.Get("tier").String())
	}
	req.Tier = tier

	// The skills object fixes the relevant-skill order; set-bonus skills
	// follow in list order if not already present.
	var err error
	targeted := make(map[SkillID]int) // skill -> index into Targets
	root.Get("skills").ForEach(func(k, v gjson.Result) bool {
		id, found := cat.SkillByName(k.String())
		if !found {
			err = fmt.Errorf("request: unknown skill %q", k.String())
			return false
		}
		min := int(v.Int())
		if min < 0 {
			err = fmt.Errorf("request: skill %q: negative minimum", k.String())
			return false
		}
		if _, dup := targeted[id]; dup {
			err = fmt.Errorf("request: skill %q listed twice", k.String())
			return false
		}
		targeted[id] = len(req.Targets)
		req.Targets = append(req.Targets, SkillTarget{Skill: id, Min: min})
		return true
	})
	if err != nil {
		return nil, err
	}
	root.Get("setBonusSkills").ForEach(func(_, v gjson.Result) bool {
		id, found := cat.SkillByName(v.String())
		if !found {
			err = fmt.Errorf("request: unknown set bonus skill %q", v.String())
			return false
		}
		for _, b := range req.BonusSkills {
			if b == id {
				err = fmt.Errorf("request: set bonus skill %q listed twice", v.String())
				return false
			}
		}
		req.BonusSkills = append(req.BonusSkills, id)
		if _, present := targeted[id]; !present {
			targeted[id] = len(req.Targets)
			req.Targets = append(req.Targets, SkillTarget{Skill: id})
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	root.Get("skillStates").ForEach(func(k, v gjson.Result) bool {
		id, found := cat.SkillByName(k.String())
		if !found {
			err = fmt.Errorf("request: unknown skill %q in skillStates", k.String())
			return false
		}
		st := int(v.Int())
		if st < 0 || st >= cat.Skills[id].States {
			err = fmt.Errorf("request: skill %q has no state %d", k.String(), st)
			return false
		}
		req.States[id] = st
		return true
	})
	if err != nil {
		return nil, err
	}

	req.MinRegen = int(root.Get("minHealthRegen").Int())
	if req.MinRegen < 0 || req.MinRegen > augMaxLevel {
		return nil, fmt.Errorf("request: minHealthRegen %d outside 0..%d", req.MinRegen, augMaxLevel)
	}

	if v := root.Get("weapon"); v.Exists() && v.String() != "" {
		if cat.WeaponByName(v.String()) == nil {
			return nil, fmt.Errorf("request: unknown weapon %q", v.String())
		}
		req.Weapon = v.String()
	}
	root.Get("excludeArmour").ForEach(func(_, v gjson.Result) bool {
		req.ExcludeArmour[v.String()] = true
		return true
	})
	root.Get("excludeWeapons").ForEach(func(_, v gjson.Result) bool {
		req.ExcludeWeapons[v.String()] = true
		return true
	})

	req.TopK = int(root.Get("topK").Int())
	req.Workers = int(root.Get("workers").Int())
	if req.TopK < 0 || req.Workers < 0 {
		return nil, fmt.Errorf("request: topK and workers must not be negative")
	}
	ms := root.Get("timeoutMs").Int()
	if ms < 0 {
		return nil, fmt.Errorf("request: negative timeoutMs")
	}
	req.Timeout = time.Duration(ms) * time.Millisecond

	return req, nil
}
