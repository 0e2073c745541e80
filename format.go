package main

import (
	"fmt"
	"strings"
)

// ── Result rendering ────────────────────────────────────────────────

var romanNumerals = [...]string{"", "I", "II", "III", "IV", "V", "VI"}

// FormatResult renders a search result as readable text.
func FormatResult(cat *Catalog, res *SearchResult) string {
	var b strings.Builder
	if res.Partial {
		fmt.Fprintf(&b, "search timed out after %d combinations; results may be incomplete\n\n", res.Combos)
	}
	if len(res.Builds) == 0 {
		b.WriteString("no builds found\n")
		return b.String()
	}
	for i := range res.Builds {
		if i > 0 {
			b.WriteByte('\n')
		}
		formatBuild(&b, cat, i+1, &res.Builds[i])
	}
	return b.String()
}

func formatBuild(b *strings.Builder, cat *Catalog, rank int, r *BuildResult) {
	w := r.Combo.Weapon
	fmt.Fprintf(b, "#%d  EFR %.2f  (affinity %d%%, %s sharpness)\n",
		rank, toFixed2(r.Score), r.Affinity, sharpnessNames[r.SharpLv])
	fmt.Fprintf(b, "  weapon: %s (%s, rarity %d)%s\n", w.Name, w.Class, w.Rarity, socketSuffix(w.Sockets))
	if lbl := augmentLabel(r.Combo.Aug); lbl != "" {
		fmt.Fprintf(b, "    augments: %s\n", lbl)
	}
	if r.Combo.Upg.Label != "" {
		fmt.Fprintf(b, "    upgrades: %s\n", r.Combo.Upg.Label)
	}
	for s, p := range r.Pieces {
		fmt.Fprintf(b, "  %s: %s%s\n", ArmourSlot(s), p.Name, socketSuffix(p.Sockets))
	}
	if r.Charm != nil {
		fmt.Fprintf(b, "  charm: %s\n", r.Charm.Name)
	}
	if decos := decoCounts(r.Decos); len(decos) > 0 {
		fmt.Fprintf(b, "  decorations: %s\n", strings.Join(decos, ", "))
	}
	if len(r.Totals) > 0 {
		parts := make([]string, len(r.Totals))
		for i, sl := range r.Totals {
			parts[i] = fmt.Sprintf("%s %d", cat.Skills[sl.Skill].Name, sl.Level)
		}
		fmt.Fprintf(b, "  skills: %s\n", strings.Join(parts, ", "))
	}
	for _, ab := range activeBonuses(cat, r.Pieces) {
		fmt.Fprintf(b, "  set bonus: %s (%d pieces): %s\n", ab.Name, ab.Pieces, strings.Join(ab.Skills, ", "))
	}
	fmt.Fprintf(b, "  defense: %d\n", r.Defense)
}

func socketSuffix(sockets []int) string {
	if len(sockets) == 0 {
		return ""
	}
	parts := make([]string, len(sockets))
	for i, c := range sockets {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return " [" + strings.Join(parts, ",") + "]"
}

func augmentLabel(a AugmentConfig) string {
	var parts []string
	if a.AttackLv > 0 {
		parts = append(parts, "attack "+romanNumerals[a.AttackLv])
	}
	if a.AffinityLv > 0 {
		parts = append(parts, "affinity "+romanNumerals[a.AffinityLv])
	}
	if a.SlotLv > 0 {
		parts = append(parts, "slot "+romanNumerals[a.SlotLv])
	}
	if a.RegenLv > 0 {
		parts = append(parts, "health regen "+romanNumerals[a.RegenLv])
	}
	return strings.Join(parts, ", ")
}

// decoCounts collapses an assignment into "Nx name" entries, first-seen
// order, skipping empty sockets.
func decoCounts(decos []*Decoration) []string {
	var order []string
	counts := make(map[string]int)
	for _, d := range decos {
		if d == nil {
			continue
		}
		if counts[d.Name] == 0 {
			order = append(order, d.Name)
		}
		counts[d.Name]++
	}
	out := make([]string, len(order))
	for i, name := range order {
		out[i] = fmt.Sprintf("%dx %s", counts[name], name)
	}
	return out
}

type activeBonus struct {
	Name   string
	Pieces int
	Skills []string
}

// activeBonuses lists the set bonuses the worn pieces activate, with the
// skills granted by the reached stages.
func activeBonuses(cat *Catalog, pieces [numArmourSlots]*ArmourPiece) []activeBonus {
	counts := make(map[SetBonusID]int)
	for _, p := range pieces {
		if p != nil && p.SetBonus >= 0 {
			counts[p.SetBonus]++
		}
	}
	var out []activeBonus
	for bi := range cat.SetBonuses {
		cnt := counts[SetBonusID(bi)]
		if cnt == 0 {
			continue
		}
		ab := activeBonus{Name: cat.SetBonuses[bi].Name, Pieces: cnt}
		for _, st := range cat.SetBonuses[bi].Stages {
			if cnt >= st.Pieces {
				ab.Skills = append(ab.Skills, cat.Skills[st.Skill].Name)
			}
		}
		if len(ab.Skills) > 0 {
			out = append(out, ab)
		}
	}
	return out
}

// ── JSON shapes ─────────────────────────────────────────────────────

type buildJSON struct {
	EFR        float64        `json:"efr"`
	Affinity   int            `json:"affinity"`
	Sharpness  string         `json:"sharpness"`
	Weapon     string         `json:"weapon"`
	Augments   string         `json:"augments,omitempty"`
	Upgrades   string         `json:"upgrades,omitempty"`
	Armour     []string       `json:"armour"` // head, chest, arms, waist, legs
	Charm      string         `json:"charm,omitempty"`
	Sockets    []int          `json:"sockets"`
	Decos      []string       `json:"decorations,omitempty"`
	Skills     map[string]int `json:"skills"`
	SetBonuses []string       `json:"setBonuses,omitempty"`
	Defense    int            `json:"defense"`
}

type resultJSON struct {
	Builds       []buildJSON `json:"builds"`
	Combinations int64       `json:"combinations"`
	Partial      bool        `json:"partial,omitempty"`
	ElapsedMs    int64       `json:"elapsedMs"`
}

func resultToJSON(cat *Catalog, res *SearchResult) resultJSON {
	out := resultJSON{
		Builds:       make([]buildJSON, 0, len(res.Builds)),
		Combinations: res.Combos,
		Partial:      res.Partial,
		ElapsedMs:    res.Elapsed.Milliseconds(),
	}
	for i := range res.Builds {
		r := &res.Builds[i]
		bj := buildJSON{
			EFR:       toFixed2(r.Score),
			Affinity:  r.Affinity,
			Sharpness: sharpnessNames[r.SharpLv],
			Weapon:    r.Combo.Weapon.Name,
			Augments:  augmentLabel(r.Combo.Aug),
			Upgrades:  r.Combo.Upg.Label,
			Sockets:   r.Sockets,
			Decos:     decoCounts(r.Decos),
			Skills:    make(map[string]int, len(r.Totals)),
			Defense:   r.Defense,
		}
		for _, p := range r.Pieces {
			bj.Armour = append(bj.Armour, p.Name)
		}
		if r.Charm != nil {
			bj.Charm = r.Charm.Name
		}
		for _, sl := range r.Totals {
			bj.Skills[cat.Skills[sl.Skill].Name] = sl.Level
		}
		for _, ab := range activeBonuses(cat, r.Pieces) {
			bj.SetBonuses = append(bj.SetBonuses,
				fmt.Sprintf("%s (%d pieces): %s", ab.Name, ab.Pieces, strings.Join(ab.Skills, ", ")))
		}
		out.Builds = append(out.Builds, bj)
	}
	return out
}
