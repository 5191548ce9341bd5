package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lookup is a fixed correction table. Keys match exactly and case-sensitively;
// keys not in the table map to themselves.
type Lookup map[string]string

// Get returns the canonical value for raw, or raw itself when it has no entry.
func (l Lookup) Get(raw string) string {
	if v, ok := l[raw]; ok {
		return v
	}
	return raw
}

// Targets returns the set of canonical values the table can produce.
func (l Lookup) Targets() map[string]struct{} {
	out := make(map[string]struct{}, len(l))
	for _, v := range l {
		out[v] = struct{}{}
	}
	return out
}

// LocationCorrections maps abbreviated or misspelled deployment locations to
// their canonical site names.
var LocationCorrections = Lookup{
	"Amchitka Ak":  "Amchitka",
	"Arkhan Russ":  "Arkhangelsk",
	"Astrak Russ":  "Astrakhan",
	"Azgie Kazakh": "Azgir",
	"Azgir Kazakh": "Azgir",
	"Bashki Russ":  "Bashkiria",
	"Bashkir Russ": "Bashkiria",
	"C. Nevada":    "Central Nevada",
	"Carlsbad Nm":  "Carlsbad",
	"Chita Russ":   "Chita",
	"Christmas Is": "Christmas Island",
	"Emu Austr":    "Emu",
	"Fallon Nv":    "Fallon",
	"Fangataufa":   "Fangataufa",
	"Fangataufaa":  "Fangataufa",
	"Farmingt Nm":  "Farmington",
	"Grand V Co":   "Grand Valley",
	"Hattiesb Ms":  "Hattiesburg",
	"Hattiese Ms":  "Hattiesburg",
	"Htr Russ":     "Hitler Region",
	"Hururoa":      "Mururoa",
	"In Ecker Alg": "In Ekker",
	"Irkuts Russ":  "Irkutsk",
	"Jakuts Ruse":  "Yakutsk",
	"Jakuts Russ":  "Yakutsk",
	"Johnston Is":  "Johnston Island",
	"Kalmyk Russ":  "Kalmykia",
	"Kazakh":       "Kazakhstan",
	"Kazakhstan":   "Kazakhstan",
	"Kemero Russ":  "Kemerovo",
	"Komi Russ":    "Komi",
	"Krasno Russ":  "Krasnoyarsk",
	"Kz Russ":      "Kazakhstan",
	"Malden Is":    "Malden Island",
	"Mangy Kazakh": "Mangyshlak",
	"Marali Austr": "Maralinga",
	"Mary Turkmen": "Mary",
	"Mellis Nv":    "Mellis",
	"Monteb Austr": "Monte Bello",
	"Mtr Russ":     "Murmansk",
	"Mueueoa":      "Mururoa",
	"Murm Russ":    "Murmansk",
	"Murueoa":      "Mururoa",
	"Muruhoa":      "Mururoa",
	"Mururoa":      "Mururoa",
	"N2 Russ":      "N2 Region",
	"Nellis Nv":    "Nellis",
	"Nz Russ":      "New Zealand Region",
	"Offuswcoast":  "Off US West Coast",
	"Orenbg Russ":  "Orenburg",
	"Pamuk Uzbek":  "Pamuk",
	"Perm Russ":    "Perm",
	"Reggane Alg":  "Reggane",
	"Rifle Co":     "Rifle",
	"S. Atlantic":  "South Atlantic",
	"S.Atlantic":   "South Atlantic",
	"Semi Kazakh":  "Semipalatinsk",
	"Stavro Russ":  "Stavropol",
	"Tuymen Russ":  "Tyumen",
	"Tyumen Russ":  "Tyumen",
	"Ukeaine":      "Ukraine",
	"Uzbek":        "Uzbekistan",
	"W Kazakh":     "West Kazakhstan",
	"W Mururoa":    "West Mururoa",
	"Wsw Mururoa":  "West-Southwest Mururoa",
}

// PurposeDescriptions expands purpose codes into descriptions.
var PurposeDescriptions = Lookup{
	"Combat":  "Combat Detonation",
	"Fms":     "Function Material Study",
	"Fms/Wr":  "Function Material Study and Weapon-Related",
	"Me":      "Military Exercise",
	"Nan":     "Unknown Purpose",
	"Pne":     "Peaceful Nuclear Explosion",
	"Pne/Wr":  "Peaceful Nuclear Explosion and Weapon-Related",
	"Pne:Plo": "Peaceful Nuclear Explosion for Plowshare Program",
	"Pne:V":   "Peaceful Nuclear Explosion for Venting",
	"Sam":     "Subatomic Measurement",
	"Sb":      "Safety Burst",
	"Se":      "Structural Engineering",
	"Se/Wr":   "Structural Engineering and Weapon-Related",
	"Transp":  "Transportation Testing",
	"We":      "Weapon Experimentation",
	"We/Sam":  "Weapon Experimentation and Subatomic Measurement",
	"We/Wr":   "Weapon Experimentation and Weapon-Related",
	"Wr":      "Weapon-Related",
	"Wr/F/S":  "Weapon-Related Function Study",
	"Wr/F/Sa": "Weapon-Related Function Study with Safety Analysis",
	"Wr/Fms":  "Weapon-Related Function Material Study",
	"Wr/P/S":  "Weapon-Related with Peaceful and Safety Analysis",
	"Wr/P/Sa": "Weapon-Related with Peaceful and Safety Analysis",
	"Wr/Pne":  "Weapon-Related Peaceful Nuclear Explosion",
	"Wr/Sam":  "Weapon-Related Subatomic Measurement",
	"Wr/Se":   "Weapon-Related Structural Engineering",
	"Wr/We":   "Weapon-Related Weapon Experimentation",
	"Wr/We/S": "Weapon-Related Weapon Experimentation with Safety Analysis",
}

// TypeCorrections expands detonation type codes. Results are title-cased by
// NormalizeType.
var TypeCorrections = Lookup{
	"Airdrop":  "Airdrop",
	"Atmosph":  "Atmospheric",
	"Balloon":  "Balloon",
	"Barge":    "Barge",
	"Crater":   "Crater",
	"Gallery":  "Gallery",
	"Mine":     "Mine",
	"Rocket":   "Rocket",
	"Shaft":    "Shaft",
	"Shaft/Gr": "Shaft Ground-Based",
	"Shaft/Lg": "Shaft Large",
	"Ship":     "Ship-Based",
	"Space":    "Space-Based",
	"Surface":  "Surface",
	"Tower":    "Tower",
	"Tunnel":   "Tunnel",
	"Ug":       "Underground",
	"Uw":       "Underwater",
	"Water Su": "Water Surface",
	"Watersur": "Water Surface",
}

// NormalizeLocation canonicalizes a deployment location.
func NormalizeLocation(raw string) string { return LocationCorrections.Get(raw) }

// NormalizePurpose expands a purpose code.
func NormalizePurpose(raw string) string { return PurposeDescriptions.Get(raw) }

// NormalizeType expands a type code and title-cases the result, so unlisted
// values such as "UG" or "shaft" are normalized too.
func NormalizeType(raw string) string {
	return titleCase(TypeCorrections.Get(raw))
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest. Hyphens and slashes start a new word.
func titleCase(s string) string {
	// A Caser keeps state between calls and must not be shared.
	return cases.Title(language.Und).String(s)
}
