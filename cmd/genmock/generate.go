package main

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
)

// sourceHeader is the raw column layout of the published dataset.
var sourceHeader = []string{
	"WEAPON SOURCE COUNTRY", "WEAPON DEPLOYMENT LOCATION", "Data.Source",
	"Location.Cordinates.Latitude", "Location.Cordinates.Longitude",
	"Data.Magnitude.Body", "Data.Magnitude.Surface", "Location.Cordinates.Depth",
	"Data.Yeild.Lower", "Data.Yeild.Upper", "Data.Purpose", "Data.Name", "Data.Type",
	"Date.Day", "Date.Month", "Date.Year",
}

// notable are real detonations at the default filter sites, so the default
// dashboard view is never empty.
var notable = [][]string{
	{"USA", "Hiroshima", "DOE", "34.39", "132.45", "0", "0", "-0.6", "15", "15", "Combat", "Little Boy", "Airdrop", "6", "8", "1945"},
	{"USA", "Nagasaki", "DOE", "32.77", "129.86", "0", "0", "-0.5", "21", "21", "Combat", "Fat Man", "Airdrop", "9", "8", "1945"},
	{"USA", "Alamogordo", "DOE", "32.54", "-105.57", "0", "0", "-0.03", "19", "19", "Wr", "Trinity", "Tower", "16", "7", "1945"},
	{"UK", "Monteb Austr", "UGS", "-20.4", "115.5", "0", "0", "-0.01", "25", "25", "Wr", "Hurricane", "Ship", "3", "10", "1952"},
	{"UK", "Emu Austr", "UGS", "-28.7", "132.4", "0", "0", "-0.03", "10", "10", "Wr", "Totem 1", "Tower", "15", "10", "1953"},
	{"FRANCE", "In Ecker Alg", "CEA", "24.05", "5.05", "4.4", "0", "0.2", "3", "10", "Wr", "Agate", "Ug", "7", "11", "1961"},
	{"INDIA", "Pokhran", "BARC", "27.07", "71.7", "4.9", "0", "0.1", "8", "12", "Pne", "Smiling Buddha", "Ug", "18", "5", "1974"},
	{"INDIA", "Pokhran", "BARC", "27.07", "71.7", "5.3", "0", "0.2", "12", "45", "Wr", "Shakti", "Shaft", "11", "5", "1998"},
}

// site is a raw deployment location with its source country and rough
// coordinates.
type site struct {
	country  string
	location string
	lat, lon float64
}

var sites = []site{
	{"USA", "Nevada", 37.1, -116.05},
	{"USA", "Nellis Nv", 37.2, -116.2},
	{"USA", "Amchitka Ak", 51.4, 179.1},
	{"USA", "Johnston Is", 16.7, -169.5},
	{"USA", "Christmas Is", 1.9, -157.4},
	{"USSR", "Semi Kazakh", 50.1, 78.0},
	{"USSR", "Nz Russ", 73.4, 54.9},
	{"USSR", "Azgir Kazakh", 47.8, 47.9},
	{"USSR", "Mangy Kazakh", 43.8, 52.3},
	{"FRANCE", "Mururoa", -21.8, -138.9},
	{"FRANCE", "Hururoa", -21.8, -138.9},
	{"FRANCE", "Fangataufa", -22.2, -138.7},
	{"FRANCE", "Reggane Alg", 26.3, 0.0},
	{"UK", "Marali Austr", -29.9, 131.6},
	{"CHINA", "Lop Nor", 41.6, 88.4},
	{"PAKIST", "Chagai", 28.8, 64.9},
	{"INDIA", "Pokhran", 27.07, 71.7},
}

var sources = []string{"DOE", "NRDC", "ISC", "UGS", "CEA", "BARC", "SIPRI"}

func keys(l domain.Lookup) []string {
	out := make([]string, 0, len(l))
	for k := range l {
		if k != domain.MissingSentinel {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// generate builds a raw table of the notable detonations followed by n
// synthetic rows. About missingRate of the synthetic rows carry one missing
// cell. Output is deterministic for a given seed.
func generate(n int, seed uint64, missingRate float64) domain.RawTable {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	purposes := keys(domain.PurposeDescriptions)
	types := keys(domain.TypeCorrections)

	rows := make([][]string, 0, len(notable)+n)
	for _, r := range notable {
		rows = append(rows, slices.Clone(r))
	}

	for i := range n {
		s := sites[rng.IntN(len(sites))]
		year := 1946 + rng.IntN(53)
		month := 1 + rng.IntN(12)
		day := 1 + rng.IntN(28)

		depth := rng.Float64()*2 - 0.6
		if rng.IntN(20) == 0 {
			depth = 0
		}
		lower := float64(rng.IntN(150))
		upper := lower + float64(rng.IntN(100))
		body := float64(rng.IntN(70)) / 10

		row := []string{
			s.country,
			s.location,
			sources[rng.IntN(len(sources))],
			fmtCoord(s.lat + rng.Float64()*0.2 - 0.1),
			fmtCoord(s.lon + rng.Float64()*0.2 - 0.1),
			fmtFloat(body),
			"0",
			fmtFloat(float64(int(depth*1000)) / 1000),
			fmtFloat(lower),
			fmtFloat(upper),
			purposes[rng.IntN(len(purposes))],
			"Test " + strconv.Itoa(i+1),
			types[rng.IntN(len(types))],
			strconv.Itoa(day),
			strconv.Itoa(month),
			strconv.Itoa(year),
		}
		if rng.Float64() < missingRate {
			row[rng.IntN(len(row))] = domain.MissingSentinel
		}
		rows = append(rows, row)
	}
	return domain.RawTable{Header: slices.Clone(sourceHeader), Rows: rows}
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
