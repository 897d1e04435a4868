package loadcheck

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// descriptions mixes Italian and English wording, code-like inputs and text
// without a rate so every estimator path is exercised.
var descriptions = []string{
	"Pompa di calore aria-acqua Daikin Altherma",
	"air-to-water heat pump 12 kW",
	"Collettori solari termici piani",
	"solar thermal collectors",
	"Caldaia a pellet",
	"stufa a legna",
	"biomass boiler",
	"Caldaia a gas a condensazione",
	"condensing boiler",
	"Scaldacqua a pompa di calore",
	"domestic hot water heat pump",
	"caldaia a gas tradizionale",
	"impianto fotovoltaico",
	"heat_pump",
	"solar_thermal",
}

var applicants = []string{"private", "PA", "public_administration", ""}

// Generate builds n probes. The same seed yields the same probes.
func Generate(n int, seed uint64) []Probe {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Probe, n)
	for i := range out {
		p := Probe{
			ID:            uuid.NewString(),
			Intervention:  descriptions[r.IntN(len(descriptions))],
			ApplicantType: applicants[r.IntN(len(applicants))],
		}
		// Roughly one probe in five omits its sizing to hit the partial path.
		if r.IntN(5) != 0 {
			p.PowerKW = sized(r, 2, 60)
			p.SurfaceM2 = sized(r, 1, 80)
		}
		out[i] = p
	}
	return out
}

// sized returns a value in [lo, hi) with up to three decimals.
func sized(r *rand.Rand, lo, hi float64) *float64 {
	v := math.Round((lo+r.Float64()*(hi-lo))*1000) / 1000
	return &v
}
