// internal/rating/glicko2.go
package rating

import (
	"math"
)

const (
	// GlickoScale converts between the 1500-based scale and Glicko-2's mu.
	GlickoScale = 173.7178
	// DefaultMu is the rating every new player name starts with.
	DefaultMu = 1500.0
	// DefaultPhi is the starting rating deviation.
	DefaultPhi = 350.0
	// DefaultSigma is the starting volatility.
	DefaultSigma = 0.06
	// Tau is the constraint on volatility changes.
	Tau = 0.5
	// Epsilon is the tolerance of the volatility iteration.
	Epsilon = 0.000001
)

// Glicko2Rating is a rating in Glicko-2 space.
type Glicko2Rating struct {
	Mu    float64
	Phi   float64
	Sigma float64
}

// NewGlicko2Rating converts a 1500-based rating and deviation into Glicko-2 space.
func NewGlicko2Rating(elo, rd, sigma float64) Glicko2Rating {
	return Glicko2Rating{
		Mu:    (elo - DefaultMu) / GlickoScale,
		Phi:   rd / GlickoScale,
		Sigma: sigma,
	}
}

// Initial is the rating of a player with no recorded games.
func Initial() Glicko2Rating {
	return NewGlicko2Rating(DefaultMu, DefaultPhi, DefaultSigma)
}

// Elo returns the rating on the 1500-based scale.
func (r Glicko2Rating) Elo() float64 {
	return r.Mu*GlickoScale + DefaultMu
}

// Deviation returns the rating deviation on the 1500-based scale.
func (r Glicko2Rating) Deviation() float64 {
	return r.Phi * GlickoScale
}

// UpdateGroup applies one game's outcome to every seat. Each player is matched against
// the average of the other players' ratings; scores are fractions in [0, 1].
func UpdateGroup(ratings []Glicko2Rating, scores []float64) []Glicko2Rating {
	out := make([]Glicko2Rating, len(ratings))
	if len(ratings) < 2 || len(ratings) != len(scores) {
		copy(out, ratings)
		return out
	}

	var total float64
	for _, r := range ratings {
		total += r.Mu
	}
	others := float64(len(ratings) - 1)
	for i, r := range ratings {
		opp := Glicko2Rating{
			Mu:    (total - r.Mu) / others,
			Phi:   DefaultPhi / GlickoScale,
			Sigma: DefaultSigma,
		}
		out[i] = update(r, opp, scores[i])
	}
	return out
}

// update is a single-match Glicko-2 step including the volatility iteration.
func update(r, opp Glicko2Rating, score float64) Glicko2Rating {
	gOpp := g(opp.Phi)
	expected := E(r.Mu, opp.Mu, opp.Phi)

	v := 1.0 / (gOpp * gOpp * expected * (1 - expected))
	delta := v * gOpp * (score - expected)

	a := math.Log(r.Sigma * r.Sigma)
	phi2 := r.Phi * r.Phi
	lo := a
	var hi float64
	if delta*delta > phi2+v {
		hi = math.Log(delta*delta - phi2 - v)
	} else {
		k := 1.0
		for f(a-k*Tau, r.Phi, v, delta, a) < 0 {
			k++
		}
		hi = a - k*Tau
	}

	fLo := f(lo, r.Phi, v, delta, a)
	fHi := f(hi, r.Phi, v, delta, a)
	for i := 0; i < 100 && math.Abs(hi-lo) > Epsilon; i++ {
		next := lo + (lo-hi)*fLo/(fHi-fLo)
		fNext := f(next, r.Phi, v, delta, a)
		if fNext*fHi <= 0 {
			lo, fLo = hi, fHi
		} else {
			fLo /= 2
		}
		hi, fHi = next, fNext
	}

	sigma := math.Exp(lo / 2)
	phiStar := math.Sqrt(phi2 + sigma*sigma)
	phi := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	return Glicko2Rating{
		Mu:    r.Mu + phi*phi*gOpp*(score-expected),
		Phi:   phi,
		Sigma: sigma,
	}
}

// g is the Glicko-2 weighting factor 1/sqrt(1+3phi^2/pi^2).
func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/math.Pi/math.Pi)
}

// E is the expected score of mu against an opponent (mu2, phi2).
func E(mu, mu2, phi2 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(phi2)*(mu-mu2)))
}

// f is the function whose root gives the new volatility.
func f(x, phi, v, delta, a float64) float64 {
	ex := math.Exp(x)
	num := ex * (delta*delta - phi*phi - v - ex)
	den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
	return num/den - (x-a)/(Tau*Tau)
}
