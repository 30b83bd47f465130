// Package orbit holds the closed-form orbital relations used to turn posterior
// draws into eclipse observables. Angles are in degrees.
package orbit

import "math"

// Physics turns orbital elements into secondary-eclipse observables.
type Physics interface {
	ImpactParameter(aOverRs, cosI, e, omegaDeg float64) float64
	EclipseMidtime(tTransit, period, e, omegaDeg float64) float64
}

// Winn2010 implements Physics with the relations from Winn (2010), "Transits and Occultations".
type Winn2010 struct{}

var _ Physics = Winn2010{}

// ImpactParameter delegates to OccultationImpactParameter.
func (Winn2010) ImpactParameter(aOverRs, cosI, e, omegaDeg float64) float64 {
	return OccultationImpactParameter(aOverRs, cosI, e, omegaDeg)
}

// EclipseMidtime delegates to the package-level EclipseMidtime.
func (Winn2010) EclipseMidtime(tTransit, period, e, omegaDeg float64) float64 {
	return EclipseMidtime(tTransit, period, e, omegaDeg)
}

// ClipCosine keeps c inside the arccos domain.
func ClipCosine(c float64) float64 {
	return math.Max(-1, math.Min(1, c))
}

// InclinationDeg converts cos(i) to degrees after clipping.
func InclinationDeg(cosI float64) float64 {
	return math.Acos(ClipCosine(cosI)) * 180 / math.Pi
}

// OccultationImpactParameter is b_occ = (a/Rs) cos i (1-e^2)/(1 - e sin ω).
func OccultationImpactParameter(aOverRs, cosI, e, omegaDeg float64) float64 {
	w := radians(omegaDeg)
	return aOverRs * cosI * (1 - e*e) / (1 - e*math.Sin(w))
}

// EclipseMidtime is the first-order occultation time: T_tra + P/2 (1 + 4/π e cos ω).
func EclipseMidtime(tTransit, period, e, omegaDeg float64) float64 {
	w := radians(omegaDeg)
	return tTransit + period/2*(1+4/math.Pi*e*math.Cos(w))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
