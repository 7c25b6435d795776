package props

import (
	"fmt"
	"math"

	"Thermo/internal/units"
)

// IAPWS-IF97 regions 1, 2 and 4. Pressures in MPa and temperatures in K inside
// this file.

const (
	waterR      = 0.461526 // kJ/kg·K
	waterTc     = 647.096  // K
	waterPc     = 22.064   // MPa
	waterTMin   = 273.15
	waterTMax   = 1073.15
	waterPMax   = 100.0
	waterT13    = 623.15    // upper limit of region 1
	waterPSat13 = 16.529164 // psat(623.15 K), top of the saturation line covered by regions 1/2
	waterPTrip  = 611.212677e-6
)

var r1I = [...]float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 8, 8, 21, 23, 29, 30, 31, 32}

var r1J = [...]float64{-2, -1, 0, 1, 2, 3, 4, 5, -9, -7, -1, 0, 1, 3, -3, 0, 1, 3, 17, -4, 0, 6, -5, -2, 10, -8, -11, -6, -29, -31, -38, -39, -40, -41}

var r1n = [...]float64{
	0.14632971213167, -0.84548187169114, -0.37563603672040e1, 0.33855169168385e1,
	-0.95791963387872, 0.15772038513228, -0.16616417199501e-1, 0.81214629983568e-3,
	0.28319080123804e-3, -0.60706301565874e-3, -0.18990068218419e-1, -0.32529748770505e-1,
	-0.21841717175414e-1, -0.52838357969930e-4, -0.47184321073267e-3, -0.30001780793026e-3,
	0.47661393906987e-4, -0.44141845330846e-5, -0.72694996297594e-15, -0.31679644845054e-4,
	-0.28270797985312e-5, -0.85205128120103e-9, -0.22425281908000e-5, -0.65171222895601e-6,
	-0.14341729937924e-12, -0.40516996860117e-6, -0.12734301741641e-8, -0.17424871230634e-9,
	-0.68762131295531e-18, 0.14478307828521e-19, 0.26335781662795e-22, -0.11947622640071e-22,
	0.18228094581404e-23, -0.93537087292458e-25,
}

var r2J0 = [...]float64{0, 1, -5, -4, -3, -2, -1, 2, 3}

var r2n0 = [...]float64{
	-0.96927686500217e1, 0.10086655968018e2, -0.56087911283020e-2, 0.71452738081455e-1,
	-0.40710498223928, 0.14240819171444e1, -0.43839511319450e1, -0.28408632460772,
	0.21268463753307e-1,
}

var r2I = [...]float64{1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4, 5, 6, 6, 6, 7, 7, 7, 8, 8, 9, 10, 10, 10, 16, 16, 18, 20, 20, 20, 21, 22, 23, 24, 24, 24}

var r2J = [...]float64{0, 1, 2, 3, 6, 1, 2, 4, 7, 36, 0, 1, 3, 6, 35, 1, 2, 3, 7, 3, 16, 35, 0, 11, 25, 8, 36, 13, 4, 10, 14, 29, 50, 57, 20, 35, 48, 21, 53, 39, 26, 40, 58}

var r2n = [...]float64{
	-0.17731742473213e-2, -0.17834862292358e-1, -0.45996013696365e-1, -0.57581259083432e-1,
	-0.50325278727930e-1, -0.33032641670203e-4, -0.18948987516315e-3, -0.39392777243355e-2,
	-0.43797295650573e-1, -0.26674547914087e-4, 0.20481737692309e-7, 0.43870667284435e-6,
	-0.32277677238570e-4, -0.15033924542148e-2, -0.40668253562649e-1, -0.78847309559367e-9,
	0.12790717852285e-7, 0.48225372718507e-6, 0.22922076337661e-5, -0.16714766451061e-10,
	-0.21171472321355e-2, -0.23895741934104e2, -0.59059564324270e-17, -0.12621808899101e-5,
	-0.38946842435739e-1, 0.11256211360459e-10, -0.82311340897998e1, 0.19809712802088e-7,
	0.10406965210174e-18, -0.10234747095929e-12, -0.10018179379511e-8, -0.80882908646985e-10,
	0.10693031879409, -0.33662250574171, 0.89185845355421e-24, 0.30629316876232e-12,
	-0.42002467698208e-5, -0.59056029685639e-25, 0.37826947613457e-5, -0.12768608934681e-14,
	0.73087610595061e-28, 0.55414715350778e-16, -0.94369707241210e-6,
}

var r4n = [...]float64{
	0.11670521452767e4, -0.72421316703206e6, -0.17073846940092e2, 0.12020824702470e5,
	-0.32325550322333e7, 0.14915108613530e2, -0.48232657361591e4, 0.40511340542057e6,
	-0.23855557567849, 0.65017534844798e3,
}

var b23n = [...]float64{0.34805185628969e3, -0.11671859879975e1, 0.10192970039326e-2, 0.57254459862746e3, 0.13918839778870e2}

// wpoint holds the specific properties of one IF97 evaluation.
type wpoint struct {
	h, s, v float64 // kJ/kg, kJ/kg·K, m³/kg
}

func region1(p, t float64) wpoint {
	pi := p / 16.53
	tau := 1386 / t
	a := 7.1 - pi
	b := tau - 1.222
	var g, gp, gt float64
	for i := range r1n {
		n, I, J := r1n[i], r1I[i], r1J[i]
		aI := math.Pow(a, I)
		bJ := math.Pow(b, J)
		g += n * aI * bJ
		gp -= n * I * math.Pow(a, I-1) * bJ
		gt += n * aI * J * math.Pow(b, J-1)
	}
	return wpoint{
		h: waterR * t * tau * gt,
		s: waterR * (tau*gt - g),
		v: waterR * t * pi * gp / p * 1e-3,
	}
}

func region2(p, t float64) wpoint {
	pi := p
	tau := 540 / t
	g0 := math.Log(pi)
	var g0t float64
	for i := range r2n0 {
		g0 += r2n0[i] * math.Pow(tau, r2J0[i])
		g0t += r2n0[i] * r2J0[i] * math.Pow(tau, r2J0[i]-1)
	}
	b := tau - 0.5
	var gr, grp, grt float64
	for i := range r2n {
		n, I, J := r2n[i], r2I[i], r2J[i]
		pI := math.Pow(pi, I)
		bJ := math.Pow(b, J)
		gr += n * pI * bJ
		grp += n * I * math.Pow(pi, I-1) * bJ
		grt += n * pI * J * math.Pow(b, J-1)
	}
	return wpoint{
		h: waterR * t * tau * (g0t + grt),
		s: waterR * (tau*(g0t+grt) - (g0 + gr)),
		v: waterR * t * pi * (1/pi + grp) / p * 1e-3,
	}
}

// psat returns the saturation pressure (MPa) at t (K), 273.15 ≤ t ≤ Tc.
func psat(t float64) float64 {
	th := t + r4n[8]/(t-r4n[9])
	a := th*th + r4n[0]*th + r4n[1]
	b := r4n[2]*th*th + r4n[3]*th + r4n[4]
	c := r4n[5]*th*th + r4n[6]*th + r4n[7]
	return math.Pow(2*c/(-b+math.Sqrt(b*b-4*a*c)), 4)
}

// tsat returns the saturation temperature (K) at p (MPa).
func tsat(p float64) float64 {
	beta := math.Pow(p, 0.25)
	e := beta*beta + r4n[2]*beta + r4n[5]
	f := r4n[0]*beta*beta + r4n[3]*beta + r4n[6]
	g := r4n[1]*beta*beta + r4n[4]*beta + r4n[7]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (r4n[9] + d - math.Sqrt((r4n[9]+d)*(r4n[9]+d)-4*(r4n[8]+r4n[9]*d))) / 2
}

// b23p and b23t describe the boundary between regions 2 and 3.
func b23p(t float64) float64 {
	return b23n[0] + b23n[1]*t + b23n[2]*t*t
}

func b23t(p float64) float64 {
	return b23n[3] + math.Sqrt((p-b23n[4])/b23n[2])
}

func waterPhase(region int, p, t float64) Phase {
	switch {
	case region == 1 && p > waterPc:
		return PhaseSupercriticalLiquid
	case region == 1:
		return PhaseLiquid
	case t > waterTc && p > waterPc:
		return PhaseSupercritical
	case t > waterTc:
		return PhaseSupercriticalGas
	default:
		return PhaseGas
	}
}

func waterState(region int, p, t float64, w wpoint) State {
	return State{
		P:     p * 10,
		T:     units.KelvinToCelsius(t),
		H:     w.h,
		S:     w.s,
		Rho:   1 / w.v,
		Phase: waterPhase(region, p, t),
	}
}

// waterRegion picks the IF97 region for a (p, t) pair.
func waterRegion(p, t float64) (int, error) {
	if t < waterTMin || t > waterTMax || p > waterPMax {
		return 0, fmt.Errorf("%w: IF97 covers 0–800 °C and up to 1000 bar", ErrOutOfRange)
	}
	if t <= waterT13 {
		if p >= psat(t) {
			return 1, nil
		}
		return 2, nil
	}
	if p <= b23p(t) {
		return 2, nil
	}
	return 0, fmt.Errorf("%w: near-critical region 3 is not covered", ErrOutOfRange)
}

func evalRegion(region int, p, t float64) wpoint {
	if region == 1 {
		return region1(p, t)
	}
	return region2(p, t)
}

type water struct{}

func (water) fromPT(pBar, tC float64) (State, error) {
	p := units.BarToMPa(pBar)
	t := units.CelsiusToKelvin(tC)
	region, err := waterRegion(p, t)
	if err != nil {
		return State{}, err
	}
	return waterState(region, p, t, evalRegion(region, p, t)), nil
}

func (w water) saturatedLiquid(pBar float64) (State, error) {
	p := units.BarToMPa(pBar)
	if p < waterPTrip || p > waterPSat13 {
		return State{}, fmt.Errorf("%w: saturation line covered from %.6f to %.3f bar", ErrOutOfRange, waterPTrip*10, waterPSat13*10)
	}
	ts := tsat(p)
	st := waterState(1, p, ts, region1(p, ts))
	st.Phase = PhaseTwoPhase
	st.Quality = 0
	return st, nil
}

// fromPX inverts (p, x) where x is enthalpy or entropy, selected by pick.
func (water) fromPX(pBar, x float64, pick func(wpoint) float64) (State, error) {
	p := units.BarToMPa(pBar)
	if p > waterPMax {
		return State{}, fmt.Errorf("%w: IF97 covers up to 1000 bar", ErrOutOfRange)
	}

	solveIn := func(region int, lo, hi float64) (State, error) {
		t, err := solveT(func(t float64) float64 { return pick(evalRegion(region, p, t)) }, x, lo, hi)
		if err != nil {
			return State{}, err
		}
		return waterState(region, p, t, evalRegion(region, p, t)), nil
	}

	if p < waterPTrip {
		return solveIn(2, waterTMin, waterTMax)
	}
	if p > waterPSat13 {
		// no saturation line in regions 1/2 here: liquid below 350 °C, vapour above B23
		if x <= pick(region1(p, waterT13)) {
			return solveIn(1, waterTMin, waterT13)
		}
		tb := b23t(p)
		if tb < waterTMax && x >= pick(region2(p, tb)) {
			return solveIn(2, tb, waterTMax)
		}
		return State{}, fmt.Errorf("%w: near-critical region 3 is not covered", ErrOutOfRange)
	}

	ts := tsat(p)
	liq := region1(p, ts)
	vap := region2(p, ts)
	xl, xv := pick(liq), pick(vap)
	switch {
	case x < xl:
		return solveIn(1, waterTMin, ts)
	case x > xv:
		return solveIn(2, ts, waterTMax)
	}
	q := (x - xl) / (xv - xl)
	v := liq.v + q*(vap.v-liq.v)
	return State{
		P:       pBar,
		T:       units.KelvinToCelsius(ts),
		H:       liq.h + q*(vap.h-liq.h),
		S:       liq.s + q*(vap.s-liq.s),
		Rho:     1 / v,
		Phase:   PhaseTwoPhase,
		Quality: q,
	}, nil
}

func pickH(w wpoint) float64 { return w.h }
func pickS(w wpoint) float64 { return w.s }
