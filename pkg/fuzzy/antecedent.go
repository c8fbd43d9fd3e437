/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: antecedent.go
Description: Fuzzy antecedents with trapezoidal membership functions. Candidate antecedents
for an attribute are derived from the per-class attribute means: the sorted means become the
breakpoints, so each class gets a trapezoid centred on its own mean and ramping towards
its neighbours.
*/

package fuzzy

import (
	"fmt"
	"math"
	"sort"

	"github.com/kleascm/frbdt/pkg/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Antecedent is a single fuzzy condition over one attribute.
// Breakpoints holds (a, b, c, d) with a <= b <= c <= d; the open ends may be infinite.
type Antecedent struct {
	Attribute   int        // Index of the input attribute
	Name        string     // Attribute name, kept for descriptions
	Breakpoints [4]float64 // Trapezoid corners a, b, c, d
	Class       int        // Class this condition was derived to separate
}

// NewAntecedent creates an antecedent after checking the breakpoint order
func NewAntecedent(attr dataset.Attribute, a, b, c, d float64, class int) (Antecedent, error) {
	for _, v := range []float64{a, b, c, d} {
		if math.IsNaN(v) {
			return Antecedent{}, fmt.Errorf("antecedent on %q has a NaN breakpoint", attr.Name)
		}
	}
	if !(a <= b && b <= c && c <= d) {
		return Antecedent{}, fmt.Errorf("antecedent on %q has unordered breakpoints [%g,%g,%g,%g]", attr.Name, a, b, c, d)
	}
	// an infinite corner must collapse its ramp, otherwise the ramp evaluates Inf/Inf
	if (math.IsInf(a, -1) && !math.IsInf(b, -1)) || (math.IsInf(d, 1) && !math.IsInf(c, 1)) {
		return Antecedent{}, fmt.Errorf("antecedent on %q has an unbounded ramp [%g,%g,%g,%g]", attr.Name, a, b, c, d)
	}
	return Antecedent{
		Attribute:   attr.Index,
		Name:        attr.Name,
		Breakpoints: [4]float64{a, b, c, d},
		Class:       class,
	}, nil
}

// Membership returns the trapezoidal membership degree of x in [0,1].
// Degenerate ramps (a == b or c == d) behave as steps.
func (ant Antecedent) Membership(x float64) float64 {
	a, b, c, d := ant.Breakpoints[0], ant.Breakpoints[1], ant.Breakpoints[2], ant.Breakpoints[3]
	switch {
	case x >= b && x <= c:
		return 1
	case x > a && x < b:
		return (x - a) / (b - a)
	case x > c && x < d:
		return (d - x) / (d - c)
	default:
		return 0
	}
}

// Degree returns the membership degree of an instance's value for this attribute
func (ant Antecedent) Degree(in dataset.Instance) float64 {
	return ant.Membership(in.Value(ant.Attribute))
}

// String renders the antecedent as name=[a,b,c,d]
func (ant Antecedent) String() string {
	bp := ant.Breakpoints
	return fmt.Sprintf("%s=[%g,%g,%g,%g]", ant.Name, bp[0], bp[1], bp[2], bp[3])
}

// Candidates builds one antecedent per class with nonzero apriori weight for
// attribute attr. prior is the class-weight histogram of data.
func Candidates(data *dataset.Dataset, attr int, prior []float64) []Antecedent {
	attribute := data.Attribute(attr)

	classes := make([]int, 0, len(prior))
	means := make([]float64, 0, len(prior))
	for c, w := range prior {
		if w == 0 {
			continue
		}
		values, weights := data.Column(attr, c)
		classes = append(classes, c)
		means = append(means, classMean(values, weights))
	}

	switch len(classes) {
	case 0:
		return nil
	case 1:
		inf := math.Inf(1)
		return []Antecedent{newCandidate(attribute, -inf, -inf, inf, inf, classes[0])}
	}

	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return means[order[i]] < means[order[j]] })

	n := len(order)
	out := make([]Antecedent, 0, n)
	for i, k := range order {
		var a, b, c, d float64
		switch i {
		case 0:
			a, b, c, d = math.Inf(-1), math.Inf(-1), means[k], means[order[i+1]]
		case n - 1:
			a, b, c, d = means[order[i-1]], means[k], math.Inf(1), math.Inf(1)
		default:
			a, b, c, d = means[order[i-1]], means[k], means[k], means[order[i+1]]
		}
		out = append(out, newCandidate(attribute, a, b, c, d, classes[k]))
	}
	return out
}

// CandidateFor returns the candidate antecedent of attr targeting class
func CandidateFor(data *dataset.Dataset, attr int, prior []float64, class int) (Antecedent, bool) {
	for _, ant := range Candidates(data, attr, prior) {
		if ant.Class == class {
			return ant, true
		}
	}
	return Antecedent{}, false
}

func newCandidate(attr dataset.Attribute, a, b, c, d float64, class int) Antecedent {
	return Antecedent{Attribute: attr.Index, Name: attr.Name, Breakpoints: [4]float64{a, b, c, d}, Class: class}
}

// classMean is the weighted mean of the present (non-NaN) values
func classMean(values, weights []float64) float64 {
	xs := make([]float64, 0, len(values))
	ws := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, v)
		ws = append(ws, weights[i])
	}
	if len(xs) == 0 {
		return 0
	}
	if floats.Sum(ws) == 0 {
		return stat.Mean(xs, nil)
	}
	return stat.Mean(xs, ws)
}
