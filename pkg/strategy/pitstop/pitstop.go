// Package pitstop searches the pit stop schedule with the lowest total race
// time for the remaining laps using the tire degradation model.
package pitstop

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/strategy/tire"
)

const (
	DefaultPitLaneTimeCost = 25.0
	// two stops are only considered if at least this number of laps remain
	DefaultMinLapsForTwoStops = 21
	minGain                   = 1e-9
)

type (
	Params struct {
		CurrentLap         int     // last completed lap
		TotalLaps          int     // laps of the race
		DegradationRate    float64 // per lap wear rate
		BaseLapTime        float64 // lap time on fresh tires in seconds
		PitLaneTimeCost    float64 // time lost per stop in seconds
		TireAge            int     // laps completed on the current set at CurrentLap
		MaxDegradation     float64 // cap of the degradation, 0 means default
		MinLapsForTwoStops int     // 0 means default
	}
	Result struct {
		*model.StrategyResult
		Parts []Part
	}
	Optimizer interface {
		Calc() (*Result, error)
	}
)

type (
	candidate struct {
		strategyType model.StrategyType
		stops        []int
		total        float64
	}
	optimizer struct {
		param     *Params
		tires     *tire.Model
		remaining int
		// cumCur[k]: time of k laps on the current set
		cumCur []float64
		// cumFresh[k]: time of k laps on a fresh set
		cumFresh []float64
	}
)

func NewOptimizer(param *Params) Optimizer {
	return &optimizer{param: param}
}

// Optimize is a shortcut for NewOptimizer(param).Calc()
func Optimize(param *Params) (*Result, error) {
	return NewOptimizer(param).Calc()
}

//nolint:funlen // readability
func (o *optimizer) Calc() (*Result, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	p := o.param
	o.remaining = p.TotalLaps - p.CurrentLap
	o.tires = tire.NewModel(p.DegradationRate,
		tire.WithBaseLapTime(p.BaseLapTime),
		tire.WithMaxDegradation(lo.Ternary(p.MaxDegradation > 0,
			p.MaxDegradation, tire.DefaultMaxDegradation)))
	o.cumCur = o.tires.CumulativeStintTimes(p.TireAge, o.remaining)
	o.cumFresh = o.tires.CumulativeStintTimes(0, o.remaining)

	noPit := candidate{
		strategyType: model.StrategyNoPit,
		stops:        []int{},
		total:        o.cumCur[o.remaining],
	}
	candidates := []candidate{noPit}
	if c, ok := o.bestOneStop(); ok {
		candidates = append(candidates, c)
	}
	if c, ok := o.bestTwoStops(); ok {
		candidates = append(candidates, c)
	}

	chosen := noPit
	for _, c := range candidates[1:] {
		if c.total < chosen.total {
			chosen = c
		}
	}
	gain := noPit.total - chosen.total
	if gain <= minGain {
		chosen = noPit
		gain = 0
	}

	ret := &model.StrategyResult{
		StrategyType:    chosen.strategyType,
		RecommendedLaps: chosen.stops,
		TimeGain:        gain,
		TimeLoss:        float64(len(chosen.stops)) * p.PitLaneTimeCost,
		TireDegradation: o.degradationMap(chosen.stops),
		Candidates: lo.Map(candidates, func(c candidate, _ int) model.StrategyCandidate {
			return model.StrategyCandidate{
				StrategyType:    c.strategyType,
				RecommendedLaps: c.stops,
				TotalTime:       c.total,
			}
		}),
	}
	ret.Reasoning = o.reasoning(chosen, candidates, gain)
	return &Result{StrategyResult: ret, Parts: o.parts(chosen.stops)}, nil
}

func (o *optimizer) validate() error {
	p := o.param
	switch {
	case p == nil:
		return fmt.Errorf("%w: missing parameters", model.ErrNotApplicable)
	case p.CurrentLap < 0:
		return fmt.Errorf("%w: negative current lap %d", model.ErrNotApplicable, p.CurrentLap)
	case p.CurrentLap >= p.TotalLaps:
		return fmt.Errorf("%w: current lap %d, total laps %d",
			model.ErrNotApplicable, p.CurrentLap, p.TotalLaps)
	case p.BaseLapTime <= 0 || math.IsNaN(p.BaseLapTime) || math.IsInf(p.BaseLapTime, 0):
		return fmt.Errorf("%w: invalid base lap time %v", model.ErrNotApplicable, p.BaseLapTime)
	case p.PitLaneTimeCost < 0:
		return fmt.Errorf("%w: negative pit lane cost %v",
			model.ErrNotApplicable, p.PitLaneTimeCost)
	case p.TireAge < 0:
		return fmt.Errorf("%w: negative tire age %d", model.ErrNotApplicable, p.TireAge)
	}
	return nil
}

// stop laps are in [CurrentLap+1, TotalLaps-1]; a stop at lap s fits a
// fresh set at the end of lap s.
func (o *optimizer) bestOneStop() (candidate, bool) {
	p := o.param
	best := candidate{strategyType: model.StrategyOnePit, total: math.Inf(1)}
	for s := p.CurrentLap + 1; s <= p.TotalLaps-1; s++ {
		total := o.cumCur[s-p.CurrentLap] + p.PitLaneTimeCost + o.cumFresh[p.TotalLaps-s]
		if total < best.total {
			best.total = total
			best.stops = []int{s}
		}
	}
	return best, best.stops != nil
}

func (o *optimizer) bestTwoStops() (candidate, bool) {
	p := o.param
	minLaps := lo.Ternary(p.MinLapsForTwoStops > 0,
		p.MinLapsForTwoStops, DefaultMinLapsForTwoStops)
	if o.remaining < minLaps {
		return candidate{}, false
	}
	best := candidate{strategyType: model.StrategyTwoPit, total: math.Inf(1)}
	for s1 := p.CurrentLap + 1; s1 <= p.TotalLaps-2; s1++ {
		first := o.cumCur[s1-p.CurrentLap] + 2*p.PitLaneTimeCost
		for s2 := s1 + 1; s2 <= p.TotalLaps-1; s2++ {
			total := first + o.cumFresh[s2-s1] + o.cumFresh[p.TotalLaps-s2]
			if total < best.total {
				best.total = total
				best.stops = []int{s1, s2}
			}
		}
	}
	return best, best.stops != nil
}

// degradationMap returns the wear of the set on the car at the end of each
// lap from CurrentLap to TotalLaps. Stop laps report the fresh set.
func (o *optimizer) degradationMap(stops []int) map[int]float64 {
	p := o.param
	ret := make(map[int]float64, o.remaining+1)
	age := p.TireAge
	ret[p.CurrentLap] = o.tires.Degradation(age)
	for l := p.CurrentLap + 1; l <= p.TotalLaps; l++ {
		age++
		if lo.Contains(stops, l) {
			age = 0
		}
		ret[l] = o.tires.Degradation(age)
	}
	return ret
}

func (o *optimizer) parts(stops []int) []Part {
	p := o.param
	ret := make([]Part, 0, 2*len(stops)+1)
	start := p.CurrentLap + 1
	startAge := p.TireAge
	for _, end := range append(append([]int{}, stops...), p.TotalLaps) {
		laps := end - start + 1
		ret = append(ret, &stintPart{
			laps:      laps,
			lapStart:  start,
			lapEnd:    end,
			startAge:  startAge,
			stintTime: toDuration(o.tires.StintTime(startAge, laps)),
		})
		if end < p.TotalLaps {
			ret = append(ret, &pitPart{lap: end, pitTime: toDuration(p.PitLaneTimeCost)})
		}
		start = end + 1
		startAge = 0
	}
	return ret
}

// breakEvenLap returns the first lap at which the accumulated degradation
// loss on the current set exceeds the pit lane cost, 0 if never reached.
func (o *optimizer) breakEvenLap() int {
	p := o.param
	loss := 0.0
	for l := p.CurrentLap + 1; l <= p.TotalLaps; l++ {
		loss += o.tires.LapTime(p.TireAge+l-p.CurrentLap-1) - p.BaseLapTime
		if loss > p.PitLaneTimeCost {
			return l
		}
	}
	return 0
}

//nolint:whitespace // can't make both editor and linter happy
func (o *optimizer) reasoning(
	chosen candidate, candidates []candidate, gain float64,
) string {
	p := o.param
	switch chosen.strategyType {
	case model.StrategyOnePit:
		lap := o.breakEvenLap()
		if lap == 0 {
			lap = chosen.stops[0]
		}
		return fmt.Sprintf("Pit at lap %d: tire degradation exceeds the %.1fs pit-lane cost "+
			"after lap %d, saving %.1fs over staying out.",
			chosen.stops[0], p.PitLaneTimeCost, lap, gain)
	case model.StrategyTwoPit:
		return fmt.Sprintf("Pit at laps %d and %d: degradation over the remaining %d laps "+
			"outweighs two pit-lane visits of %.1fs each, saving %.1fs over staying out.",
			chosen.stops[0], chosen.stops[1], o.remaining, p.PitLaneTimeCost, gain)
	case model.StrategyNoPit:
	}

	if p.DegradationRate <= 0 {
		return fmt.Sprintf("No tire degradation: staying out avoids the %.1fs pit-lane cost.",
			p.PitLaneTimeCost)
	}
	if len(candidates) == 1 {
		return fmt.Sprintf("Only %d lap(s) remaining: no pit stop can pay off.", o.remaining)
	}
	alt := lo.MinBy(candidates[1:], func(a, b candidate) bool { return a.total < b.total })
	return fmt.Sprintf("Staying out is fastest: the best alternative (%s) "+
		"would lose %.1fs including the %.1fs pit-lane cost per stop.",
		alt.strategyType, alt.total-chosen.total, p.PitLaneTimeCost)
}
