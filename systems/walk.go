package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antsim/perception"
	"github.com/pthm-cable/antsim/vecmath"
)

// Walk algorithm:
// 1. advance the chaotic iterate: t' = C*t*(1-t)
// 2. mix a chaos-based delta with a random delta, divide by TurnDivisor
// 3. add that delta to the heading unconditionally
// 4. with a target: turn toward its bearing, clamped to MaxTurn along the
//    short way round, blended at TargetWeight
// 5. without a target: sniff and blend a sensed trail in at SniffWeight gated
//    by a logistic of its magnitude
// 6. step WalkSpeed along the heading; leaving the field is ErrOutOfBounds

// walk moves the agent one step, steering toward target when non-nil.
func (a *Agent) walk(target *r2.Vec) error {
	c := a.colony
	w := c.walk

	a.advanceTurning()

	chaos := a.turning - 0.5
	noise := a.rng.Float64() - 0.5
	delta, err := vecmath.MixWeighted(
		vecmath.Weighted{Value: chaos, Weight: c.Tuning.NoiseMix},
		vecmath.Weighted{Value: noise, Weight: 1 - c.Tuning.NoiseMix},
	)
	if err != nil {
		return fmt.Errorf("ant %d noise: %w", a.ID, err)
	}
	delta /= w.TurnDivisor
	heading := a.heading + delta

	a.trace = walkTrace{noise: delta}

	if target != nil {
		bearing, err := vecmath.VectorToHeading(r2.Sub(*target, a.cur.Position))
		switch {
		case errors.Is(err, vecmath.ErrDegenerateDirection):
			// standing on the target, keep the noisy heading
		case err != nil:
			return fmt.Errorf("ant %d bearing: %w", a.ID, err)
		default:
			a.trace.target = perception.Reading{Heading: bearing, Magnitude: 1}
			a.trace.hasTarget = true
			if heading, err = a.steer(heading, bearing, w.TargetWeight); err != nil {
				return err
			}
		}
	} else {
		reading := a.sniff()
		a.trace.sniffed = reading
		if reading.Magnitude > c.percept.Threshold {
			gate := vecmath.Logistic(reading.Magnitude, w.LogisticMidpoint, w.LogisticScale, w.LogisticRate)
			if heading, err = a.steer(heading, reading.Heading, w.SniffWeight*gate); err != nil {
				return err
			}
		}
	}

	a.heading = vecmath.Wrap(heading)

	next := r2.Add(a.cur.Position, r2.Scale(w.WalkSpeed, vecmath.HeadingToUnit(a.heading)))
	if !c.field.InBounds(next) {
		return fmt.Errorf("%w: ant %d escaped the map at (%.2f, %.2f)", ErrOutOfBounds, a.ID, next.X, next.Y)
	}
	a.next.Position = next
	return nil
}

// advanceTurning iterates the logistic map. The iterate is reseeded if it
// lands on 0, 1 or the fixed point 3/4, where the map would stop moving.
func (a *Agent) advanceTurning() {
	t := a.colony.Tuning.ChaoticConstant * a.turning * (1 - a.turning)
	if t <= 0 || t >= 1 || t == 0.75 {
		t = randomTurning(a.rng.Float64())
	}
	a.turning = t
}

// randomTurning maps u in [0,1) to a safe starting iterate in (0,1).
func randomTurning(u float64) float64 {
	return 0.01 + 0.98*u
}

// steer blends a clamped turn toward `toward` into heading.
func (a *Agent) steer(heading, toward, weight float64) (float64, error) {
	maxTurn := a.colony.walk.MaxTurn
	turn := vecmath.Clamp(vecmath.Delta(heading, toward), -maxTurn, maxTurn)
	mixed, err := vecmath.MixWeighted(
		vecmath.Weighted{Value: heading + turn, Weight: weight},
		vecmath.Weighted{Value: heading, Weight: 1 - weight},
	)
	if err != nil {
		return heading, fmt.Errorf("ant %d steer: %w", a.ID, err)
	}
	return mixed, nil
}

// sniff reads the field around the agent. Tier 1 looks for a single trail
// line in a small window; tier 2 falls back to the wide weighted kernel.
func (a *Agent) sniff() perception.Reading {
	c := a.colony
	pf := c.percept
	pos := a.cur.Position

	trail := c.field.Sample(pos, pf.Trail.Radius)
	if h, ok := vecmath.DetectLine(pf.Trail.Weigh(trail)); ok {
		if mag := mat.Sum(trail); mag > pf.Threshold {
			// Trails read the same both ways; follow the one leading away
			// from home.
			if homeBearing, err := vecmath.VectorToHeading(r2.Sub(c.position, pos)); err == nil &&
				math.Abs(vecmath.Delta(h, homeBearing)) < 0.25 {
				h = vecmath.Wrap(h + 0.5)
			}
			return perception.Reading{Heading: h, Magnitude: mag}
		}
	}

	return pf.Sniff(c.field.Sample(pos, pf.Wide.Radius))
}
