/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package pidcontroller implements a small proportional-integral-derivative
// controller used to generate a non-linear sequence of intermediate points
// between two values (used by duration.Duration.RangeTo's backoff-style
// interpolation).
package pidcontroller

import "context"

// Controller is a classic PID feedback loop driving a moving "position"
// towards a target, sampled at each step to build a range of intermediate
// values.
type Controller struct {
	rateP float64
	rateI float64
	rateD float64
}

// New creates a Controller with the given proportional, integral and
// derivative rates.
func New(rateP, rateI, rateD float64) *Controller {
	return &Controller{rateP: rateP, rateI: rateI, rateD: rateD}
}

// RangeCtx walks from to target in steps sized by the PID loop's output,
// returning the visited positions in order. It stops early if ctx is
// cancelled, once the target is reached or passed, or after a fixed safety
// bound of 64 steps.
func (c *Controller) RangeCtx(ctx context.Context, from, to float64) []float64 {
	var (
		out       = make([]float64, 0)
		pos       = from
		integral  = 0.0
		prevError = to - from
		maxSteps  = 64
	)

	if from == to {
		return []float64{from}
	}

	direction := 1.0
	if to < from {
		direction = -1.0
	}

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		err := to - pos
		if (direction > 0 && err <= 0) || (direction < 0 && err >= 0) {
			break
		}

		integral += err
		derivative := err - prevError
		prevError = err

		step := c.rateP*err + c.rateI*integral + c.rateD*derivative
		if step == 0 {
			break
		}

		// Keep the walk monotonic towards the target even if the PID output
		// overshoots or reverses sign.
		if (direction > 0 && step <= 0) || (direction < 0 && step >= 0) {
			step = err / 2
		}

		pos += step
		out = append(out, pos)
	}

	return out
}
