/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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
 */

package archivefmt

// Strategy is the extraction mode chosen for one extraction job.
type Strategy uint8

const (
	StrategySelective Strategy = iota
	StrategyFull
)

func (s Strategy) String() string {
	if s == StrategyFull {
		return "full"
	}
	return "selective"
}

// selectiveCountCap and selectiveRatioCap are the two halves of the shared
// strategy choice: selective wins only when needed_count < 64 AND
// needed/total < 0.5 AND the format supports random access.
const (
	selectiveCountCap = 64
	selectiveRatioCap = 0.5
)

// Select implements the shared selective-vs-full strategy function.
// neededCount and totalCount describe the extraction job; randomAccess
// comes from the bound Reader.RandomAccess().
func Select(neededCount, totalCount int, randomAccess bool) Strategy {
	if !randomAccess {
		return StrategyFull
	}
	if neededCount >= selectiveCountCap {
		return StrategyFull
	}
	if totalCount == 0 {
		return StrategySelective
	}
	if float64(neededCount)/float64(totalCount) >= selectiveRatioCap {
		return StrategyFull
	}
	return StrategySelective
}
