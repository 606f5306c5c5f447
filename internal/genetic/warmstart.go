package genetic

import (
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
)

// interleaveOrder is the period sequence WarmStart assigns to the
// genes on one day: odd periods first, then even, so a day's load
// spreads across the morning/afternoon split instead of clustering on
// whichever period the builder happened to draw most often.
var interleaveOrder = []timeslot.Period{1, 3, 5, 2, 4}

// WarmStart is the one-shot diversification pass run once per freshly
// built chromosome, before it enters the initial population: it
// groups genes by day and reassigns each day's periods in
// morning/afternoon-interleaved order. It does not touch room,
// lecturer or course assignment, and it does not re-check conflicts —
// any new overlap it introduces surfaces the same as any other, on
// the next evaluation.
func WarmStart(c *schedule.Chromosome) {
	byDay := map[timeslot.Day][]int{}
	for i, it := range c.Items {
		byDay[it.Day] = append(byDay[it.Day], i)
	}

	for _, indices := range byDay {
		for pos, idx := range indices {
			period := interleaveOrder[pos%len(interleaveOrder)]
			start, end, err := timeslot.PeriodToTime(period)
			if err != nil {
				continue
			}
			c.Items[idx].Start = start
			c.Items[idx].End = end
		}
	}
}
