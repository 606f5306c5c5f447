// Package fitness implements the single conflict-detection and
// scoring pass every chromosome goes through: per-gene checks,
// pairwise overlap detection, the institutional constraint catalogue,
// and the fitness mapping that is discontinuous at zero hard
// violations. This is the only evaluator the core exposes — the
// source's second, unused constraint-processing path is folded in
// here rather than kept as a separate dead code path.
package fitness

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
)

// Penalty weights, one entry per conflict kind. Values come straight
// from the penalty schedule; the two catalogue-only kinds
// (InsufficientRestTime, NonACEveningClass) have no fixed-table entry
// and use the literal weights the source assigns them.
const (
	weightMissingCourse    = 50000.0
	weightLabInNonLab      = 50000.0
	weightIncorrectLect    = 50000.0
	weightPrayerConflict   = 50000.0
	weightRoomCapacity     = 10000.0
	weightRoomOverlap      = 10000.0
	weightLecturerOverlap  = 10000.0
	weightStudentOverlap   = 10000.0
	weightUnderScheduled   = 10000.0
	weightOverScheduled    = 10.0
	weightWeekendClass     = 1.0
	weightEarlyMorning     = 0.5
	weightLateEvening      = 0.5
	weightInsufficientRest = 0.5
	weightNonACEvening     = 1.0

	// NoWeekendClasses uses its own literals, matching the source's
	// _process_constraints: Sunday is escalated to hard, any other
	// listed day stays soft.
	weightNoWeekendHard = 10.0
	weightNoWeekendSoft = 0.5

	utilizationSlots = float64(timeslot.PeriodsPerDay * 5)
)

// Evaluate scores c against snap in place: it rebuilds c.Fitness,
// c.HardViolations, c.SoftViolations and c.Conflicts from scratch.
// Evaluate performs no random draws and has no side effects on snap,
// so it is safe to call concurrently across distinct chromosomes.
func Evaluate(snap *catalogue.Snapshot, c *schedule.Chromosome) {
	c.ResetEvaluation()

	var hard, soft float64
	var raw []schedule.Conflict

	roomIdx := map[string][]int{}
	lecturerIdx := map[string][]int{}
	groupIdx := map[string][]int{}
	sessionsScheduled := map[string]int{}

	for i, it := range c.Items {
		course, ok := snap.Courses[it.CourseID]
		if !ok {
			raw = append(raw, schedule.Conflict{
				Type:        schedule.MissingCourse,
				Description: fmt.Sprintf("course %s not found in catalogue", it.CourseID),
				Items:       []schedule.Item{it},
				Severity:    schedule.Hard,
			})
			hard += weightMissingCourse
			continue
		}
		sessionsScheduled[it.CourseID]++

		if room, ok := snap.Rooms[it.RoomID]; ok {
			if room.Capacity < course.Students {
				raw = append(raw, schedule.Conflict{
					Type:         schedule.RoomCapacity,
					Description:  fmt.Sprintf("room %s (capacity %d) too small for course %s (%d students)", it.RoomID, room.Capacity, course.Name, course.Students),
					Items:        []schedule.Item{it},
					ConstraintID: "HC3",
					Severity:     schedule.Hard,
				})
				hard += weightRoomCapacity
			}
			if course.IsLab() && !room.IsLab() {
				raw = append(raw, schedule.Conflict{
					Type:         schedule.LabCourseInNonLabRoom,
					Description:  fmt.Sprintf("lab course %s scheduled in non-lab room %s", course.Name, it.RoomName),
					Items:        []schedule.Item{it},
					ConstraintID: "HC4",
					Severity:     schedule.Hard,
				})
				hard += weightLabInNonLab
			}
		}

		if expected, ok := snap.CourseLecturer[it.CourseID]; !ok || expected != it.LecturerID {
			// A course absent from the course->lecturer map has no
			// expected assignment at all, so whatever lecturer ended
			// up on the gene (the builder's random fallback, per
			// spec.md §4.C) is necessarily wrong too - not just a
			// mismatch against a known-good value.
			desc := fmt.Sprintf("course %s has no catalogue lecturer assignment, scheduled with %s", course.Name, it.LecturerID)
			if ok {
				desc = fmt.Sprintf("course %s assigned to wrong lecturer %s (should be %s)", course.Name, it.LecturerID, expected)
			}
			raw = append(raw, schedule.Conflict{
				Type:         schedule.IncorrectLecturer,
				Description:  desc,
				Items:        []schedule.Item{it},
				ConstraintID: "HC7",
				Severity:     schedule.Hard,
			})
			hard += weightIncorrectLect
		}

		if timeslot.ViolatesPrayer(it.Slot()) {
			raw = append(raw, schedule.Conflict{
				Type:         schedule.PrayerTimeConflict,
				Description:  "class scheduled during Friday prayer time (12:30-14:30)",
				Items:        []schedule.Item{it},
				ConstraintID: "HC13",
				Severity:     schedule.Hard,
			})
			hard += weightPrayerConflict
		}

		roomIdx[it.RoomID] = append(roomIdx[it.RoomID], i)
		lecturerIdx[it.LecturerID] = append(lecturerIdx[it.LecturerID], i)
		group := course.Group()
		groupIdx[group] = append(groupIdx[group], i)

		if !it.Day.IsWeekday() {
			raw = append(raw, schedule.Conflict{
				Type:         schedule.WeekendClass,
				Description:  fmt.Sprintf("class scheduled on weekend: %s", it.Day),
				Items:        []schedule.Item{it},
				ConstraintID: "SC4",
				Severity:     schedule.Soft,
			})
			soft += weightWeekendClass
		}
		if timeslot.InWindowIgnoringDay(it.Slot(), timeslot.EarlyMorningWindow) {
			raw = append(raw, schedule.Conflict{
				Type:         schedule.EarlyMorning,
				Description:  "class scheduled during early morning hours (8:30-10:00)",
				Items:        []schedule.Item{it},
				ConstraintID: "SC1",
				Severity:     schedule.Soft,
			})
			soft += weightEarlyMorning
		}
		if timeslot.InWindowIgnoringDay(it.Slot(), timeslot.LateEveningWindow) {
			raw = append(raw, schedule.Conflict{
				Type:         schedule.LateEvening,
				Description:  "class scheduled during late evening hours (16:00-18:30)",
				Items:        []schedule.Item{it},
				ConstraintID: "SC2",
				Severity:     schedule.Soft,
			})
			soft += weightLateEvening
		}

		h, s, cs := applyConstraints(snap, it)
		hard += h
		soft += s
		raw = append(raw, cs...)
	}

	// Pass 2: pairwise overlap within each index. Penalty is added
	// once per distinct (type, course-id group), mirroring the
	// source's processed_conflicts set.
	processed := map[string]bool{}
	addOverlap := func(idx map[string][]int, key, conflictType, constraintID, description string, weight float64, addTo *float64) {
		for _, i := range idx[key] {
			peers := overlapPeers(c.Items, idx[key], i)
			if len(peers) == 0 {
				continue
			}
			ids := []string{c.Items[i].CourseID}
			items := []schedule.Item{c.Items[i]}
			for _, j := range peers {
				ids = append(ids, c.Items[j].CourseID)
				items = append(items, c.Items[j])
			}
			gk := groupKey(conflictType, ids)
			if processed[gk] {
				continue
			}
			processed[gk] = true
			raw = append(raw, schedule.Conflict{
				Type:         conflictType,
				Description:  description,
				Items:        items,
				ConstraintID: constraintID,
				Severity:     schedule.Hard,
			})
			*addTo += weight
		}
	}
	// Keys are visited in sorted order so the conflict list (which the
	// repair pass walks while drawing from the RNG) is reproducible.
	for _, roomID := range sortedKeys(roomIdx) {
		addOverlap(roomIdx, roomID, schedule.RoomOverlap, "HC2", fmt.Sprintf("room %s double-booked", roomID), weightRoomOverlap, &hard)
	}
	for _, lecturerID := range sortedKeys(lecturerIdx) {
		addOverlap(lecturerIdx, lecturerID, schedule.LecturerOverlap, "HC1", fmt.Sprintf("lecturer %s has overlapping classes", lecturerID), weightLecturerOverlap, &hard)
	}
	for _, group := range sortedKeys(groupIdx) {
		addOverlap(groupIdx, group, schedule.StudentOverlap, "HC5", fmt.Sprintf("student group %s has overlapping classes", group), weightStudentOverlap, &hard)
	}

	hard2, soft2, restRaw := consecutiveLectureConflicts(snap, c.Items, lecturerIdx)
	hard += hard2
	soft += soft2
	raw = append(raw, restRaw...)

	// Global checks: under/over-scheduled courses.
	for _, id := range snap.OrderedCourseIDs {
		course := snap.Courses[id]
		needed := course.SessionsRequired()
		scheduled := sessionsScheduled[id]
		if scheduled < needed {
			raw = append(raw, schedule.Conflict{
				Type:         schedule.UnderScheduled,
				Description:  fmt.Sprintf("%s has only %d/%d sessions scheduled", course.Name, scheduled, needed),
				Items:        itemsOf(c.Items, id),
				ConstraintID: "HC9",
				Severity:     schedule.Hard,
			})
			hard += float64(needed-scheduled) * weightUnderScheduled
		} else if scheduled > needed {
			raw = append(raw, schedule.Conflict{
				Type:         schedule.OverScheduled,
				Description:  fmt.Sprintf("%s has %d/%d sessions (too many)", course.Name, scheduled, needed),
				Items:        itemsOf(c.Items, id),
				ConstraintID: "SC1",
				Severity:     schedule.Soft,
			})
			soft += float64(scheduled-needed) * weightOverScheduled
		}
	}

	used := map[string]struct{}{}
	for _, it := range c.Items {
		used[fmt.Sprintf("%s|%d|%d", it.Day, it.Start, it.End)] = struct{}{}
	}
	utilization := float64(len(used)) / utilizationSlots
	if utilization < 1 {
		shortfall := (1 - utilization) * 5
		soft += shortfall
		raw = append(raw, schedule.Conflict{
			Type:        schedule.UtilizationShortfall,
			Description: fmt.Sprintf("only %.0f%% of the week's timeslots are used", utilization*100),
			Severity:    schedule.Soft,
		})
	}

	c.Conflicts = schedule.MergeConflicts(raw)
	for _, conf := range c.Conflicts {
		if conf.Severity == schedule.Hard {
			c.HardViolations++
		} else {
			c.SoftViolations++
		}
	}

	if hard > 0 {
		c.Fitness = 1 / (1 + hard)
	} else {
		c.Fitness = 1 + 1/(1+soft)
	}
}

func overlapPeers(items []schedule.Item, idx []int, i int) []int {
	var peers []int
	for _, j := range idx {
		if j == i || items[j].CourseID == items[i].CourseID {
			continue
		}
		if items[i].Slot().Overlaps(items[j].Slot()) {
			peers = append(peers, j)
		}
	}
	return peers
}

func sortedKeys(idx map[string][]int) []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func groupKey(conflictType string, courseIDs []string) string {
	ids := append([]string(nil), courseIDs...)
	sort.Strings(ids)
	return conflictType + "|" + strings.Join(ids, ",")
}

func itemsOf(items []schedule.Item, courseID string) []schedule.Item {
	var out []schedule.Item
	for _, it := range items {
		if it.CourseID == courseID {
			out = append(out, it)
		}
	}
	return out
}

// applyConstraints folds the institutional constraint catalogue's
// per-gene checks into the evaluator: every type spec.md's constraint
// enumeration lists is honoured here, where the source left this logic
// in an unreachable second evaluator.
func applyConstraints(snap *catalogue.Snapshot, it schedule.Item) (hard, soft float64, raw []schedule.Conflict) {
	for _, ct := range snap.Constraints {
		if !ct.AppliesTo(it.CourseID, it.LecturerID, it.RoomID) {
			continue
		}
		switch ct.NormalizedType() {
		case catalogue.NoWeekendClasses:
			days := parseDayList(ct.Value)
			if !containsDay(days, it.Day) {
				continue
			}
			if it.Day == timeslot.Sunday {
				hard += weightNoWeekendHard
				raw = append(raw, schedule.Conflict{
					Type: schedule.WeekendClass, Description: fmt.Sprintf("class scheduled on constrained day %s", it.Day),
					Items: []schedule.Item{it}, ConstraintID: ct.ID, Severity: schedule.Hard,
				})
			} else {
				soft += weightNoWeekendSoft
				raw = append(raw, schedule.Conflict{
					Type: schedule.WeekendClass, Description: fmt.Sprintf("class scheduled on constrained day %s", it.Day),
					Items: []schedule.Item{it}, ConstraintID: ct.ID, Severity: schedule.Soft,
				})
			}

		case catalogue.AvoidEarlyMorningClass:
			if win, ok := parseWindow(ct.Value); ok && timeslot.InWindowIgnoringDay(it.Slot(), win) {
				soft += weightEarlyMorning
				raw = append(raw, schedule.Conflict{
					Type: schedule.EarlyMorning, Description: fmt.Sprintf("class scheduled during restricted early hours %s", ct.Value),
					Items: []schedule.Item{it}, ConstraintID: ct.ID, Severity: schedule.Soft,
				})
			}

		case catalogue.AvoidLateNightClass:
			if win, ok := parseWindow(ct.Value); ok && timeslot.InWindowIgnoringDay(it.Slot(), win) {
				soft += weightLateEvening
				raw = append(raw, schedule.Conflict{
					Type: schedule.LateEvening, Description: fmt.Sprintf("class scheduled during restricted late hours %s", ct.Value),
					Items: []schedule.Item{it}, ConstraintID: ct.ID, Severity: schedule.Soft,
				})
			}

		case catalogue.PrayerTimeFriday:
			if it.Day != timeslot.Friday {
				continue
			}
			win, ok := parseWindow(ct.Value)
			if !ok {
				continue
			}
			win.Day = timeslot.Friday
			if it.Slot().Overlaps(win) {
				hard += weightPrayerConflict
				raw = append(raw, schedule.Conflict{
					Type: schedule.PrayerTimeConflict, Description: fmt.Sprintf("class scheduled during Friday prayer time %s", ct.Value),
					Items: []schedule.Item{it}, ConstraintID: ct.ID, Severity: schedule.Hard,
				})
			}

		case catalogue.EveningLecturesInACRooms:
			win, ok := parseWindow(ct.Value)
			if !ok || !timeslot.InWindowIgnoringDay(it.Slot(), win) {
				continue
			}
			if room, ok := snap.Rooms[it.RoomID]; ok && !room.HasAC {
				soft += weightNonACEvening
				raw = append(raw, schedule.Conflict{
					Type: schedule.NonACEveningClass, Description: fmt.Sprintf("evening class in non-AC room %s", it.RoomName),
					Items: []schedule.Item{it}, ConstraintID: ct.ID, Severity: schedule.Soft,
				})
			}

		case catalogue.AvoidConsecutiveLectures:
			// handled in consecutiveLectureConflicts, which needs
			// visibility of every other booking for the lecturer.
		}
	}
	return hard, soft, raw
}

// consecutiveLectureConflicts implements AVOID_CONSECUTIVE_LECTURES:
// for every scoped constraint, every same-day pair of a lecturer's
// bookings closer together than the constraint's rest-minute value
// emits one INSUFFICIENT_REST_TIME conflict.
func consecutiveLectureConflicts(snap *catalogue.Snapshot, items []schedule.Item, lecturerIdx map[string][]int) (hard, soft float64, raw []schedule.Conflict) {
	for _, ct := range snap.Constraints {
		if ct.NormalizedType() != catalogue.AvoidConsecutiveLectures {
			continue
		}
		restMinutes, err := strconv.Atoi(strings.TrimSpace(ct.Value))
		if err != nil {
			continue
		}
		seen := map[string]bool{}
		for i := range items {
			if !ct.AppliesTo(items[i].CourseID, items[i].LecturerID, items[i].RoomID) {
				continue
			}
			for _, j := range lecturerIdx[items[i].LecturerID] {
				if j == i || items[j].Day != items[i].Day {
					continue
				}
				gap, restable := gapMinutes(items[i], items[j])
				if !restable || gap >= restMinutes {
					continue
				}
				key := groupKey("INSUFFICIENT_REST_TIME_"+ct.ID, []string{items[i].CourseID, items[j].CourseID})
				if seen[key] {
					continue
				}
				seen[key] = true
				soft += weightInsufficientRest
				raw = append(raw, schedule.Conflict{
					Type:         schedule.InsufficientRestTime,
					Description:  fmt.Sprintf("less than %d minutes between classes for lecturer %s", restMinutes, items[i].LecturerID),
					Items:        []schedule.Item{items[i], items[j]},
					ConstraintID: ct.ID,
					Severity:     schedule.Soft,
				})
			}
		}
	}
	return hard, soft, raw
}

func gapMinutes(a, b schedule.Item) (int, bool) {
	if a.End <= b.Start {
		return int(b.Start - a.End), true
	}
	if b.End <= a.Start {
		return int(a.Start - b.End), true
	}
	return 0, false
}

var dayNames = map[string]timeslot.Day{
	"monday":    timeslot.Monday,
	"tuesday":   timeslot.Tuesday,
	"wednesday": timeslot.Wednesday,
	"thursday":  timeslot.Thursday,
	"friday":    timeslot.Friday,
	"saturday":  timeslot.Saturday,
	"sunday":    timeslot.Sunday,
}

func parseDayList(value string) []timeslot.Day {
	parts := strings.Split(value, "&")
	out := make([]timeslot.Day, 0, len(parts))
	for _, p := range parts {
		if d, ok := dayNames[strings.ToLower(strings.TrimSpace(p))]; ok {
			out = append(out, d)
		}
	}
	return out
}

func containsDay(days []timeslot.Day, d timeslot.Day) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}

// parseWindow parses "HH:MM-HH:MM" (seconds optional) into a TimeSlot
// whose Day is left zero-valued; callers that need a specific day
// (PRAYER_TIME_FRIDAY) set it explicitly before use.
func parseWindow(value string) (timeslot.TimeSlot, bool) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return timeslot.TimeSlot{}, false
	}
	start, ok1 := parseClock(parts[0])
	end, ok2 := parseClock(parts[1])
	if !ok1 || !ok2 {
		return timeslot.TimeSlot{}, false
	}
	return timeslot.TimeSlot{Start: start, End: end}, true
}

func parseClock(value string) (timeslot.Clock, bool) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return timeslot.Clock(h*60 + m), true
}
