package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
)

const leaderboardSize = 3

// ComputeLeaderboards builds the four top-3 rankings in one pass over records.
// names maps employee ids to display names; ids missing from it are shown as
// "Unknown" but still ranked. Ties keep the order in which employees first
// appear in records.
func ComputeLeaderboards(records []attendance.Attendance, names map[string]string, standardWorkday time.Duration) attendance.Leaderboards {
	var order []string
	totals := make(map[string]*attendance.LeaderboardEntry)

	for _, rec := range records {
		entry, ok := totals[rec.EmployeeID]
		if !ok {
			name, known := names[rec.EmployeeID]
			if !known {
				name = attendance.UnknownEmployeeName
			}
			entry = &attendance.LeaderboardEntry{ID: rec.EmployeeID, Name: name}
			totals[rec.EmployeeID] = entry
			order = append(order, rec.EmployeeID)
		}

		entry.AttendanceCount++
		switch rec.TimeStatus {
		case attendance.TimeStatusLate:
			entry.LateCount++
		case attendance.TimeStatusEarly:
			entry.EarlyCount++
		}

		if rec.CheckOut != nil {
			if worked := rec.CheckOut.Sub(rec.CheckIn); worked > standardWorkday {
				entry.OvertimeHours += (worked - standardWorkday).Hours()
			}
		}
	}

	entries := make([]attendance.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *totals[id])
	}

	return attendance.Leaderboards{
		TopLate:       topBy(entries, func(e attendance.LeaderboardEntry) float64 { return float64(e.LateCount) }),
		TopEarly:      topBy(entries, func(e attendance.LeaderboardEntry) float64 { return float64(e.EarlyCount) }),
		TopAttendance: topBy(entries, func(e attendance.LeaderboardEntry) float64 { return float64(e.AttendanceCount) }),
		TopOvertime:   topBy(entries, func(e attendance.LeaderboardEntry) float64 { return e.OvertimeHours }),
	}
}

func topBy(entries []attendance.LeaderboardEntry, metric func(attendance.LeaderboardEntry) float64) []attendance.LeaderboardEntry {
	sorted := make([]attendance.LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metric(sorted[i]) > metric(sorted[j])
	})
	if len(sorted) > leaderboardSize {
		sorted = sorted[:leaderboardSize]
	}
	return sorted
}
