package attendance

import (
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
)

// Punctuality boundaries as seconds after local midnight.
const (
	goodFrom = 8 * 60 * 60     // 08:00:00
	lateFrom = 8*60*60 + 16*60 // 08:16:00
)

// Classifier buckets check-in instants by local time of day.
type Classifier struct {
	loc *time.Location
}

func NewClassifier(loc *time.Location) Classifier {
	if loc == nil {
		loc = time.Local
	}
	return Classifier{loc: loc}
}

// Classify returns Early before 08:00, Good in [08:00, 08:16) and Late from
// 08:16 onwards, evaluated on the wall clock of instant in the classifier's
// location.
func (c Classifier) Classify(instant time.Time) attendance.TimeStatus {
	local := instant.In(c.loc)
	secs := local.Hour()*3600 + local.Minute()*60 + local.Second()

	switch {
	case secs < goodFrom:
		return attendance.TimeStatusEarly
	case secs < lateFrom:
		return attendance.TimeStatusGood
	default:
		return attendance.TimeStatusLate
	}
}
