package progress

import (
	"sort"

	"github.com/google/uuid"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

// UnknownCourseTitle labels a stat whose course title could not be resolved.
const UnknownCourseTitle = "Unknown"

// CoursePopularity reduces enrollments into one CourseStat per course.
// Merge rule: Count++ for every enrollment, CompletedCount++ when it is completed.
// Result is ordered by Count desc, then CourseID asc. A title missing from both the
// map and the preloaded course becomes UnknownCourseTitle.
func CoursePopularity(enrollments []*model.Enrollment, titles map[uuid.UUID]string) []model.CourseStat {
	byCourse := make(map[uuid.UUID]*model.CourseStat)
	for _, e := range enrollments {
		if e == nil {
			continue
		}
		stat, ok := byCourse[e.CourseID]
		if !ok {
			stat = &model.CourseStat{CourseID: e.CourseID, Title: titles[e.CourseID]}
			if stat.Title == "" && e.Course != nil {
				stat.Title = e.Course.Title
			}
			if stat.Title == "" {
				stat.Title = UnknownCourseTitle
			}
			byCourse[e.CourseID] = stat
		}
		stat.Count++
		if e.Completed {
			stat.CompletedCount++
		}
	}

	stats := make([]model.CourseStat, 0, len(byCourse))
	for _, s := range byCourse {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].CourseID.String() < stats[j].CourseID.String()
	})
	return stats
}

// TopCourses returns at most n entries of CoursePopularity.
func TopCourses(enrollments []*model.Enrollment, titles map[uuid.UUID]string, n int) []model.CourseStat {
	stats := CoursePopularity(enrollments, titles)
	if n >= 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// UserEnrollmentStats tallies enrollments per user.
func UserEnrollmentStats(enrollments []*model.Enrollment) map[uuid.UUID]model.UserStat {
	out := make(map[uuid.UUID]model.UserStat)
	for _, e := range enrollments {
		if e == nil {
			continue
		}
		s := out[e.UserID]
		s.Total++
		if e.Completed {
			s.Completed++
		}
		out[e.UserID] = s
	}
	return out
}
