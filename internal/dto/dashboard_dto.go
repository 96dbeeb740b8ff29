package dto

// StatCard is a single labeled statistic on a dashboard.
type StatCard struct {
	Title string `json:"title"`
	Value int64  `json:"value"`
}

// DashboardResponse is the role-specific statistics payload.
type DashboardResponse struct {
	Title           string           `json:"title"`
	Cards           []StatCard       `json:"cards"`
	RecentCourses   []CourseResponse `json:"recent_courses,omitempty"`
	EnrolledCourses []CourseResponse `json:"enrolled_courses,omitempty"`
}
