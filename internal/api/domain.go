package api

// Wire types mirror the department backend's JSON documents. The gateway never
// owns these records; they exist for the duration of one render cycle.

// User is the account document returned by the users and current-user
// endpoints.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// FullName joins the name fields for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Student links a user account to a study group.
type Student struct {
	ID           int64    `json:"id"`
	User         *User    `json:"user,omitempty"`
	UserID       int64    `json:"userId,omitempty"`
	Group        *Group   `json:"group,omitempty"`
	GroupID      int64    `json:"groupId,omitempty"`
	Course       int      `json:"course"`
	AverageGrade *float64 `json:"averageGrade,omitempty"`
}

// Teacher links a user account to a department position and taught subjects.
type Teacher struct {
	ID       int64     `json:"id"`
	User     *User     `json:"user,omitempty"`
	UserID   int64     `json:"userId,omitempty"`
	Position string    `json:"position"`
	Subjects []Subject `json:"subjects,omitempty"`
}

// Group is a study group.
type Group struct {
	ID             int64  `json:"id"`
	GroupName      string `json:"groupName"`
	GroupCode      string `json:"groupCode"`
	CourseYear     int    `json:"courseYear"`
	StudyForm      string `json:"studyForm"`
	StudentCount   int    `json:"studentCount"`
	EnrollmentYear int    `json:"enrollmentYear"`
}

// Subject is a taught course unit.
type Subject struct {
	ID             int64     `json:"id"`
	SubjectName    string    `json:"subjectName"`
	SubjectCode    string    `json:"subjectCode"`
	Credits        int       `json:"credits"`
	Semester       int       `json:"semester"`
	LectureHours   int       `json:"lectureHours"`
	PracticeHours  int       `json:"practiceHours"`
	LabHours       int       `json:"labHours"`
	AssessmentType string    `json:"assessmentType"`
	Description    string    `json:"description,omitempty"`
	Teachers       []Teacher `json:"teachers,omitempty"`
}

// Grade is one recorded mark.
type Grade struct {
	ID            int64   `json:"id"`
	StudentID     int64   `json:"studentId"`
	StudentUserID int64   `json:"studentUserId,omitempty"`
	StudentName   string  `json:"studentName,omitempty"`
	SubjectID     int64   `json:"subjectId"`
	SubjectName   string  `json:"subjectName,omitempty"`
	TeacherID     int64   `json:"teacherId"`
	GradeType     string  `json:"gradeType"`
	GradeValue    float64 `json:"gradeValue"`
	Comments      string  `json:"comments,omitempty"`
	GradeDate     string  `json:"gradeDate"`
}

// GradeTypes enumerates the backend's grade type values in display order.
var GradeTypes = []string{"CURRENT", "MODULE", "MIDTERM", "FINAL", "RETAKE", "MAKEUP"}

// DepartmentStatus is the public status document used by the overview panel.
type DepartmentStatus struct {
	StudentCount int    `json:"studentCount"`
	TeacherCount int    `json:"teacherCount"`
	SubjectCount int    `json:"subjectCount"`
	GroupCount   int    `json:"groupCount"`
	Status       string `json:"status,omitempty"`
}

// DepartmentInfo is the public department description.
type DepartmentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Head        string `json:"head,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// UserInput is the payload for creating or updating a user.
type UserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// GroupInput is the payload for creating or updating a group.
type GroupInput struct {
	GroupName      string `json:"groupName"`
	GroupCode      string `json:"groupCode"`
	CourseYear     int    `json:"courseYear"`
	StudyForm      string `json:"studyForm"`
	EnrollmentYear int    `json:"enrollmentYear"`
}

// SubjectInput is the payload for creating or updating a subject.
type SubjectInput struct {
	SubjectName    string `json:"subjectName"`
	SubjectCode    string `json:"subjectCode"`
	Credits        int    `json:"credits"`
	Semester       int    `json:"semester"`
	LectureHours   int    `json:"lectureHours"`
	PracticeHours  int    `json:"practiceHours"`
	LabHours       int    `json:"labHours"`
	AssessmentType string `json:"assessmentType"`
	Description    string `json:"description,omitempty"`
}

// GradeInput is the payload for creating or updating a grade. TeacherID is an
// explicit, required selection from the teacher listing, never a fixed id.
type GradeInput struct {
	StudentID  int64   `json:"studentId"`
	SubjectID  int64   `json:"subjectId"`
	TeacherID  int64   `json:"teacherId"`
	GradeType  string  `json:"gradeType"`
	GradeValue float64 `json:"gradeValue"`
	Comments   string  `json:"comments,omitempty"`
	GradeDate  string  `json:"gradeDate,omitempty"`
}
