package report

// BranchRollup aggregates one branch. Every numeric field is 0 when the branch has no related rows.
type BranchRollup struct {
	BranchID   int64   `db:"branch_id" json:"branch_id"`
	BranchName string  `db:"branch_name" json:"branch_name"`
	Students   int     `db:"students" json:"students"`
	Teachers   int     `db:"teachers" json:"teachers"`
	Classes    int     `db:"classes" json:"classes"`
	Sections   int     `db:"sections" json:"sections"`
	MathAvg    float64 `db:"math_avg" json:"math_avg"`
	ScienceAvg float64 `db:"science_avg" json:"science_avg"`
}

type OverallStats struct {
	Branches int `db:"branches" json:"total_branches"`
	Teachers int `db:"teachers" json:"total_teachers"`
	Students int `db:"students" json:"total_students"`
	Subjects int `db:"subjects" json:"total_subjects"`
}

type SubjectTeachers struct {
	Subject  string `db:"subject" json:"subject"`
	Teachers int    `db:"teachers" json:"teachers"`
}

// SubjectStructure counts the distinct chapters and topics linked to a subject through topic associations.
type SubjectStructure struct {
	SubjectID   int64  `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	ClassID     int64  `db:"class_id" json:"class_id"`
	Chapters    int    `db:"chapters" json:"chapters"`
	Topics      int    `db:"topics" json:"topics"`
}

type GradeSummary struct {
	Subject string  `db:"subject" json:"subject"`
	Chapter string  `db:"chapter" json:"chapter"`
	Grades  int     `db:"grades" json:"grades"`
	Average float64 `db:"average" json:"average"`
}
