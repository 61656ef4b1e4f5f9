package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
	"github.com/trezcool/schooldash/core/student"
	"github.com/trezcool/schooldash/core/teacher"
	"github.com/trezcool/schooldash/testutil"
)

func Test_branchadminApi_classes(t *testing.T) {
	app := setup(t)
	cookie := app.cookie(t, app.user(t, "branch@example.com"))
	north := testutil.CreateBranch(t, app.repos.branches, "North")
	foreign := testutil.CreateClass(t, app.repos.classes, north.ID, 3, "Three")

	// the branch always comes from the session
	rec := app.do(newRequest(http.MethodPost, "/branchadmin/classes", cookie, class.NewClass{Grade: 5, Name: "Five", BranchID: north.ID}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cls class.Class
	decode(t, rec, &cls)
	assert.Equal(t, app.mainBID, cls.BranchID)

	rec = app.do(newRequest(http.MethodPost, "/branchadmin/classes", cookie, class.NewClass{Grade: 13, Name: "Thirteen"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(newRequest(http.MethodGet, "/branchadmin/classes", cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var classes []class.Class
	decode(t, rec, &classes)
	assert.Equal(t, []class.Class{cls}, classes)

	// classes of other branches are not found
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec = app.do(newRequest(method, fmt.Sprintf("/branchadmin/classes/%d", foreign.ID), cookie, class.UpdateClass{Name: "Hijacked"}))
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
	rec = app.do(newRequest(http.MethodGet, fmt.Sprintf("/branchadmin/classes/%d/sections", foreign.ID), cookie, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/classes/%d", cls.ID), cookie, class.UpdateClass{Name: "Year Five"}))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cls)
	assert.Equal(t, "Year Five", cls.Name)
	assert.Equal(t, 5, cls.Grade)

	// sections
	path := fmt.Sprintf("/branchadmin/classes/%d/sections", cls.ID)
	rec = app.do(newRequest(http.MethodPost, path, cookie, class.NewSection{Name: "A"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sec class.Section
	decode(t, rec, &sec)
	assert.Equal(t, cls.ID, sec.ClassID)

	rec = app.do(newRequest(http.MethodPost, path, cookie, class.NewSection{Name: "A"}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/sections/%d", sec.ID), cookie, class.UpdateSection{Name: "B"}))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sec)
	assert.Equal(t, "B", sec.Name)

	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/classes/%d", cls.ID), cookie, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/sections/%d", sec.ID), cookie, class.UpdateSection{Name: "C"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_branchadminApi_students(t *testing.T) {
	app := setup(t)
	cookie := app.cookie(t, app.user(t, "branch@example.com"))
	cls := testutil.CreateClass(t, app.repos.classes, app.mainBID, 6, "Six")
	sec := testutil.CreateSection(t, app.repos.classes, cls.ID, "A")
	other := testutil.CreateSection(t, app.repos.classes, cls.ID, "B")

	path := fmt.Sprintf("/branchadmin/sections/%d/students", sec.ID)
	rec := app.do(newRequest(http.MethodPost, path, cookie, student.NewStudent{
		Name: "Amina", RollNumber: "R001", Gender: "female", DateOfBirth: "2012-04-01",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var amina student.Student
	decode(t, rec, &amina)
	assert.Equal(t, student.GenderFemale, amina.Gender)
	assert.Equal(t, sec.ID, amina.SectionID)

	rec = app.do(newRequest(http.MethodPost, path, cookie, student.NewStudent{Name: "Dup", RollNumber: "R001", Gender: "male"}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// move to another section of the branch
	update := student.UpdateStudent{SectionID: other.ID, Name: "Amina K", RollNumber: "R001", Gender: "Female", DateOfBirth: "2012-04-01"}
	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/students/%d", amina.ID), cookie, update))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &amina)
	assert.Equal(t, other.ID, amina.SectionID)
	assert.Equal(t, "Amina K", amina.Name)

	// but never to a section of another branch
	north := testutil.CreateBranch(t, app.repos.branches, "North")
	nsec := testutil.CreateSection(t, app.repos.classes, testutil.CreateClass(t, app.repos.classes, north.ID, 6, "Six").ID, "A")
	update.SectionID = nsec.ID
	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/students/%d", amina.ID), cookie, update))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/students/%d", amina.ID), cookie, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/students/%d", amina.ID), cookie, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_branchadminApi_studentsCSV(t *testing.T) {
	app := setup(t)
	cookie := app.cookie(t, app.user(t, "branch@example.com"))
	cls := testutil.CreateClass(t, app.repos.classes, app.mainBID, 6, "Six")
	sec := testutil.CreateSection(t, app.repos.classes, cls.ID, "A")
	base := fmt.Sprintf("/branchadmin/sections/%d/students", sec.ID)

	header := strings.Join(append(append([]string{}, student.CSVHeaders...), student.HeaderEmail), ",")
	upload := "\ufeff" + header + "\n" +
		"Amina,Ali,Aisha,R001,Female,0700,2012-04-01,Kampala,amina@example.com\n" +
		"Brian,Bob,Beth,R002,Male,0701,2012-05-01,Jinja,\n" +
		"Carl,Cid,Cora,R001,Male,0702,2012-06-01,Gulu,\n" + // duplicate roll
		",Dan,Dora,R004,Male,0703,2012-07-01,Mbale,\n" // no name

	rec := app.do(newUploadRequest(t, base+"/upload", cookie, upload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report core.BulkReport
	decode(t, rec, &report)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, 3, report.Failures[0].Row)
	assert.Equal(t, 4, report.Failures[1].Row)

	rec = app.do(newRequest(http.MethodGet, base+"/export", cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Amina")
	assert.Contains(t, lines[2], "Brian")

	// missing column
	rec = app.do(newUploadRequest(t, base+"/upload", cookie, "Student Name,Gender\nEve,Female\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no file
	rec = app.do(newRequest(http.MethodPost, base+"/upload", cookie, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"file":"a CSV file is required"}`, rec.Body.String())

	// row outcomes are counted
	rec = app.do(newRequest(http.MethodGet, "/metrics", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `schooldash_bulk_rows_total{kind="students",outcome="success"} 2`)
	assert.Contains(t, body, `schooldash_bulk_rows_total{kind="students",outcome="failure"} 2`)

	// bulk rows outside the API are not counted
	_, err := app.srv.opts.StudentSvc.BulkCreate(context.Background(), sec.ID, []student.NewStudent{
		{Name: "Outside", RollNumber: "OUT1", Gender: "Female"},
	})
	require.NoError(t, err)
	rec = app.do(newRequest(http.MethodGet, "/metrics", nil, nil))
	assert.Contains(t, rec.Body.String(), `schooldash_bulk_rows_total{kind="students",outcome="success"} 2`)
}

func Test_branchadminApi_curriculum(t *testing.T) {
	app := setup(t)
	cookie := app.cookie(t, app.user(t, "branch@example.com"))
	cls := testutil.CreateClass(t, app.repos.classes, app.mainBID, 7, "Seven")

	rec := app.do(newRequest(http.MethodPost, "/branchadmin/subjects", cookie, curriculum.NewSubject{Name: "Math", ClassID: cls.ID}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var math curriculum.Subject
	decode(t, rec, &math)
	assert.Equal(t, app.mainBID, math.BranchID)

	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/subjects/%d", math.ID), cookie, curriculum.UpdateSubject{Description: "Numbers"}))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &math)
	assert.Equal(t, "Math", math.Name)
	assert.Equal(t, "Numbers", math.Description)

	rec = app.do(newRequest(http.MethodGet, fmt.Sprintf("/branchadmin/subjects?class_id=%d", cls.ID), cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var subjects []curriculum.Subject
	decode(t, rec, &subjects)
	assert.Equal(t, []curriculum.Subject{math}, subjects)

	upload := "chapter_name,description,topics\n" +
		"Algebra,Basics,Equations;Inequalities\n" +
		",,Orphan\n" +
		"Geometry,,Angles\n"
	rec = app.do(newUploadRequest(t, fmt.Sprintf("/branchadmin/classes/%d/chapters/upload?subject_id=%d", cls.ID, math.ID), cookie, upload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report core.BulkReport
	decode(t, rec, &report)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].Row)

	rec = app.do(newRequest(http.MethodGet, fmt.Sprintf("/branchadmin/classes/%d/chapters?ordering=name", cls.ID), cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var chapters []curriculum.Chapter
	decode(t, rec, &chapters)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Algebra", chapters[0].Name)

	rec = app.do(newRequest(http.MethodGet, "/branchadmin/reports/subject-structure", cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chapters":2`)
	assert.Contains(t, rec.Body.String(), `"topics":3`)

	rec = app.do(newRequest(http.MethodGet, "/metrics", nil, nil))
	assert.Contains(t, rec.Body.String(), `schooldash_bulk_rows_total{kind="chapters",outcome="success"} 2`)
	assert.Contains(t, rec.Body.String(), `schooldash_bulk_rows_total{kind="chapters",outcome="failure"} 1`)

	// a subject of another branch cannot receive uploaded topics
	north := testutil.CreateBranch(t, app.repos.branches, "North")
	ncls := testutil.CreateClass(t, app.repos.classes, north.ID, 7, "Seven")
	rec = app.do(newUploadRequest(t, fmt.Sprintf("/branchadmin/classes/%d/chapters/upload", ncls.ID), cookie, upload))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/chapters/%d", chapters[1].ID), cookie, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/subjects/%d", math.ID), cookie, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func Test_branchadminApi_teachers(t *testing.T) {
	app := setup(t)
	cookie := app.cookie(t, app.user(t, "branch@example.com"))
	north := testutil.CreateBranch(t, app.repos.branches, "North")
	foreign := testutil.CreateTeacher(t, app.repos.teachers, north.ID, "Mr N", "n@example.com", "Math")

	rec := app.do(newRequest(http.MethodPost, "/branchadmin/teachers", cookie, teacher.NewTeacher{
		Name: "Ms T", Email: "T@Example.com", Subject: "Science", Classes: []string{"Six", " Seven ", ""},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tchr teacher.Teacher
	decode(t, rec, &tchr)
	assert.Equal(t, app.mainBID, tchr.BranchID)
	assert.Equal(t, "t@example.com", tchr.Email)
	assert.Equal(t, []string{"Six", "Seven"}, tchr.ClassList())

	rec = app.do(newRequest(http.MethodGet, "/branchadmin/teachers", cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var teachers []teacher.Teacher
	decode(t, rec, &teachers)
	assert.Equal(t, []teacher.Teacher{tchr}, teachers)

	rec = app.do(newRequest(http.MethodPut, fmt.Sprintf("/branchadmin/teachers/%d", tchr.ID), cookie, teacher.UpdateTeacher{Subject: "Physics"}))
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &tchr)
	assert.Equal(t, "Physics", tchr.Subject)
	assert.Equal(t, "Ms T", tchr.Name)

	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/teachers/%d", foreign.ID), cookie, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/branchadmin/teachers/%d", tchr.ID), cookie, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(newRequest(http.MethodGet, "/branchadmin/dashboard", cookie, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"teachers":0`)
}
