package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/branch"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/student"
	"github.com/trezcool/schooldash/core/teacher"
	"github.com/trezcool/schooldash/core/user"
	"github.com/trezcool/schooldash/storage/database"
)

// NewConfig returns a test config pointing to a fresh store file under t.TempDir().
func NewConfig(t *testing.T) *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Schooldash",
		SecretKey: "test-secret",
		Database: core.DatabaseConfig{
			Path:        filepath.Join(t.TempDir(), "test.db"),
			BusyTimeout: 5 * time.Second,
		},
		Server: core.ServerConfig{
			Address:         ":0",
			ShutdownTimeout: time.Second,
			SessionMaxAge:   time.Hour,
		},
	}
}

// PrepareDB opens and initializes a fresh store; it is closed when the test ends.
func PrepareDB(t *testing.T) *database.Store {
	return PrepareDBWithConfig(t, NewConfig(t))
}

func PrepareDBWithConfig(t *testing.T, conf *core.Config) *database.Store {
	t.Helper()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err = db.Init(context.Background()); err != nil {
		t.Fatalf("database.Init() failed: %v", err)
	}
	return db
}

func CreateBranch(t *testing.T, repo branch.Repository, name string, subjects ...string) branch.Branch {
	t.Helper()
	b, err := repo.CreateBranch(context.Background(), branch.Branch{Name: name, Location: name + " town", ContactNumber: "0700000000"}, subjects)
	if err != nil {
		t.Fatalf("createBranch() failed: %v", err)
	}
	return b
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role string, branchID ...int64) user.User {
	t.Helper()
	usr := user.User{Name: name, Email: email, Password: pwd, Role: role}
	if len(branchID) > 0 {
		usr.BranchID = null.Int64From(branchID[0])
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateClass(t *testing.T, repo class.Repository, branchID int64, grade int, name string) class.Class {
	t.Helper()
	c, err := repo.CreateClass(context.Background(), class.Class{BranchID: branchID, Grade: grade, Name: name})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return c
}

func CreateSection(t *testing.T, repo class.Repository, classID int64, name string) class.Section {
	t.Helper()
	s, err := repo.CreateSection(context.Background(), class.Section{ClassID: classID, Name: name})
	if err != nil {
		t.Fatalf("createSection() failed: %v", err)
	}
	return s
}

func CreateStudent(t *testing.T, repo student.Repository, sectionID int64, name, rollNumber string) student.Student {
	t.Helper()
	s, err := repo.CreateStudent(context.Background(), student.Student{
		SectionID:   sectionID,
		Name:        name,
		RollNumber:  rollNumber,
		Gender:      student.GenderOther,
		DateOfBirth: "2012-01-01",
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}

func CreateTeacher(t *testing.T, repo teacher.Repository, branchID int64, name, email, subject string) teacher.Teacher {
	t.Helper()
	tchr, err := repo.CreateTeacher(context.Background(), teacher.Teacher{BranchID: branchID, Name: name, Email: email, Subject: subject})
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return tchr
}
