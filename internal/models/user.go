package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// User mirrors the Casdoor account; rows are kept locally so catalog
// entities can join against display names without a directory round trip.
type User struct {
	ID        string   `json:"id" gorm:"primaryKey;size:255"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName string   `json:"first_name" gorm:"size:100"`
	LastName  string   `json:"last_name" gorm:"size:100"`
	Role      UserRole `json:"role" gorm:"size:20;index"`
	SchoolID  *uint    `json:"school_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// FullName is the display form used in schedule and publish responses.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Teacher struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	UserID     string  `json:"user_id" gorm:"not null;index;size:255"`
	SchoolID   uint    `json:"school_id" gorm:"not null;index"`
	EmployeeID *string `json:"employee_id" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User   User   `json:"user" gorm:"foreignKey:UserID"`
	School School `json:"-" gorm:"foreignKey:SchoolID"`
}

type Student struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index;size:255"`
	SchoolID    uint       `json:"school_id" gorm:"not null;index"`
	RollNumber  *string    `json:"roll_number" gorm:"size:50"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User   User   `json:"user" gorm:"foreignKey:UserID"`
	School School `json:"-" gorm:"foreignKey:SchoolID"`
}

// StudentDivision places a student in a division. IsCurrent marks the
// active placement consumed by the publish fan-out.
type StudentDivision struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	StudentID  uint `json:"student_id" gorm:"not null;uniqueIndex:uq_student_division"`
	DivisionID uint `json:"division_id" gorm:"not null;index;uniqueIndex:uq_student_division"`
	IsCurrent  bool `json:"is_current" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student  Student  `json:"student" gorm:"foreignKey:StudentID"`
	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
}

// TeacherDivisionSubject records that a teacher teaches a subject in a
// division; schedule creation requires a matching row.
type TeacherDivisionSubject struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	TeacherID  uint `json:"teacher_id" gorm:"not null;uniqueIndex:uq_teacher_division_subject"`
	DivisionID uint `json:"division_id" gorm:"not null;uniqueIndex:uq_teacher_division_subject"`
	SubjectID  uint `json:"subject_id" gorm:"not null;uniqueIndex:uq_teacher_division_subject"`

	CreatedAt time.Time `json:"created_at"`

	Teacher  Teacher  `json:"-" gorm:"foreignKey:TeacherID"`
	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
	Subject  Subject  `json:"-" gorm:"foreignKey:SubjectID"`
}

func (User) TableName() string    { return "users" }
func (Teacher) TableName() string { return "teachers" }
func (Student) TableName() string { return "students" }

func (StudentDivision) TableName() string {
	return "student_divisions"
}

func (TeacherDivisionSubject) TableName() string {
	return "teacher_division_subject_rel"
}
