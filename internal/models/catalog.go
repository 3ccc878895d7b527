package models

import (
	"time"

	"gorm.io/gorm"
)

type School struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	Name    string  `json:"name" gorm:"not null;size:200;uniqueIndex" validate:"required,min=1,max=200"`
	Address *string `json:"address" gorm:"type:text"`
	City    *string `json:"city" gorm:"size:100"`
	BoardID *uint   `json:"board_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Board struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:100;uniqueIndex" validate:"required,max=100"`

	CreatedAt time.Time `json:"created_at"`
}

type Grade struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:50;uniqueIndex" validate:"required,max=50"`

	CreatedAt time.Time `json:"created_at"`
}

type Section struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:50;uniqueIndex" validate:"required,max=50"`

	CreatedAt time.Time `json:"created_at"`
}

type Subject struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:100;index" validate:"required,max=100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Division is a concrete grade+section instance for one academic year at
// one school.
type Division struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	GradeID      uint   `json:"grade_id" gorm:"not null;uniqueIndex:uq_division" validate:"required"`
	SectionID    uint   `json:"section_id" gorm:"not null;uniqueIndex:uq_division" validate:"required"`
	AcademicYear string `json:"academic_year" gorm:"not null;size:20;uniqueIndex:uq_division" validate:"required,max=20"`
	SchoolID     uint   `json:"school_id" gorm:"not null;index;uniqueIndex:uq_division" validate:"required"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Grade   Grade   `json:"grade" gorm:"foreignKey:GradeID"`
	Section Section `json:"section" gorm:"foreignKey:SectionID"`
	School  School  `json:"-" gorm:"foreignKey:SchoolID"`

	// Computed field (not stored)
	DisplayName string `json:"display_name" gorm:"-"`
}

// Name formats the division the way publish snapshots expect it,
// e.g. "Grade 6 B".
func (d *Division) Name() string {
	if d.Grade.Name == "" && d.Section.Name == "" {
		return ""
	}
	return d.Grade.Name + " " + d.Section.Name
}

// DivisionSubject assigns a subject to a division; schedule creation
// requires a matching row.
type DivisionSubject struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	SchoolID   uint `json:"school_id" gorm:"not null;uniqueIndex:uq_division_subject"`
	DivisionID uint `json:"division_id" gorm:"not null;uniqueIndex:uq_division_subject"`
	SubjectID  uint `json:"subject_id" gorm:"not null;uniqueIndex:uq_division_subject"`

	CreatedAt time.Time `json:"created_at"`

	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
	Subject  Subject  `json:"-" gorm:"foreignKey:SubjectID"`
}

// SubjectTopic is a syllabus entry a lesson can be tagged with.
type SubjectTopic struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Topic    string  `json:"topic" gorm:"not null;size:200;uniqueIndex:uq_subject_topic" validate:"required,max=200"`
	SubTopic *string `json:"sub_topic" gorm:"size:200;uniqueIndex:uq_subject_topic"`

	SubjectID uint `json:"subject_id" gorm:"not null;index;uniqueIndex:uq_subject_topic" validate:"required"`
	BoardID   uint `json:"board_id" gorm:"not null;uniqueIndex:uq_subject_topic" validate:"required"`
	GradeID   uint `json:"grade_id" gorm:"not null;uniqueIndex:uq_subject_topic" validate:"required"`

	CreatedAt time.Time `json:"created_at"`

	Subject Subject `json:"subject" gorm:"foreignKey:SubjectID"`
	Board   Board   `json:"board" gorm:"foreignKey:BoardID"`
	Grade   Grade   `json:"grade" gorm:"foreignKey:GradeID"`
}

func (School) TableName() string  { return "schools" }
func (Board) TableName() string   { return "boards" }
func (Grade) TableName() string   { return "grades" }
func (Section) TableName() string { return "sections" }
func (Subject) TableName() string { return "subjects" }

func (Division) TableName() string {
	return "divisions"
}

func (DivisionSubject) TableName() string {
	return "division_subjects"
}

func (SubjectTopic) TableName() string {
	return "subject_topics"
}
