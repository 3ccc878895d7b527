package models

import (
	"time"

	"gorm.io/gorm"
)

// ClassSchedule is one teaching slot for a teacher on a date. Two slots
// for the same teacher and date must not overlap as half-open intervals;
// a slot ending exactly when the next begins is allowed.
type ClassSchedule struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Period    int       `json:"period" gorm:"not null" validate:"required,min=1,max=12"`
	Date      time.Time `json:"date" gorm:"not null;type:date;index:idx_schedule_teacher_date" validate:"required"`
	StartTime time.Time `json:"start_time" gorm:"not null" validate:"required"`
	EndTime   time.Time `json:"end_time" gorm:"not null" validate:"required"`

	SubjectID  uint `json:"subject_id" gorm:"not null;index" validate:"required"`
	DivisionID uint `json:"division_id" gorm:"not null;index" validate:"required"`
	TeacherID  uint `json:"teacher_id" gorm:"not null;index:idx_schedule_teacher_date" validate:"required"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Subject  Subject  `json:"subject" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
	Division Division `json:"division" gorm:"foreignKey:DivisionID;constraint:OnDelete:CASCADE"`
	Teacher  Teacher  `json:"teacher" gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	SubjectName  string `json:"subject_name" gorm:"-"`
	TeacherName  string `json:"teacher_name" gorm:"-"`
	DivisionName string `json:"division_name" gorm:"-"`
}

// Overlaps reports half-open interval overlap with another slot.
// Equal boundaries are not an overlap, so back-to-back periods pass.
func (s *ClassSchedule) Overlaps(other *ClassSchedule) bool {
	return s.StartTime.Before(other.EndTime) && s.EndTime.After(other.StartTime)
}

// ClassDetailsRel tags a schedule with a syllabus topic it covered.
type ClassDetailsRel struct {
	ID              uint `json:"id" gorm:"primaryKey"`
	ClassScheduleID uint `json:"class_schedule_id" gorm:"not null;uniqueIndex:uq_class_details" validate:"required"`
	SubjectTopicID  uint `json:"subject_topic_id" gorm:"not null;uniqueIndex:uq_class_details" validate:"required"`

	CreatedAt time.Time `json:"created_at"`

	ClassSchedule ClassSchedule `json:"class_schedule" gorm:"foreignKey:ClassScheduleID"`
	SubjectTopic  SubjectTopic  `json:"subject_topic" gorm:"foreignKey:SubjectTopicID"`
}

func (ClassSchedule) TableName() string {
	return "class_schedules"
}

func (ClassDetailsRel) TableName() string {
	return "class_details_rel"
}
