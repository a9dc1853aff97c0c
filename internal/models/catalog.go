package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubjectCourse is the academic year a subject is taught in
type SubjectCourse string

const (
	CourseNotDefined SubjectCourse = "not_defined"
	CourseFirst      SubjectCourse = "first"
	CourseSecond     SubjectCourse = "second"
	CourseThird      SubjectCourse = "third"
	CourseFourth     SubjectCourse = "fourth"
	CourseFifth      SubjectCourse = "fifth"
	CourseSixth      SubjectCourse = "sixth"
	CourseSeventh    SubjectCourse = "seventh"
	CourseEighth     SubjectCourse = "eighth"
	CourseNinth      SubjectCourse = "ninth"
)

// IsValid reports whether the course value is one of the defined years.
func (c SubjectCourse) IsValid() bool {
	switch c {
	case CourseNotDefined, CourseFirst, CourseSecond, CourseThird, CourseFourth,
		CourseFifth, CourseSixth, CourseSeventh, CourseEighth, CourseNinth:
		return true
	}
	return false
}

type Faculty struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name" gorm:"size:500;not null" validate:"required,catalog_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Faculty) TableName() string {
	return "faculties"
}

type Degree struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name" gorm:"size:500;not null" validate:"required,catalog_name"`
	FacultyID uint      `json:"faculty_id" gorm:"not null;index"`
	Faculty   *Faculty  `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Degree) TableName() string {
	return "degrees"
}

type Specialty struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name" gorm:"size:500;not null" validate:"required,catalog_name"`
	DegreeID  uint      `json:"degree_id" gorm:"not null;index"`
	Degree    *Degree   `json:"degree,omitempty" gorm:"foreignKey:DegreeID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Specialty) TableName() string {
	return "specialties"
}

// Subject is the unit proposals attach to. Code is the institutional subject
// code students enroll against; TeachingProjectReference holds the 46-char
// content address of the ratified teaching project and stays empty until a
// proposal for the subject is accepted.
type Subject struct {
	ID                       uint                      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name                     string                    `json:"name" gorm:"size:500;not null" validate:"required,catalog_name"`
	Code                     uint32                    `json:"code" gorm:"not null;uniqueIndex"`
	DegreeID                 uint                      `json:"degree_id" gorm:"not null;index"`
	SpecialtyID              uint                      `json:"specialty_id" gorm:"not null;index"`
	Course                   SubjectCourse             `json:"course" gorm:"size:20;not null;default:not_defined"`
	TeachingProjectReference string                    `json:"teaching_project_reference" gorm:"size:46"`
	PendingProposals         datatypes.JSONSlice[uint] `json:"pending_proposals"`
	CreatedAt                time.Time                 `json:"created_at"`
	UpdatedAt                time.Time                 `json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}
