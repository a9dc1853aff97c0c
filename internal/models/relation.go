package models

import "time"

// PlaceholderSubjectID marks an aggregate whose subject has not been
// registered yet. Enrollment may arrive before subject creation; the real
// id is back-filled when the subject is registered.
const PlaceholderSubjectID int64 = -1

// SubjectAggregate relates an institutional subject code to the subject id
// and carries the enrollment counters used to size a proposal's expected
// vote count.
type SubjectAggregate struct {
	Code       uint32    `json:"code" gorm:"primaryKey;autoIncrement:false"`
	SubjectID  int64     `json:"subject_id" gorm:"not null;default:-1;index"`
	Professors uint8     `json:"number_of_professors" gorm:"default:0"`
	Students   uint16    `json:"number_of_students" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SubjectAggregate) TableName() string {
	return "subject_aggregates"
}

// Bound reports whether the aggregate has a real subject id.
func (a *SubjectAggregate) Bound() bool {
	return a.SubjectID != PlaceholderSubjectID
}

// ExpectedVotes is the participation target for a new proposal on this
// subject: full enrollment plus a fixed margin.
func (a *SubjectAggregate) ExpectedVotes() uint32 {
	return uint32(a.Professors) + uint32(a.Students) + ExtraVotesMargin
}
