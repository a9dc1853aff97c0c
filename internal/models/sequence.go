package models

import "time"

// Sequence categories. Each category has its own counter; ids are unique
// and strictly increasing within a category only.
const (
	SeqFaculty           = "faculty"
	SeqDegree            = "degree"
	SeqSpecialty         = "specialty"
	SeqSubject           = "subject"
	SeqProposal          = "proposal"
	SeqProfessorProposal = "professor_proposal"
	SeqStudent           = "student"
	SeqProfessor         = "professor"
	SeqHighRank          = "high_rank"
)

// SequenceCounter persists the next id to hand out for a category.
// NextID zero means uninitialized; 0 is never issued, the first real id
// is always 1.
type SequenceCounter struct {
	Category  string    `json:"category" gorm:"primaryKey;size:40"`
	NextID    uint      `json:"next_id" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
