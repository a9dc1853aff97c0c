package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserRole represents the academic role of a registered user
type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleTeacher  UserRole = "professor"
	RoleHighRank UserRole = "high_rank"
)

// Fixed SHA-256 digests a registration credential must hash to for each role.
// These are distributed out of band by the institution.
const (
	HighRankCodeDigest  = "0ffe1abd1a08215353c233d6e009613e95eec4253832a761af28ff37ac5a150c"
	ProfessorCodeDigest = "edee29f882543b956620b26d0ee0e7e950399b1c4222f5de05e06425b4c995e9"
	StudentCodeDigest   = "318aee3fed8c9d040d35a7fc1fa776fb31303833aa2de885354ddf3d44d8fb69"
)

// RoleCodeDigest returns the expected credential digest for a role,
// or "" for unknown roles.
func RoleCodeDigest(role UserRole) string {
	switch role {
	case RoleStudent:
		return StudentCodeDigest
	case RoleTeacher:
		return ProfessorCodeDigest
	case RoleHighRank:
		return HighRankCodeDigest
	}
	return ""
}

// User is a registered academic actor. IDs are issued per role from the
// sequence allocator, so a student and a professor may share the same
// numeric ID; (authority, role) is the unique registration key.
type User struct {
	ID                 uint                        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Role               UserRole                    `json:"role" gorm:"primaryKey;size:20;uniqueIndex:idx_users_authority_role"`
	Authority          string                      `json:"authority" gorm:"size:255;not null;uniqueIndex:idx_users_authority_role"`
	IdentifierCodeHash string                      `json:"-" gorm:"size:64;not null"`
	SubjectCodes       datatypes.JSONSlice[uint32] `json:"subject_codes"`
	Punishments        uint32                      `json:"punishments" gorm:"default:0"`
	Rewards            uint32                      `json:"rewards" gorm:"default:0"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// EnrolledIn reports whether the user is enrolled in the subject code.
func (u *User) EnrolledIn(code uint32) bool {
	for _, c := range u.SubjectCodes {
		if c == code {
			return true
		}
	}
	return false
}
