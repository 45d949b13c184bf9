package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Band struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type BandRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type BandMember struct {
	BandID   string    `db:"band_id" json:"band_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

type BandMemberWithUser struct {
	BandMember
	User UserRef `db:"user" json:"user"`
}

// BandSummary is a band as seen from one member's band list.
type BandSummary struct {
	Band
	MemberRole string     `db:"member_role" json:"member_role"`
	JoinedAt   time.Time  `db:"joined_at" json:"joined_at"`
	Counts     BandCounts `db:"counts" json:"counts"`
}

type BandDetails struct {
	Band
	Members  []BandMemberWithUser `db:"-" json:"members"`
	Songs    []SongSummary        `db:"-" json:"songs"`
	Setlists []Setlist            `db:"-" json:"setlists"`
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
