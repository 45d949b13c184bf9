package models

type BandCounts struct {
	Songs    int `db:"songs" json:"songs"`
	Members  int `db:"members" json:"members"`
	Setlists int `db:"setlists" json:"setlists"`
}
