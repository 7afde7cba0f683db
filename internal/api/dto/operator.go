package dto

type RosterStatus struct {
	Paused bool `json:"paused"`
}
