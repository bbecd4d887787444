package model

// Race is the static description of a recorded race
type Race struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Track     string `json:"track"`
	TotalLaps int    `json:"totalLaps"`
}

// DriverInfo holds the static metadata of a driver within a race
type DriverInfo struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Vehicle string `json:"vehicle"`
	Class   string `json:"class"`
}
