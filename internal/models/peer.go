package models

// Program is the educational program record owned by the division service.
type Program struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Professor is the record owned by the professor service. It has no active flag.
type Professor struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// FullName joins name and surname, skipping empty parts.
func (p Professor) FullName() string {
	switch {
	case p.Surname == "":
		return p.Name
	case p.Name == "":
		return p.Surname
	default:
		return p.Name + " " + p.Surname
	}
}

// Division groups programs in the division service.
type Division struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Programs     []string `json:"programs"`
	Active       bool     `json:"active"`
	ProgramCount int      `json:"programCount"`
}

// PeerStatus reports reachability of a sibling service for readiness probes.
type PeerStatus struct {
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}
