package api

// RaceEvent is one entry in a season schedule.
type RaceEvent struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Country  string `json:"country"`
	Date     string `json:"date"`
	Round    int    `json:"round"`
}

type racesResponse struct {
	Events []RaceEvent `json:"events"`
}

type sessionsResponse struct {
	Sessions []string `json:"Sessions"`
}

// DriverInfo describes a driver within one session.
type DriverInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Team string `json:"team"`
}

type driversResponse struct {
	Drivers []DriverInfo `json:"drivers"`
}

// TelemetryPoint is one sample from a lap trace.
type TelemetryPoint struct {
	Time     string  `json:"Time"`
	Speed    float64 `json:"Speed"`
	Throttle float64 `json:"Throttle"`
	Brake    float64 `json:"Brake"`
	Distance float64 `json:"Distance"`
}

// Telemetry is the fastest-lap trace for one driver.
type Telemetry struct {
	Driver    string           `json:"driver"`
	Session   string           `json:"session"`
	LapTime   string           `json:"lap_time"`
	Telemetry []TelemetryPoint `json:"telemetry"`
}

// RaceStandingRow is one classified result in a race.
type RaceStandingRow struct {
	Abbreviation       string  `json:"Abbreviation"`
	TeamName           string  `json:"TeamName"`
	ClassifiedPosition string  `json:"ClassifiedPosition"`
	Points             float64 `json:"Points"`
}

// SeasonStanding is one driver's championship standing.
type SeasonStanding struct {
	Abbreviation string  `json:"Abbreviation"`
	TeamName     string  `json:"TeamName"`
	Points       float64 `json:"Points"`
}

// ConstructorStanding is one team's championship standing.
type ConstructorStanding struct {
	TeamName string  `json:"TeamName"`
	Points   float64 `json:"Points"`
}

// DriverProfile is a driver's career summary.
type DriverProfile struct {
	Name          string `json:"name"`
	Team          string `json:"team"`
	Number        int    `json:"number"`
	Championships int    `json:"championships"`
	Country       string `json:"country"`
	Podiums       int    `json:"podiums"`
	Wins          int    `json:"wins"`
	Bio           string `json:"bio"`
}

// NewsItem is one news headline.
type NewsItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	ImageURL string `json:"image_url"`
}

type newsResponse struct {
	News []NewsItem `json:"news"`
}
