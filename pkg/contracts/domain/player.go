package domain

// TraditionalStat represents one qualified player-season from the traditional
// leaderboard export. The export covers six seasons, including the shortened
// 2020 season.
type TraditionalStat struct {
	PlayerID     int     `json:"player_id" csv:"player_id" validate:"required,min=1"`
	Year         int     `json:"year" csv:"year" validate:"required,min=1900,max=2100"`
	FirstName    string  `json:"first_name" csv:"first_name"`
	LastName     string  `json:"last_name" csv:"last_name" validate:"required"`
	// Metric fields may be NaN when the export has a gap; range checks on
	// them live in ingest so that missing values stay tolerated.
	HomeRuns     float64 `json:"home_run" csv:"home_run"`
	StrikeoutPct float64 `json:"strikeout_percent" csv:"strikeout_percent"`
	BattingAvg   float64 `json:"batting_average" csv:"batting_average"`
	SluggingPct  float64 `json:"slugging_percent" csv:"slugging_percent"`
	OnBasePct    float64 `json:"on_base_percent" csv:"on_base_percent"`
}

// StatcastStat represents one qualified player-season from the Statcast
// leaderboard export. The export covers five seasons; the shortened season
// has no Statcast counterpart.
type StatcastStat struct {
	PlayerID   int     `json:"player_id" csv:"player_id" validate:"required,min=1"`
	Year       int     `json:"year" csv:"year" validate:"required,min=1900,max=2100"`
	FirstName  string  `json:"first_name" csv:"first_name"`
	LastName   string  `json:"last_name" csv:"last_name" validate:"required"`
	BarrelRate float64 `json:"barrel_rate" csv:"barrel_rate"`
	WhiffPct   float64 `json:"whiff_percent" csv:"whiff_percent"`
}

// PlayerSeason is the merged player-season record: the inner join of the two
// leaderboards on (player_id, year) plus the derived OPS field. Name columns
// come from the traditional side; OPS is the exact sum of on-base and
// slugging percentages, never rounded.
type PlayerSeason struct {
	PlayerID     int     `json:"player_id" csv:"player_id"`
	Year         int     `json:"year" csv:"year"`
	FirstName    string  `json:"first_name" csv:"first_name"`
	LastName     string  `json:"last_name" csv:"last_name"`
	HomeRuns     float64 `json:"home_run" csv:"home_run"`
	StrikeoutPct float64 `json:"strikeout_percent" csv:"strikeout_percent"`
	BattingAvg   float64 `json:"batting_average" csv:"batting_average"`
	SluggingPct  float64 `json:"slugging_percent" csv:"slugging_percent"`
	OnBasePct    float64 `json:"on_base_percent" csv:"on_base_percent"`
	BarrelRate   float64 `json:"barrel_rate" csv:"barrel_rate"`
	WhiffPct     float64 `json:"whiff_percent" csv:"whiff_percent"`
	OPS          float64 `json:"ops" csv:"ops"`
}

// SeasonKey identifies a player-season pair, the composite join key shared by
// both source tables.
type SeasonKey struct {
	PlayerID int
	Year     int
}

// Key returns the composite join key for a merged record.
func (p PlayerSeason) Key() SeasonKey {
	return SeasonKey{PlayerID: p.PlayerID, Year: p.Year}
}

// DisplayName returns the "First Last" form used in report tables.
func (p PlayerSeason) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}
