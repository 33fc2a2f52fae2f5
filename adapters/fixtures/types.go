package fixtures

// RawRow is one data row keyed by header
type RawRow map[string]string

// RawData is a whole season file before parsing
type RawData struct {
	Headers []string // Column headers
	Rows    []RawRow // Data rows
}

// Season file columns, as published by football-data.co.uk
const (
	ColumnDate      = "Date"
	ColumnHomeTeam  = "HomeTeam"
	ColumnAwayTeam  = "AwayTeam"
	ColumnHomeGoals = "FTHG"
	ColumnAwayGoals = "FTAG"
	ColumnResult    = "FTR"
)

// RequiredColumns must be present in every season file
var RequiredColumns = []string{ColumnHomeTeam, ColumnAwayTeam, ColumnResult}
