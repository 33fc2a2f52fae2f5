package fixtures

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"penaltysim/domain/core"
	"penaltysim/domain/fixture"
	"penaltysim/internal"
	"penaltysim/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader reads one season file, CSV or XLSX
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader picks the format from the file extension
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadData reads the raw rows of the file
func (r *DataReader) ReadData() (*RawData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadFixtures reads the file and parses every row into a fixture
func (r *DataReader) ReadFixtures() ([]fixture.Fixture, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return ParseFixtures(data)
}

// readExcelData reads the first sheet of the workbook
func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file %s has no sheets", r.filePath)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	r.logger.Debug("Sheet %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// readCSVData reads a CSV season file
func (r *DataReader) readCSVData() (*RawData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows keys every data row by header, dropping blank rows
func (r *DataReader) processRows(rows [][]string) (*RawData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	var dataRows []RawRow
	for i := 1; i < len(rows); i++ {
		row := make(RawRow)
		blank := true
		for j, cell := range rows[i] {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
				if row[headers[j]] != "" {
					blank = false
				}
			}
		}
		if !blank {
			dataRows = append(dataRows, row)
		}
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))
	return &RawData{Headers: headers, Rows: dataRows}, nil
}

// ParseFixtures turns raw rows into fixtures. Date and goal columns are
// optional; team and result columns are required.
func ParseFixtures(data *RawData) ([]fixture.Fixture, error) {
	present := make(map[string]bool, len(data.Headers))
	for _, h := range data.Headers {
		present[h] = true
	}
	for _, col := range RequiredColumns {
		if !present[col] {
			return nil, errors.WithCode(errors.CodeInvalidInput, core.NewMissingColumnError(col))
		}
	}

	out := make([]fixture.Fixture, 0, len(data.Rows))
	for i, row := range data.Rows {
		result, err := fixture.ParseResult(row[ColumnResult])
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("row %d: %w", i+2, err))
		}
		f := fixture.Fixture{
			Date:     row[ColumnDate],
			HomeTeam: core.TeamID(row[ColumnHomeTeam]),
			AwayTeam: core.TeamID(row[ColumnAwayTeam]),
			Result:   result,
		}
		if f.HomeGoals, err = parseGoals(row[ColumnHomeGoals]); err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("row %d %s: %w", i+2, ColumnHomeGoals, err))
		}
		if f.AwayGoals, err = parseGoals(row[ColumnAwayGoals]); err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("row %d %s: %w", i+2, ColumnAwayGoals, err))
		}
		out = append(out, f)
	}
	return out, nil
}

func parseGoals(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// some exports write goal counts as floats
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// SeasonReader loads seasons from <dir>/<prefix><season>.csv, falling back
// to .xlsx
type SeasonReader struct {
	dir    string
	prefix string
	logger *internal.Logger
}

// NewSeasonReader creates a reader over a data directory
func NewSeasonReader(dir, prefix string, logger *internal.Logger) *SeasonReader {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &SeasonReader{dir: dir, prefix: prefix, logger: logger}
}

// Path returns the file a season is read from, preferring CSV
func (r *SeasonReader) Path(season string) string {
	base := filepath.Join(r.dir, r.prefix+season)
	for _, ext := range []string{".csv", ".xlsx"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return base + ".csv"
}

// ReadSeason implements ports.FixtureReader
func (r *SeasonReader) ReadSeason(ctx context.Context, season string) (*fixture.Season, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.Path(season)
	fixtures, err := NewDataReader(path, r.logger).ReadFixtures()
	if err != nil {
		return nil, err
	}
	s, err := fixture.NewSeason(season, fixtures)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	r.logger.WithField("season", season).Info("Loaded %d fixtures for %d teams from %s", s.Len(), len(s.Teams()), path)
	return s, nil
}
