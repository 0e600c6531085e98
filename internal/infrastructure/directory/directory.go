package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cellular-usage-report/internal/domain/usage"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

const (
	idColumn   = "device_id"
	nameColumn = "device_name"
)

var ErrMissingColumns = errors.New("device directory is missing device_id or device_name column")

// Directory is an immutable device_id -> device_name table.
type Directory struct {
	names map[string]string
	ids   []string
}

// New builds a directory from an in-memory table.
func New(names map[string]string) *Directory {
	copied := make(map[string]string, len(names))
	for id, name := range names {
		copied[id] = name
	}

	ids := lo.Keys(copied)
	slices.Sort(ids)

	return &Directory{names: copied, ids: ids}
}

// Load reads the directory from an .xlsx workbook (first sheet) or a .csv
// file. skipRows leading rows are ignored before the header row.
func Load(path string, skipRows int) (*Directory, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported device directory format: %s", path)
	}
	if err != nil {
		return nil, err
	}

	return FromRows(rows, skipRows)
}

// FromRows parses a header row followed by data rows.
func FromRows(rows [][]string, skipRows int) (*Directory, error) {
	if skipRows < 0 {
		skipRows = 0
	}
	if len(rows) <= skipRows {
		return nil, fmt.Errorf("device directory has no header row after skipping %d rows", skipRows)
	}

	header := rows[skipRows]
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idIdx, hasID := columns[idColumn]
	nameIdx, hasName := columns[nameColumn]
	if !hasID || !hasName {
		return nil, ErrMissingColumns
	}

	names := make(map[string]string)
	for _, row := range rows[skipRows+1:] {
		id := normalizeID(cell(row, idIdx))
		if id == "" {
			continue
		}

		name := strings.TrimSpace(cell(row, nameIdx))
		if name == "" {
			name = usage.UnknownName
		}
		names[id] = name
	}

	return New(names), nil
}

// Name returns the display name for deviceID.
func (d *Directory) Name(deviceID string) (string, bool) {
	name, ok := d.names[deviceID]
	return name, ok
}

// IDs returns every known identifier in ascending order.
func (d *Directory) IDs() []string {
	return slices.Clone(d.ids)
}

func (d *Directory) Len() int {
	return len(d.ids)
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeID turns spreadsheet renderings such as "1234.0" back into "1234".
func normalizeID(raw string) string {
	id := strings.TrimSpace(raw)

	dot := strings.IndexByte(id, '.')
	if dot <= 0 {
		return id
	}
	intPart, frac := id[:dot], id[dot+1:]
	if strings.Trim(frac, "0") != "" {
		return id
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return id
		}
	}
	return intPart
}
