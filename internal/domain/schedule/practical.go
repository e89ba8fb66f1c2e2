package schedule

import (
	"strings"
	"unicode/utf8"
)

// Markers are the literal tokens used to classify lines of the practical grid.
type Markers struct {
	// Day marks a day header cell, e.g. "Day 1 : 17th Dec : Wed".
	Day string
	// Venue marks the venue row in column 0 or 1.
	Venue string
	// VenueKeyword selects the venue cells of the venue row, e.g. "Bunker 2".
	VenueKeyword string
	// TimeHeader is the exact text of column 1 on a column header row.
	TimeHeader string
	// SlotHeader is the exact text of column 0 on a column header row.
	SlotHeader string
	// PanelTokens select the header cells that describe a panel column.
	PanelTokens []string
	// TimeToken must appear in column 1 of a data row ("AM"/"PM").
	TimeToken string
	// NotAvailable is the placeholder for an empty slot.
	NotAvailable string
	// MinNameLength is the length a cell must exceed to be a student name.
	MinNameLength int
}

// DefaultMarkers returns the markers used by the exported schedule sheets.
func DefaultMarkers() Markers {
	return Markers{
		Day:           "Day",
		Venue:         "Venue",
		VenueKeyword:  "Bunker",
		TimeHeader:    "Time",
		SlotHeader:    "Slot No.",
		PanelTokens:   []string{"Panel", "Batch"},
		TimeToken:     "M",
		NotAvailable:  "NA",
		MinNameLength: 2,
	}
}

// First data column of the grid; columns 0 and 1 hold slot and time.
const (
	gridTimeField   = 1
	gridFirstColumn = 2
)

// LineKind is the classification of one grid line.
type LineKind int

const (
	LineSkipped LineKind = iota
	LineDayHeader
	LineVenue
	LineColumnHeader
	LineData
)

// String returns the name of the line kind.
func (k LineKind) String() string {
	switch k {
	case LineDayHeader:
		return "day_header"
	case LineVenue:
		return "venue"
	case LineColumnHeader:
		return "column_header"
	case LineData:
		return "data"
	default:
		return "skipped"
	}
}

// GridCell is one student-name cell of a data row with everything the
// current day block knows about its column.
type GridCell struct {
	Column    int
	Name      string
	Date      string
	Time      string
	Header    PanelHeader
	HasHeader bool
	Venue     string
}

// gridState lives for one day block and is reset at every day header.
type gridState struct {
	date    string
	venues  map[int]string
	columns map[int]PanelHeader
}

func (st *gridState) reset(date string) {
	st.date = date
	st.venues = make(map[int]string)
	st.columns = make(map[int]PanelHeader)
}

// GridScanner is the line-classification state machine over the practical grid.
type GridScanner struct {
	markers Markers
	state   gridState
}

// NewGridScanner creates a scanner with empty state.
func NewGridScanner(m Markers) *GridScanner {
	s := &GridScanner{markers: m}
	s.state.reset("")
	return s
}

// Date returns the date of the current day block.
func (s *GridScanner) Date() string {
	return s.state.date
}

// Scan classifies one row, updates the block state and, for data rows,
// returns the student-name cells.
func (s *GridScanner) Scan(row Row) (LineKind, []GridCell) {
	m := s.markers

	if cell, ok := s.dayCell(row); ok {
		s.state.reset(strings.TrimSpace(cell))
		return LineDayHeader, nil
	}

	if strings.Contains(row.Field(0), m.Venue) || strings.Contains(row.Field(1), m.Venue) {
		for idx, cell := range row {
			if cell != "" && strings.Contains(cell, m.VenueKeyword) {
				s.state.venues[idx] = strings.TrimSpace(cell)
			}
		}
		return LineVenue, nil
	}

	if row.Field(1) == m.TimeHeader || row.Field(0) == m.SlotHeader {
		for idx, cell := range row {
			if s.isPanelCell(cell) {
				s.state.columns[idx] = ParsePanelHeader(cell)
			}
		}
		return LineColumnHeader, nil
	}

	if s.state.date == "" {
		return LineSkipped, nil
	}

	slot := row.Field(gridTimeField)
	if slot == "" || !strings.Contains(slot, m.TimeToken) {
		return LineSkipped, nil
	}

	var cells []GridCell
	for j := gridFirstColumn; j < len(row); j++ {
		name := row[j]
		if !s.isStudentName(name) {
			continue
		}

		header, hasHeader := s.state.columns[j]
		venue, ok := s.state.venues[j]
		if !ok {
			venue = UnknownVenue
		}

		cells = append(cells, GridCell{
			Column:    j,
			Name:      name,
			Date:      s.state.date,
			Time:      strings.TrimSpace(slot),
			Header:    header,
			HasHeader: hasHeader,
			Venue:     venue,
		})
	}

	return LineData, cells
}

func (s *GridScanner) dayCell(row Row) (string, bool) {
	if c := row.Field(0); c != "" && strings.Contains(c, s.markers.Day) {
		return c, true
	}
	if c := row.Field(1); c != "" && strings.Contains(c, s.markers.Day) {
		return c, true
	}
	return "", false
}

func (s *GridScanner) isPanelCell(cell string) bool {
	if cell == "" {
		return false
	}
	for _, tok := range s.markers.PanelTokens {
		if strings.Contains(cell, tok) {
			return true
		}
	}
	return false
}

func (s *GridScanner) isStudentName(cell string) bool {
	return utf8.RuneCountInString(cell) > s.markers.MinNameLength && cell != s.markers.NotAvailable
}

// PracticalResult summarizes one practical pass.
type PracticalResult struct {
	DayBlocks int
	DataRows  int
	Cells     int // student-name cells seen
	Entries   int // practical entries appended
}

// AssignPractical walks the practical grid and appends a practical entry to
// every student whose normalized name appears in a data row. Columns without
// a parsed header fall back to Unknown subject and panel.
func AssignPractical(reg *Registry, rows []Row, markers Markers, diags *Diagnostics) PracticalResult {
	var res PracticalResult
	scanner := NewGridScanner(markers)
	index := NewNameIndex(reg)

	for i, row := range rows {
		kind, cells := scanner.Scan(row)
		switch kind {
		case LineDayHeader:
			res.DayBlocks++
			continue
		case LineData:
			res.DataRows++
		default:
			continue
		}

		for _, cell := range cells {
			res.Cells++

			rec, ok := index.Lookup(cell.Name)
			if !ok {
				diags.Add(DiagUnmatchedName, SourcePractical, i+1, cell.Name,
					"no registered student in column %d", cell.Column)
				continue
			}

			header := cell.Header
			if !cell.HasHeader {
				header = PanelHeader{Subject: UnknownSubject, Panel: UnknownPanel}
			}

			rec.AddPractical(PracticalEntry{
				Date:      cell.Date,
				Subject:   header.Subject,
				Panel:     header.Panel,
				Professor: header.Professor,
				Time:      cell.Time,
				Location:  cell.Venue,
			})
			res.Entries++
		}
	}

	return res
}
