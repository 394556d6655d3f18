package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"medsupply-service/internal/models"
)

// ReportFormat selects the serialization of a hospital request report
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatJSON ReportFormat = "json"
	ReportFormatXLSX ReportFormat = "xlsx"
)

const (
	ContentTypeCSV  = "text/csv;charset=utf-8;"
	ContentTypeJSON = "application/json;charset=utf-8;"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	reportFilenamePrefix = "hospital-requests-report-"
	requestTimeLayout    = "1/2/2006, 3:04:05 PM"
	isoMillisLayout      = "2006-01-02T15:04:05.000Z"
	reportSheetName      = "Hospital Requests"
)

// ReportColumns is the column order shared by every report format
var ReportColumns = []string{
	"Hospital Name",
	"Location",
	"Type",
	"Drug Name",
	"Quantity",
	"Urgency",
	"Distance (km)",
	"Request Time",
	"Priority Rank",
}

var ErrUnsupportedFormat = errors.New("unsupported report format")

// Report is a downloadable export of a prioritized request list
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// ReportExporter serializes prioritized hospital requests. Request times in
// CSV and XLSX are rendered in location; filenames and generatedAt are UTC.
type ReportExporter struct {
	location *time.Location
	now      func() time.Time
}

func NewReportExporter(location *time.Location) *ReportExporter {
	if location == nil {
		location = time.UTC
	}
	return &ReportExporter{location: location, now: time.Now}
}

// Export dispatches on format
func (e *ReportExporter) Export(format ReportFormat, ranked []models.RankedRequest, criteria models.FilterCriteria) (*Report, error) {
	switch format {
	case ReportFormatCSV, "":
		return e.ExportCSV(ranked), nil
	case ReportFormatJSON:
		return e.ExportJSON(ranked, criteria)
	case ReportFormatXLSX:
		return e.ExportXLSX(ranked)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExportCSV renders a header plus one line per request, joined by "\n" with
// no trailing newline. Free text is always quoted; numbers never are.
func (e *ReportExporter) ExportCSV(ranked []models.RankedRequest) *Report {
	lines := make([]string, 0, len(ranked)+1)
	lines = append(lines, strings.Join(ReportColumns, ","))

	for _, r := range ranked {
		lines = append(lines, strings.Join([]string{
			quoteCSV(r.HospitalName),
			quoteCSV(r.Location),
			quoteCSV(string(r.Type)),
			quoteCSV(r.DrugName),
			strconv.Itoa(r.Quantity),
			quoteCSV(string(r.Urgency)),
			formatDistance(r.Distance),
			quoteCSV(e.requestTime(r.HospitalRequest)),
			strconv.Itoa(r.PriorityRank),
		}, ","))
	}

	return &Report{
		Filename:    e.filename("csv"),
		ContentType: ContentTypeCSV,
		Body:        []byte(strings.Join(lines, "\n")),
		Rows:        len(ranked),
	}
}

type jsonReport struct {
	GeneratedAt   string                `json:"generatedAt"`
	Filters       models.FilterCriteria `json:"filters"`
	TotalRequests int                   `json:"totalRequests"`
	Data          []jsonReportRecord    `json:"data"`
}

type jsonReportRecord struct {
	models.HospitalRequest
	PriorityRank int    `json:"priorityRank"`
	RequestTime  string `json:"requestTime"`
}

// ExportJSON renders an indented document carrying the filters in effect
func (e *ReportExporter) ExportJSON(ranked []models.RankedRequest, criteria models.FilterCriteria) (*Report, error) {
	doc := jsonReport{
		GeneratedAt:   e.now().UTC().Format(isoMillisLayout),
		Filters:       criteria,
		TotalRequests: len(ranked),
		Data:          make([]jsonReportRecord, len(ranked)),
	}
	for i, r := range ranked {
		doc.Data[i] = jsonReportRecord{
			HospitalRequest: r.HospitalRequest,
			PriorityRank:    r.PriorityRank,
			RequestTime:     r.RequestTime().UTC().Format(isoMillisLayout),
		}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	return &Report{
		Filename:    e.filename("json"),
		ContentType: ContentTypeJSON,
		Body:        body,
		Rows:        len(ranked),
	}, nil
}

// ExportXLSX renders a single-sheet workbook with a styled header row
func (e *ReportExporter) ExportXLSX(ranked []models.RankedRequest) (*Report, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", reportSheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	for i, name := range ReportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(reportSheetName, cell, name)
		f.SetCellStyle(reportSheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(reportSheetName, colName, colName, 18)
	}

	for rowIdx, r := range ranked {
		values := []interface{}{
			r.HospitalName,
			r.Location,
			string(r.Type),
			r.DrugName,
			r.Quantity,
			string(r.Urgency),
			r.Distance,
			e.requestTime(r.HospitalRequest),
			r.PriorityRank,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(reportSheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &Report{
		Filename:    e.filename("xlsx"),
		ContentType: ContentTypeXLSX,
		Body:        buf.Bytes(),
		Rows:        len(ranked),
	}, nil
}

func (e *ReportExporter) requestTime(r models.HospitalRequest) string {
	return r.RequestTime().In(e.location).Format(requestTimeLayout)
}

func (e *ReportExporter) filename(ext string) string {
	return ReportFilename(e.now(), ext)
}

// ReportFilename stamps the export with the UTC time to the second, colons
// replaced by dashes
func ReportFilename(now time.Time, ext string) string {
	return reportFilenamePrefix + now.UTC().Format("2006-01-02T15-04-05") + "." + ext
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
