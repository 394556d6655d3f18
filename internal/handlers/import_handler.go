package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"medsupply-service/internal/middleware"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	ImportedIDs  []string         `json:"importedIds,omitempty"`
}

type ImportHandler struct {
	distributors repository.DistributorRepositoryInterface
	activity     repository.ActivityRepositoryInterface
}

func NewImportHandler(distributors repository.DistributorRepositoryInterface, activity repository.ActivityRepositoryInterface) *ImportHandler {
	return &ImportHandler{distributors: distributors, activity: activity}
}

// DistributorImportTemplate returns the template for the distributor catalog.
// Inventory and pricing cells list "drug=value" pairs separated by semicolons.
func DistributorImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "distributors",
		Version: "1.0",
		Columns: []ImportTemplateColumn{
			{Name: "code", Description: "Unique distributor code", Required: true, Type: "string", Example: "DIST-001"},
			{Name: "name", Description: "Distributor name", Required: true, Type: "string", Example: "Apollo Pharmacy Distribution Hub"},
			{Name: "address", Description: "Ledger account address", Required: false, Type: "string", Example: "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6"},
			{Name: "location", Description: "City or area", Required: false, Type: "string", Example: "Jubilee Hills, Hyderabad"},
			{Name: "latitude", Description: "Latitude", Required: false, Type: "number", Example: "17.4326"},
			{Name: "longitude", Description: "Longitude", Required: false, Type: "number", Example: "78.4071"},
			{Name: "distance", Description: "Distance in km", Required: false, Type: "number", Example: "2.8"},
			{Name: "estimated_delivery", Description: "Estimated delivery time", Required: false, Type: "string", Example: "1.5 hours"},
			{Name: "available", Description: "Accepting orders (true/false)", Required: false, Type: "boolean", Example: "true"},
			{Name: "rating", Description: "Rating from 0 to 5", Required: false, Type: "number", Example: "4.9"},
			{Name: "specialization", Description: "Specialization", Required: false, Type: "string", Example: "Multi-specialty medications"},
			{Name: "inventory", Description: "Units on hand as drug=qty;drug=qty", Required: true, Type: "string", Example: "Paracetamol 500mg=8000;Aspirin 75mg=6000"},
			{Name: "pricing", Description: "Unit prices as drug=price;drug=price", Required: true, Type: "string", Example: "Paracetamol 500mg=0.12;Aspirin 75mg=0.08"},
			{Name: "advantages", Description: "Advantages separated by semicolons", Required: false, Type: "string", Example: "24/7 service;Fast delivery"},
		},
		SampleData: []map[string]string{
			{
				"code":               "DIST-001",
				"name":               "Apollo Pharmacy Distribution Hub",
				"address":            "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6",
				"location":           "Jubilee Hills, Hyderabad",
				"latitude":           "17.4326",
				"longitude":          "78.4071",
				"distance":           "2.8",
				"estimated_delivery": "1.5 hours",
				"available":          "true",
				"rating":             "4.9",
				"specialization":     "Multi-specialty medications",
				"inventory":          "Paracetamol 500mg=8000;Amoxicillin 250mg=4500",
				"pricing":            "Paracetamol 500mg=0.12;Amoxicillin 250mg=0.38",
				"advantages":         "24/7 service;Premium quality;Fast delivery",
			},
		},
	}
}

// GetDistributorImportTemplate returns the distributor import template
// GET /api/v1/distributors/import/template
func (h *ImportHandler) GetDistributorImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := DistributorImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template, "distributors")
	case "xlsx":
		h.generateXLSXTemplate(c, template, "Distributors")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
	}
}

func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template ImportTemplate, entity string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.csv", entity))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)

	for _, sample := range template.SampleData {
		row := make([]string, len(template.Columns))
		for i, col := range template.Columns {
			row[i] = sample[col.Name]
		}
		writer.Write(row)
	}
}

func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template ImportTemplate, sheetName string) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		style := headerStyle
		if col.Required {
			headerText = col.Name + " *"
			style = requiredStyle
		}
		f.SetCellValue(sheetName, cell, headerText)
		f.SetCellStyle(sheetName, cell, cell, style)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	for rowIdx, sample := range template.SampleData {
		for colIdx, col := range template.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, sample[col.Name])
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.xlsx", strings.ToLower(sheetName)))

	f.Write(c.Writer)
}

// ImportDistributors imports the catalog from a CSV or Excel file. Rows are
// upserted by code unless skipDuplicates is set.
// POST /api/v1/distributors/import
func (h *ImportHandler) ImportDistributors(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a CSV or Excel file")
		return
	}
	defer file.Close()

	skipDuplicates := c.DefaultPostForm("skipDuplicates", "false") == "true"
	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	rows, parseErr := parseFile(file, header.Filename)
	if parseErr != nil {
		respondError(c, http.StatusBadRequest, "PARSE_ERROR", parseErr.Error())
		return
	}

	if len(rows) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_FILE", "The file contains no data rows")
		return
	}

	result := h.processDistributorRows(c.Request.Context(), tenantID, middleware.GetActorName(c), rows, skipDuplicates, validateOnly)
	c.JSON(http.StatusOK, result)
}

func parseFile(file io.Reader, filename string) ([]map[string]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return parseCSV(file)
	} else if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return parseXLSX(file)
	}
	return nil, fmt.Errorf("only CSV and XLSX files are supported")
}

func normalizeHeaders(headers []string) {
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}
}

func parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	normalizeHeaders(headers)

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1)
		rows = append(rows, row)
		lineNum++
	}

	return rows, nil
}

func parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := excelRows[0]
	normalizeHeaders(headers)

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2)
		rows = append(rows, row)
	}

	return rows, nil
}

func (h *ImportHandler) processDistributorRows(ctx context.Context, tenantID, actor string, rows []map[string]string, skipDuplicates, validateOnly bool) *ImportResult {
	result := &ImportResult{
		TotalRows:   len(rows),
		Errors:      make([]ImportRowError, 0),
		ImportedIDs: make([]string, 0),
	}

	existing := make(map[string]bool)
	if skipDuplicates {
		catalog, err := h.distributors.ListAll(ctx, tenantID)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Code: "CATALOG_ERROR", Message: "Failed to load existing distributors"})
			result.FailedCount = len(rows)
			return result
		}
		for _, d := range catalog {
			existing[d.Code] = true
		}
	}

	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		distributor, rowErrors := distributorFromRow(tenantID, row, rowNum)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.FailedCount++
			continue
		}

		if skipDuplicates && existing[distributor.Code] {
			result.SkippedCount++
			continue
		}

		if validateOnly {
			result.SuccessCount++
			continue
		}

		distributor.CreatedBy = stringPtr(actor)
		if err := h.distributors.Upsert(ctx, distributor); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Code: "SAVE_FAILED", Message: err.Error()})
			result.FailedCount++
			continue
		}
		existing[distributor.Code] = true
		result.SuccessCount++
		result.ImportedIDs = append(result.ImportedIDs, distributor.ID.String())
	}

	result.Success = result.FailedCount == 0

	if !validateOnly && result.SuccessCount > 0 && h.activity != nil {
		details, _ := json.Marshal(map[string]interface{}{
			"imported": result.SuccessCount,
			"skipped":  result.SkippedCount,
			"failed":   result.FailedCount,
		})
		_ = h.activity.Create(ctx, &models.ActivityLog{
			TenantID: tenantID,
			Type:     models.ActivityDistributorsImported,
			Actor:    actor,
			Details:  datatypes.JSON(details),
		})
	}

	return result
}

func distributorFromRow(tenantID string, row map[string]string, rowNum int) (*models.Distributor, []ImportRowError) {
	var errs []ImportRowError
	fail := func(column, code, message string) {
		errs = append(errs, ImportRowError{Row: rowNum, Column: column, Code: code, Message: message})
	}

	d := &models.Distributor{
		TenantID:          tenantID,
		Code:              row["code"],
		Name:              row["name"],
		Address:           row["address"],
		Location:          row["location"],
		EstimatedDelivery: row["estimated_delivery"],
		Specialization:    row["specialization"],
		Available:         true,
	}

	if d.Code == "" {
		fail("code", "REQUIRED", "code is required")
	}
	if d.Name == "" {
		fail("name", "REQUIRED", "name is required")
	}

	floatFields := map[string]*float64{
		"latitude":  &d.Latitude,
		"longitude": &d.Longitude,
		"distance":  &d.Distance,
		"rating":    &d.Rating,
	}
	for column, dst := range floatFields {
		if v := row[column]; v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				fail(column, "INVALID_NUMBER", fmt.Sprintf("%s must be a number", column))
				continue
			}
			*dst = f
		}
	}
	if d.Distance < 0 {
		fail("distance", "INVALID_VALUE", "distance must not be negative")
	}
	if d.Rating < 0 || d.Rating > 5 {
		fail("rating", "INVALID_VALUE", "rating must be between 0 and 5")
	}

	if v := row["available"]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail("available", "INVALID_BOOLEAN", "available must be true or false")
		} else {
			d.Available = b
		}
	}

	inventory, err := parseDrugPairs(row["inventory"], func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err == nil && n < 0 {
			return 0, fmt.Errorf("quantity must not be negative")
		}
		return n, err
	})
	if err != nil {
		fail("inventory", "INVALID_VALUE", err.Error())
	}
	pricing, err := parseDrugPairs(row["pricing"], func(s string) (float64, error) {
		p, err := strconv.ParseFloat(s, 64)
		if err == nil && p < 0 {
			return 0, fmt.Errorf("price must not be negative")
		}
		return p, err
	})
	if err != nil {
		fail("pricing", "INVALID_VALUE", err.Error())
	}
	if len(inventory) == 0 {
		fail("inventory", "REQUIRED", "inventory must list at least one drug")
	}
	for drug := range inventory {
		if _, ok := pricing[drug]; !ok {
			fail("pricing", "MISSING_PRICE", fmt.Sprintf("no price for %s", drug))
		}
	}
	d.Inventory = models.DrugQuantities(inventory)
	d.Pricing = models.DrugPrices(pricing)

	if v := row["advantages"]; v != "" {
		for _, a := range strings.Split(v, ";") {
			if a = strings.TrimSpace(a); a != "" {
				d.Advantages = append(d.Advantages, a)
			}
		}
	}

	return d, errs
}

// parseDrugPairs reads "drug=value;drug=value"
func parseDrugPairs[T any](raw string, parse func(string) (T, error)) (map[string]T, error) {
	out := make(map[string]T)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		drug, value, ok := strings.Cut(pair, "=")
		drug = strings.TrimSpace(drug)
		if !ok || drug == "" {
			return nil, fmt.Errorf("expected drug=value, got %q", pair)
		}
		v, err := parse(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %v", drug, err)
		}
		out[drug] = v
	}
	return out, nil
}
