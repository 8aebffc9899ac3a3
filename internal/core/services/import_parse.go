package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// AllowedImportExtensions lists the file types the import pipeline accepts.
var AllowedImportExtensions = []string{".csv", ".xls", ".xlsx"}

var errUndecodable = errors.New("unable to decode CSV file")

// ImportExtension returns the lower-cased extension of filename if it is importable.
func ImportExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedImportExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: Unsupported file type. Allowed: %s", apperrors.ErrValidation, strings.Join(AllowedImportExtensions, ", "))
}

// ParseImportFile decodes an uploaded file into headers and rows.
func ParseImportFile(content []byte, filename, encoding string) (domain.ParsedTable, error) {
	ext, err := ImportExtension(filename)
	if err != nil {
		return domain.ParsedTable{}, err
	}
	var records [][]string
	if ext == ".csv" {
		text, err := decodeCSV(content, encoding)
		if err != nil {
			return domain.ParsedTable{}, err
		}
		records, err = readCSV(text)
		if err != nil {
			return domain.ParsedTable{}, err
		}
	} else {
		records, err = readWorkbook(content)
		if err != nil {
			return domain.ParsedTable{}, err
		}
	}
	return buildTable(records), nil
}

// decodeCSV tries the requested encoding first, then cp949, euc-kr and utf-8 with BOM.
func decodeCSV(content []byte, requested string) (string, error) {
	tried := map[string]bool{}
	for _, enc := range append([]string{normalizeEncoding(requested)}, "cp949", "euc-kr", "utf-8-sig") {
		if tried[enc] {
			continue
		}
		tried[enc] = true
		if text, ok := decodeAs(content, enc); ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %w", apperrors.ErrValidation, errUndecodable)
}

func normalizeEncoding(enc string) string {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf8", "utf-8":
		return "utf-8"
	case "utf-8-sig", "utf8-sig":
		return "utf-8-sig"
	case "cp949", "ms949", "windows-949":
		return "cp949"
	case "euc-kr", "euckr":
		return "euc-kr"
	}
	return strings.ToLower(enc)
}

func decodeAs(content []byte, enc string) (string, bool) {
	switch enc {
	case "utf-8", "utf-8-sig":
		if !utf8.Valid(content) {
			return "", false
		}
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), content)
		if err != nil {
			return "", false
		}
		return string(out), true
	case "cp949", "euc-kr":
		// the x/text EUC-KR table is the cp949 superset
		out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), content)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}
	return "", false
}

func readCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: Failed to parse file: %v", apperrors.ErrValidation, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func readWorkbook(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: Failed to parse file: %v", apperrors.ErrValidation, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: Failed to parse file: workbook has no sheets", apperrors.ErrValidation)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: Failed to parse file: %v", apperrors.ErrValidation, err)
	}
	return rows, nil
}

// buildTable turns raw records into a header row and keyed rows.
// Repeated header names get the first unused numeric suffix; blank rows are dropped.
func buildTable(records [][]string) domain.ParsedTable {
	table := domain.ParsedTable{Headers: []string{}, Rows: []map[string]string{}}
	if len(records) == 0 {
		return table
	}

	taken := make(map[string]bool)
	nextSuffix := make(map[string]int)
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "column_" + strconv.Itoa(i+1)
		}
		if taken[h] {
			base := h
			n := max(nextSuffix[base], 2)
			for h = base + "_" + strconv.Itoa(n); taken[h]; h = base + "_" + strconv.Itoa(n) {
				n++
			}
			nextSuffix[base] = n + 1
		}
		taken[h] = true
		table.Headers = append(table.Headers, h)
	}

	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(map[string]string, len(table.Headers))
		for i, h := range table.Headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
