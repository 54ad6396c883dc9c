// Package ingest turns uploaded or on-disk files into scored CSV output,
// processing rows in bounded chunks.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
)

var formatsByExtension = map[string]domain.FileFormat{
	".csv":  domain.FileFormat_Delimited,
	".xlsx": domain.FileFormat_Spreadsheet,
	".xls":  domain.FileFormat_Spreadsheet,
	".txt":  domain.FileFormat_LineText,
}

// DetectFormat chooses the input format from the filename extension.
// There is no content sniffing and no silent fallback: an unrecognized
// extension is rejected before any scoring work happens.
func DetectFormat(filename string) (domain.FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if format, ok := formatsByExtension[ext]; ok {
		return format, nil
	}
	return "", fmt.Errorf("%w: %s. Use .csv, .xlsx, or .txt", domain.ErrUnsupportedFormat, ext)
}

// OutputName derives the deterministic result artifact name,
// prediction_<stem>.csv, regardless of the input format.
func OutputName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return "prediction_" + stem + ".csv"
}
