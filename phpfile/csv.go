package phpfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/tarjimlab/tarjim/classify"
)

// csvHeader is the fixed column order of the export.
var csvHeader = []string{
	"Line", "Key", "Original", "Translation",
	"Status", "Needs Translation", "Type", "Pattern",
}

// ExportCSV writes all items to path as BOM-prefixed UTF-8 CSV, which
// spreadsheet applications need to pick up the Arabic text correctly.
func (f *File) ExportCSV(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	for i := range f.Items {
		it := &f.Items[i]
		needs := "no"
		if it.NeedsTranslation {
			needs = "yes"
		}
		record := []string{
			strconv.Itoa(it.LineNumber),
			it.Key,
			it.OriginalValue,
			it.TranslatedValue,
			classify.Status(it.OriginalValue, it.TranslatedValue),
			needs,
			it.TranslationType,
			strconv.Itoa(it.PatternUsed),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
