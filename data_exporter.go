package cianparser

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ListingSource pages through stored listings. Pages start at 1; an empty page ends the export.
type ListingSource interface {
	Listings(ctx context.Context, page int) ([]Listing, error)
}

// ExportCSV writes every listing of source to fileName, one column per listing key.
func ExportCSV(ctx context.Context, source ListingSource, fileName string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader()); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	total := 0
	for page := 1; ; page++ {
		listings, err := source.Listings(ctx, page)
		if err != nil {
			return total, err
		}
		if len(listings) == 0 {
			break
		}
		for i := range listings {
			if err := writer.Write(csvRow(&listings[i])); err != nil {
				return total, fmt.Errorf("failed to write row: %w", err)
			}
			total++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return total, fmt.Errorf("failed to flush csv: %w", err)
	}
	return total, nil
}

func csvHeader() []string {
	var header []string
	for _, c := range (&Listing{}).columns() {
		header = append(header, c.Key)
	}
	return header
}

func csvRow(listing *Listing) []string {
	var row []string
	for _, c := range listing.columns() {
		switch v := c.Value.(type) {
		case string:
			row = append(row, v)
		case time.Time:
			row = append(row, v.UTC().Format(time.RFC3339))
		default:
			row = append(row, formatNumber(v))
		}
	}
	return row
}

func generateCsvFileName(siteName string) string {
	return fmt.Sprintf("storage/data/%s/%s.csv", siteName, time.Now().Format("2006_01_02"))
}

// export dumps the sink to a dated CSV and uploads it when GCS_BUCKET is set.
func (app *Crawler) export(ctx context.Context) error {
	source, ok := app.sink.(ListingSource)
	if !ok {
		return fmt.Errorf("sink %T cannot be exported", app.sink)
	}

	fileName := generateCsvFileName(app.Name)
	total, err := ExportCSV(ctx, source, fileName)
	if err != nil {
		return err
	}
	app.Logger.Info("Exported %d listings to %s", total, fileName)

	bucket := app.Config.EnvString("GCS_BUCKET")
	if bucket == "" {
		return nil
	}
	destination := fmt.Sprintf("cian/%s/%s", app.Name, filepath.Base(fileName))
	return UploadToBucket(ctx, app.Config, app.Logger, bucket, fileName, destination)
}
