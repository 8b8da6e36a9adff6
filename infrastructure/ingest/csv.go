// Package ingest reads product catalogs from external files.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"stylegraph/application/ports"
	"stylegraph/domain/catalog"
)

// Column names of the catalog export.
const (
	colID          = "ProductID"
	colName        = "ProductName"
	colBrand       = "ProductBrand"
	colGender      = "Gender"
	colPrice       = "Price (INR)"
	colColor       = "PrimaryColor"
	colDescription = "Description"
	colNumImages   = "NumImages"
)

// CSVLoader implements ports.CatalogLoader for catalog CSV exports.
// Rows that fail to parse are skipped and counted, not fatal.
type CSVLoader struct {
	logger *zap.Logger
}

// NewCSVLoader creates a loader
func NewCSVLoader(logger *zap.Logger) *CSVLoader {
	return &CSVLoader{logger: logger}
}

var _ ports.CatalogLoader = (*CSVLoader)(nil)

// Load reads the CSV file at source and returns its products
func (l *CSVLoader) Load(ctx context.Context, source string) ([]*catalog.Product, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", source, err)
	}
	defer f.Close()

	return l.parse(ctx, f, source)
}

func (l *CSVLoader) parse(ctx context.Context, r io.Reader, source string) ([]*catalog.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colID, colName, colGender, colPrice} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog %s is missing column %q", source, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var products []*catalog.Product
	var skipped int

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(field(record, colPrice), 64)
		if err != nil {
			skipped++
			continue
		}

		p, err := catalog.NewProduct(
			field(record, colID),
			field(record, colName),
			field(record, colBrand),
			strings.ToLower(field(record, colGender)),
			strings.ToLower(field(record, colColor)),
			price,
		)
		if err != nil {
			skipped++
			continue
		}

		p.Description = strings.ToLower(field(record, colDescription))
		if n, err := strconv.Atoi(field(record, colNumImages)); err == nil {
			p.NumImages = n
		}

		products = append(products, p)
	}

	l.logger.Info("catalog loaded",
		zap.String("source", source),
		zap.Int("products", len(products)),
		zap.Int("skipped", skipped))

	return products, nil
}
