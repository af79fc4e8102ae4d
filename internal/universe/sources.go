package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantinfra/nifty500/pkg/httputil"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// Source produces raw (suffix-free) constituent symbols. Sources share one
// return contract: a populated list, or an empty list / error meaning the
// resolver should fall through to the next source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}

// NSESource fetches the official NIFTY 500 constituents CSV published by
// the index provider.
type NSESource struct {
	client *httputil.Client
	url    string
	logger *logger.Logger
}

// NewNSESource creates the primary constituents source.
func NewNSESource(client *httputil.Client, url string, log *logger.Logger) *NSESource {
	return &NSESource{client: client, url: url, logger: log}
}

// Name returns the source name.
func (s *NSESource) Name() string { return "nse" }

// Fetch downloads the constituents CSV and extracts the Symbol column.
func (s *NSESource) Fetch(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	symbols, err := parseConstituentsCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(symbols)).Info("Fetched constituents from NSE")
	return symbols, nil
}

// parseConstituentsCSV extracts the Symbol column from the index provider CSV.
func parseConstituentsCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse constituents CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	symbolCol := -1
	for i, col := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(col), "Symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol == -1 {
		return nil, fmt.Errorf("'Symbol' column not found in constituents CSV")
	}

	return collectUnique(rows[1:], symbolCol), nil
}

// collectUnique gathers non-empty values of one column preserving order.
func collectUnique(rows [][]string, col int) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		symbol := strings.TrimSpace(row[col])
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols
}

// WikipediaSource scans the NIFTY 500 encyclopedia page for a table with a
// stock symbol column, falling back to company names as a last structural
// resort.
type WikipediaSource struct {
	client *httputil.Client
	url    string
	logger *logger.Logger
}

// NewWikipediaSource creates the secondary constituents source.
func NewWikipediaSource(client *httputil.Client, url string, log *logger.Logger) *WikipediaSource {
	return &WikipediaSource{client: client, url: url, logger: log}
}

// Name returns the source name.
func (s *WikipediaSource) Name() string { return "wikipedia" }

// Fetch downloads the page and scans its tables for symbols.
func (s *WikipediaSource) Fetch(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch encyclopedia page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	symbols, err := parseWikipediaTables(resp.Body)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(symbols)).Info("Fetched constituents from Wikipedia")
	return symbols, nil
}

// parseWikipediaTables finds the first table carrying a Symbol column
// (or a Company column as structural fallback) and collects its values.
func parseWikipediaTables(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var symbols []string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		symbolCol, companyCol := -1, -1
		table.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
			header := strings.TrimSpace(cell.Text())
			if strings.EqualFold(header, "Symbol") {
				symbolCol = i
			}
			if strings.EqualFold(header, "Company") || strings.EqualFold(header, "Company Name") {
				companyCol = i
			}
		})

		col := symbolCol
		if col == -1 {
			col = companyCol
		}
		if col == -1 {
			return true // keep scanning
		}

		seen := make(map[string]bool)
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			cell := row.Find("th, td").Eq(col)
			symbol := strings.TrimSpace(cell.Text())
			if symbol == "" || seen[symbol] {
				return
			}
			seen[symbol] = true
			symbols = append(symbols, symbol)
		})

		return len(symbols) == 0
	})

	return symbols, nil
}

// StaticSource returns a hand-curated list of large-capitalization NIFTY 500
// members. Used only when both network sources fail so the pipeline can
// proceed offline, at the cost of a smaller, non-representative universe.
type StaticSource struct {
	logger *logger.Logger
}

// NewStaticSource creates the tertiary fallback source.
func NewStaticSource(log *logger.Logger) *StaticSource {
	return &StaticSource{logger: log}
}

// Name returns the source name.
func (s *StaticSource) Name() string { return "static" }

// Fetch returns the curated fallback list.
func (s *StaticSource) Fetch(ctx context.Context) ([]string, error) {
	s.logger.Warn("Using static fallback list of major NIFTY 500 stocks")
	symbols := make([]string, len(staticSymbols))
	copy(symbols, staticSymbols)
	return symbols, nil
}
