// Package ibge reads the IBGE table of bordering municipalities.
package ibge

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/redecred/redecred"
	"golang.org/x/text/encoding/charmap"
)

// DefaultPath is the reference file looked up when no path is configured.
const DefaultPath = "BR_Municipios_2024_LIMITROFES.xls"

// Column names of the reference file.
const (
	ColumnMunicipality = "CD_MUN"
	ColumnNeighborCode = "CD_LIM"
	ColumnNeighborName = "NM_LIM"
)

// Compile-time interface verification.
var _ redecred.NeighborService = (*NeighborTable)(nil)

// NeighborTable implements redecred.NeighborService from a reference file.
// The file is read on first use; a failed read is retried on the next call.
type NeighborTable struct {
	Path string

	mu    sync.Mutex
	index Index
}

// NewNeighborTable creates a NeighborTable reading the file at path.
func NewNeighborTable(path string) *NeighborTable {
	return &NeighborTable{Path: path}
}

// FindNeighbors returns the neighbors of a municipality in file order.
func (t *NeighborTable) FindNeighbors(ctx context.Context, municipalityID string) ([]*redecred.Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := t.load()
	if err != nil {
		return nil, err
	}
	return index.Neighbors(municipalityID), nil
}

// Len returns the number of municipalities with at least one neighbor,
// loading the file if needed.
func (t *NeighborTable) Len() (int, error) {
	index, err := t.load()
	if err != nil {
		return 0, err
	}
	return len(index), nil
}

func (t *NeighborTable) load() (Index, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.index != nil {
		return t.index, nil
	}

	f, err := os.Open(t.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, redecred.Errorf(redecred.ENOTFOUND, "neighbor reference file %s not found", t.Path)
		}
		return nil, fmt.Errorf("failed to open neighbor reference: %w", err)
	}
	defer f.Close()

	index, err := Parse(f)
	if err != nil {
		return nil, err
	}
	t.index = index
	return index, nil
}

// Index maps a padded municipality code to its neighbors.
type Index map[string][]redecred.Neighbor

// Neighbors returns copies of the neighbors of a municipality.
func (idx Index) Neighbors(municipalityID string) []*redecred.Neighbor {
	entries := idx[redecred.PadMunicipality(municipalityID)]
	out := make([]*redecred.Neighbor, len(entries))
	for i := range entries {
		n := entries[i]
		out[i] = &n
	}
	return out
}

// Parse reads the reference table. Rows of the IBGE workbook (.xls) are
// read from all of its sheets; anything else is taken as delimited text whose
// delimiter (semicolon, comma or tab) comes from the header line and whose
// content may be UTF-8 or ISO-8859-1. Repeated (code, name) pairs for a
// municipality are dropped.
func Parse(r io.Reader) (Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read neighbor reference: %w", err)
	}

	var rows [][]string
	if bytes.HasPrefix(data, workbookSignature) {
		rows, err = readWorkbook(data)
	} else {
		rows, err = readDelimited(data)
	}
	if err != nil {
		return nil, err
	}
	return buildIndex(rows)
}

func buildIndex(rows [][]string) (Index, error) {
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, redecred.Errorf(redecred.EINVALID, "neighbor reference is empty")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	mun, ok1 := columns[ColumnMunicipality]
	code, ok2 := columns[ColumnNeighborCode]
	name, ok3 := columns[ColumnNeighborName]
	if !ok1 || !ok2 || !ok3 {
		return nil, redecred.Errorf(redecred.EINVALID, "neighbor reference requires columns %s, %s and %s",
			ColumnMunicipality, ColumnNeighborCode, ColumnNeighborName)
	}
	width := max(mun, code, name) + 1

	index := Index{}
	seen := map[[3]string]struct{}{}
	for _, record := range rows[1:] {
		if len(record) < width {
			continue
		}

		m := cellCode(record[mun])
		n := redecred.Neighbor{
			MunicipalityID: cellCode(record[code]),
			Name:           strings.TrimSpace(record[name]),
		}
		if !isDigits(m) || !isDigits(n.MunicipalityID) {
			continue
		}
		m = redecred.PadMunicipality(m)
		n.MunicipalityID = redecred.PadMunicipality(n.MunicipalityID)

		key := [3]string{m, n.MunicipalityID, n.Name}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		index[m] = append(index[m], n)
	}
	return index, nil
}

func readDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var reader io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		reader = charmap.ISO8859_1.NewDecoder().Reader(reader)
	}

	cr := csv.NewReader(reader)
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read neighbor reference: %w", err)
	}
	return rows, nil
}

// cellCode normalizes a code cell. Workbooks store codes as numbers, which
// may come back with a zero fraction.
func cellCode(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// detectDelimiter picks the most frequent candidate delimiter on the first
// line, defaulting to a semicolon.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ';', 0
	for _, d := range []rune{';', ',', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
