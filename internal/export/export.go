package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// Format names an output file format
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
	FormatText   Format = "txt"
)

// ParseFormat converts a case-insensitive format name
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatSQLite, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s", name)
	}
}

// Extension returns the file extension for f, without the dot
func (f Format) Extension() string {
	if f == FormatSQLite {
		return "db"
	}
	return string(f)
}

// Path returns the file written for base in format f
func Path(base string, f Format) string {
	return base + "." + f.Extension()
}

// Write writes t to base plus the extension of f and returns the path
func Write(t *election.Table, base string, f Format) (string, error) {
	path := Path(base, f)

	var err error
	switch f {
	case FormatCSV:
		err = writeFile(path, func(w io.Writer) error { return WriteCSV(w, t) })
	case FormatJSON:
		err = writeFile(path, func(w io.Writer) error { return WriteJSON(w, t) })
	case FormatText:
		err = writeFile(path, func(w io.Writer) error { return WriteText(w, t) })
	case FormatXLSX:
		err = WriteXLSX(path, t)
	case FormatSQLite:
		err = WriteSQLite(path, t)
	default:
		return "", fmt.Errorf("unknown format: %s", f)
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
