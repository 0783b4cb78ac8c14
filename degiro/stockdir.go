package degiro

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/joho/godotenv"
)

// EnvStockDir is the environment variable naming the data directory when
// it is not passed on the command line.
const EnvStockDir = "STOCKWATCH_PATH"

// fileDateFormat is the date prefix of exported file names: yymmdd.
const fileDateFormat = "060102"

// Dir is the directory holding the brokerage exports, with one subfolder
// per export kind.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at the given path.
func NewDir(root string) Dir { return Dir{root: root} }

// ResolveDir resolves the data directory from the command-line argument,
// falling back to the environment ($STOCKWATCH_PATH, possibly via a .env
// file in the working directory).
func ResolveDir(arg string) (Dir, error) {
	if arg != "" {
		return NewDir(arg), nil
	}
	// A missing .env file is fine, the variable may be set directly.
	_ = godotenv.Load()
	if root := os.Getenv(EnvStockDir); root != "" {
		return NewDir(root), nil
	}
	return Dir{}, fmt.Errorf("no data directory given and %s is not set", EnvStockDir)
}

// Root returns the root path of the directory.
func (d Dir) Root() string { return d.root }

// PortfolioFolder returns the folder holding dated position snapshots.
func (d Dir) PortfolioFolder() string { return filepath.Join(d.root, "portfolio") }

// AccountFolder returns the folder holding account activity reports.
func (d Dir) AccountFolder() string { return filepath.Join(d.root, "account") }

// IndicesFolder returns the folder holding reference index price files.
func (d Dir) IndicesFolder() string { return filepath.Join(d.root, "indices") }

// FileDate extracts the date from an exported file name, which starts
// with a yymmdd prefix (e.g. 210115_Portfolio.csv).
func FileDate(name string) (date.Date, error) {
	base := filepath.Base(name)
	if len(base) < len(fileDateFormat) {
		return date.Date{}, fmt.Errorf("file name %q has no yymmdd date prefix", base)
	}
	t, err := time.Parse(fileDateFormat, base[:len(fileDateFormat)])
	if err != nil {
		return date.Date{}, fmt.Errorf("file name %q has no yymmdd date prefix: %w", base, err)
	}
	return date.FromTime(t), nil
}

// csvFiles lists the CSV files in a folder, sorted by name, which for
// date-prefixed exports is chronological order.
func csvFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// PortfolioFiles lists the snapshot files, oldest first.
func (d Dir) PortfolioFiles() ([]string, error) { return csvFiles(d.PortfolioFolder()) }

// IndexFiles lists the reference index files.
func (d Dir) IndexFiles() ([]string, error) { return csvFiles(d.IndicesFolder()) }

// AccountFile returns the newest account report, or an error when none
// exists.
func (d Dir) AccountFile() (string, error) {
	files, err := csvFiles(d.AccountFolder())
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no account report found in %s", d.AccountFolder())
	}
	return files[len(files)-1], nil
}

// FirstPortfolioDate returns the date of the oldest snapshot file.
func (d Dir) FirstPortfolioDate() (date.Date, bool) {
	files, err := d.PortfolioFiles()
	if err != nil || len(files) == 0 {
		return date.Date{}, false
	}
	on, err := FileDate(files[0])
	if err != nil {
		return date.Date{}, false
	}
	return on, true
}

// portfolioFile returns the snapshot file path for the given date.
func (d Dir) portfolioFile(on date.Date) string {
	return filepath.Join(d.PortfolioFolder(), on.Format(fileDateFormat)+"_Portfolio.csv")
}

// HasPortfolio reports whether a snapshot for the given date exists.
func (d Dir) HasPortfolio(on date.Date) bool {
	_, err := os.Stat(d.portfolioFile(on))
	return err == nil
}

// WritePortfolio stores a scraped snapshot export under its dated name.
func (d Dir) WritePortfolio(on date.Date, content string) error {
	if err := os.MkdirAll(d.PortfolioFolder(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(d.portfolioFile(on), []byte(content), 0o644)
}

// WriteAccountReport stores a scraped account report named after the end
// date of its range.
func (d Dir) WriteAccountReport(end date.Date, content string) error {
	if err := os.MkdirAll(d.AccountFolder(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.AccountFolder(), end.Format(fileDateFormat)+"_Account.csv"), []byte(content), 0o644)
}
