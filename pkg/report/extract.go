package report

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoReport is returned when the report file does not exist.
	ErrNoReport = pkgerrors.New("report file not found")

	// ErrNoCapacityData is returned when the report exists but no
	// battery column has both capacity rows populated.
	ErrNoCapacityData = pkgerrors.New("no capacity data in report")
)

const (
	labelDesignCapacity     = "DESIGN CAPACITY"
	labelFullChargeCapacity = "FULL CHARGE CAPACITY"
)

// numberRe matches the leading run of digits and group separators in a
// cell like "53,408 mWh".
var numberRe = regexp.MustCompile(`[\d,]+`)

// Capacity holds the two readings scraped from the report, in the unit
// the OS reports (mWh for powercfg).
type Capacity struct {
	Design     float64 `json:"design"`
	FullCharge float64 `json:"fullCharge"`
}

// partialCapacity accumulates the two rows for one battery column and
// is only exposed once both are present.
type partialCapacity struct {
	design     *float64
	fullCharge *float64
}

func (p *partialCapacity) complete() bool {
	return p != nil && p.design != nil && p.fullCharge != nil
}

// ExtractCapacity parses the report at path and returns the capacity
// reading for the battery at the given zero-based index. Reports with
// multiple batteries lay them out as side-by-side value columns in the
// same labeled row; column position maps to battery index. If the
// requested index is incomplete or out of range, the first complete
// column is returned instead. A missing file yields ErrNoReport and a
// report without a complete column yields ErrNoCapacityData.
func ExtractCapacity(path string, index int) (*Capacity, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Wrapf(ErrNoReport, "%s", path)
		}
		return nil, pkgerrors.Wrapf(err, "failed to open report %s", path)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse report %s", path)
	}

	columns := scanCapacityRows(doc)

	if index >= 0 && index < len(columns) && columns[index].complete() {
		return columns[index].capacity(), nil
	}

	// Requested index incomplete or out of range; fall back to the
	// first fully populated column.
	for i, col := range columns {
		if col.complete() {
			logrus.WithFields(logrus.Fields{
				"requested": index,
				"used":      i,
			}).Debug("requested battery column incomplete, using fallback")
			return col.capacity(), nil
		}
	}

	return nil, pkgerrors.Wrapf(ErrNoCapacityData, "%s", path)
}

func (p *partialCapacity) capacity() *Capacity {
	return &Capacity{Design: *p.design, FullCharge: *p.fullCharge}
}

// scanCapacityRows walks every table row and accumulates capacity
// values per battery column. The first cell of a row is the label; each
// following cell belongs to battery index cell-1.
func scanCapacityRows(doc *goquery.Document) []*partialCapacity {
	var columns []*partialCapacity

	at := func(i int) *partialCapacity {
		for len(columns) <= i {
			columns = append(columns, &partialCapacity{})
		}
		return columns[i]
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}

		label := strings.ToUpper(strings.TrimSpace(cells.First().Text()))
		isDesign := strings.Contains(label, labelDesignCapacity)
		isFullCharge := strings.Contains(label, labelFullChargeCapacity)
		if !isDesign && !isFullCharge {
			return
		}

		cells.Slice(1, cells.Length()).Each(func(col int, cell *goquery.Selection) {
			value, ok := parseNumeric(cell.Text())
			if !ok {
				return
			}
			if isDesign {
				at(col).design = &value
			} else {
				at(col).fullCharge = &value
			}
		})
	})

	return columns
}

// parseNumeric extracts the first run of digits and group separators
// from the cell text and parses it, discarding separators.
func parseNumeric(text string) (float64, bool) {
	match := numberRe.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
