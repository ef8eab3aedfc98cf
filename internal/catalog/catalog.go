// Package catalog reads orbital-element catalogs of known comets and
// asteroids. The simulation only ever sees parsed [Record] values.
package catalog

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/physics"
)

//go:embed data/*.csv
var embedded embed.FS

// ErrEmpty indicates a catalog source that produced no usable records.
var ErrEmpty = errors.New("catalog: no records")

// Record is one catalog row. Angles are in degrees; SemiMajorAxisRatio is in
// units of the reference (Earth) distance. Radius is in kilometres and only
// meaningful when HasRadius is set.
type Record struct {
	Name               string
	Eccentricity       float64
	SemiMajorAxisRatio float64
	LongAscendingNode  float64
	ArgPeriapsis       float64
	Radius             float64
	HasRadius          bool
}

// Elements converts the record to orbital elements at periapsis.
func (r Record) Elements(earthDistance float64) physics.Elements {
	return physics.Elements{
		SemiMajorAxis:     r.SemiMajorAxisRatio * earthDistance,
		Eccentricity:      r.Eccentricity,
		LongAscendingNode: r.LongAscendingNode,
		ArgPeriapsis:      r.ArgPeriapsis,
	}
}

// Mass treats the body as a uniform sphere of CatalogDensity. Records without
// a size use DefaultCatalogRadius.
func (r Record) Mass(c physics.Constants) float64 {
	radius := c.DefaultCatalogRadius
	if r.HasRadius && r.Radius > 0 {
		radius = r.Radius
	}
	m := radius * 1000
	return c.CatalogDensity * 4.0 / 3.0 * math.Pi * m * m * m
}

// Catalog holds the two catalogs the engine can populate from.
type Catalog struct {
	Comets    []Record
	Asteroids []Record

	// Skipped counts rejected rows across both files.
	Skipped int
}

// Result reports a parse: the usable records and how many rows were rejected.
type Result struct {
	Records []Record
	Skipped int
}

// Parse reads rows of name,e,a,Ω,ω with an optional sixth diameter column.
// Lines starting with '#' are comments. Rows with the wrong arity or
// unparsable numbers are skipped and counted, never fatal.
func Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var res Result
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Skipped++
				continue
			}
			return res, err
		}

		rec, ok := parseRow(row)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func parseRow(row []string) (Record, bool) {
	if len(row) != 5 && len(row) != 6 {
		return Record{}, false
	}

	nums := make([]float64, 0, 5)
	for _, field := range row[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, false
		}
		nums = append(nums, v)
	}

	rec := Record{
		Name:               strings.TrimSpace(row[0]),
		Eccentricity:       nums[0],
		SemiMajorAxisRatio: nums[1],
		LongAscendingNode:  nums[2],
		ArgPeriapsis:       nums[3],
	}
	if len(nums) == 5 {
		rec.Radius = nums[4] / 2
		rec.HasRadius = true
	}
	return rec, true
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load("", "")
}

// Load reads the comet and asteroid catalogs from disk. An empty path
// selects the embedded data for that catalog.
func Load(cometsPath, asteroidsPath string) (*Catalog, error) {
	comets, err := loadOne(cometsPath, "data/comets.csv")
	if err != nil {
		return nil, fmt.Errorf("comets: %w", err)
	}
	asteroids, err := loadOne(asteroidsPath, "data/asteroids.csv")
	if err != nil {
		return nil, fmt.Errorf("asteroids: %w", err)
	}
	return &Catalog{
		Comets:    comets.Records,
		Asteroids: asteroids.Records,
		Skipped:   comets.Skipped + asteroids.Skipped,
	}, nil
}

func loadOne(path, fallback string) (Result, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = embedded.ReadFile(fallback)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Result{}, err
	}

	res, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, err
	}
	if len(res.Records) == 0 {
		return Result{}, ErrEmpty
	}
	return res, nil
}
