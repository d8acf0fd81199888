package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// depthColumnRe matches HAZUS depth column names: "ft03" is 3 ft above the
// first floor, "ft04m" is 4 ft below it.
var depthColumnRe = regexp.MustCompile(`^ft(\d+(?:\.\d+)?)(m?)$`)

// ParseDepthColumn returns the depth encoded in a HAZUS column name.
func ParseDepthColumn(name string) (float64, bool) {
	m := depthColumnRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(name)))
	if len(m) != 3 {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "m" {
		v = -v
	}
	return v, true
}

// ParseDamageRow extracts parallel depth and damage sequences from one row of a
// depth-damage table. Columns that do not name a depth are ignored, as are cells
// holding the "no data" sentinel.
func ParseDamageRow(header, row []string) (depths, damages []float64, err error) {
	for i, name := range header {
		depth, ok := ParseDepthColumn(name)
		if !ok || i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if isMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse damage column %s: %w", name, err)
		}
		depths = append(depths, depth)
		damages = append(damages, v)
	}
	return depths, damages, nil
}

func isMissing(cell string) bool {
	switch strings.ToUpper(cell) {
	case "", "NA", "N/A", "NAN":
		return true
	}
	return false
}
