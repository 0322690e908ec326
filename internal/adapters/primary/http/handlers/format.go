package handlers

import "strconv"

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
