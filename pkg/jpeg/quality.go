package jpeg

// Reference quantization tables from the JPEG standard (Annex K), in natural
// row-major order. Encoders derive their tables by scaling these, which is
// what makes a rough quality estimate possible.
var stdLuminance = [64]int{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

var stdChrominance = [64]int{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// unzig maps a zigzag scan position to its natural row-major position.
// Stream coefficients arrive in zigzag order while the reference tables
// above are in natural order.
var unzig = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// EstimateQuality reports the approximate libjpeg quality setting (1-100)
// that would produce this table, by inverting the standard scaling formula
// against the Annex K reference. Table id 0 is compared to the luminance
// reference, all others to the chrominance reference. The estimate is
// heuristic; exotic custom tables yield whatever scale they resemble.
func EstimateQuality(t *QuantTable) int {
	ref := &stdChrominance
	if t.ID == 0 {
		ref = &stdLuminance
	}

	// Average the per-coefficient scale percentage, rounding each term.
	sum := 0
	for i, v := range t.Values {
		r := ref[unzig[i]]
		sum += (100*int(v) + r/2) / r
	}
	scale := sum / 64

	var quality int
	switch {
	case scale <= 0:
		quality = 100
	case scale <= 100:
		quality = (200 - scale) / 2
	default:
		quality = 5000 / scale
	}
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return quality
}
