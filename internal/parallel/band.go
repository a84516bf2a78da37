package parallel

// Band is a half-open range of rows [Start, End).
type Band struct {
	Start, End int
}

// Len returns the number of rows in the band.
func (b Band) Len() int {
	return b.End - b.Start
}

// Bands splits rows [0, n) into consecutive bands of at most size rows.
// The last band may be shorter. A size below 1 is treated as 1.
func Bands(n, size int) []Band {
	if n <= 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}

	bands := make([]Band, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		bands = append(bands, Band{Start: start, End: min(start+size, n)})
	}
	return bands
}
