package freqMotif

const (
	WindowSize        = 150
	LongReadThreshold = 1000
	LongWindowEnd     = 1000
)

// Window selects the analysed part of a read: the first WindowSize bases, or
// [LongWindowEnd-WindowSize, LongWindowEnd) for reads longer than LongReadThreshold.
// The returned slice shares memory with seq.
func Window(seq []byte) []byte {
	if len(seq) > LongReadThreshold {
		return seq[LongWindowEnd-WindowSize : LongWindowEnd]
	}
	return seq[:min(len(seq), WindowSize)]
}
