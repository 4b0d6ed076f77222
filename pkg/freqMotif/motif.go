package freqMotif

// Motif is one of the 81 counted categories:
// 16 dinucleotides, 64 trinucleotides and LowComplexity, in that order.
type Motif uint8

const (
	DinucleotideCount  = 16
	TrinucleotideCount = 64
	MotifCount         = DinucleotideCount + TrinucleotideCount + 1

	LowComplexity Motif = MotifCount - 1

	LowComplexityName = "LowComplexity"
)

type Kind uint8

const (
	KindDinucleotide Kind = iota
	KindTrinucleotide
	KindLowComplexity
)

func (k Kind) String() string {
	switch k {
	case KindDinucleotide:
		return "Dinucleotide"
	case KindTrinucleotide:
		return "Trinucleotide"
	default:
		return LowComplexityName
	}
}

var bases = [4]byte{'A', 'C', 'G', 'T'}

// baseCode maps A/C/G/T (either case) to 0..3 and everything else to -1
var baseCode = func() (code [256]int8) {
	for i := range code {
		code[i] = -1
	}
	for i, b := range bases {
		code[b] = int8(i)
		code[b+'a'-'A'] = int8(i)
	}
	return
}()

var motifNames = func() (names [MotifCount]string) {
	for i := 0; i < DinucleotideCount; i++ {
		names[i] = string([]byte{bases[i>>2], bases[i&3]})
	}
	for i := 0; i < TrinucleotideCount; i++ {
		names[DinucleotideCount+i] = string([]byte{bases[i>>4], bases[i>>2&3], bases[i&3]})
	}
	names[LowComplexity] = LowComplexityName
	return
}()

var motifIndex = func() map[string]Motif {
	var index = make(map[string]Motif, MotifCount)
	for i, name := range motifNames {
		index[name] = Motif(i)
	}
	return index
}()

// Motifs lists every category in output order
var Motifs = func() (motifs [MotifCount]Motif) {
	for i := range motifs {
		motifs[i] = Motif(i)
	}
	return
}()

func (m Motif) String() string {
	if int(m) >= MotifCount {
		return "Motif(?)"
	}
	return motifNames[m]
}

func (m Motif) Kind() Kind {
	switch {
	case m < DinucleotideCount:
		return KindDinucleotide
	case m < DinucleotideCount+TrinucleotideCount:
		return KindTrinucleotide
	default:
		return KindLowComplexity
	}
}

// ParseMotif accepts a dinucleotide, a trinucleotide (either case) or "LowComplexity".
func ParseMotif(name string) (Motif, bool) {
	switch len(name) {
	case 2:
		return Dinucleotide(name[0], name[1])
	case 3:
		return Trinucleotide(name[0], name[1], name[2])
	}
	var m, ok = motifIndex[name]
	return m, ok
}

// Dinucleotide returns the category of the pair a,b; false if either is not A/C/G/T.
func Dinucleotide(a, b byte) (Motif, bool) {
	var x, y = baseCode[a], baseCode[b]
	if x < 0 || y < 0 {
		return 0, false
	}
	return Motif(x<<2 | y), true
}

// Trinucleotide returns the category of the triple a,b,c; false if any is not A/C/G/T.
func Trinucleotide(a, b, c byte) (Motif, bool) {
	var x, y, z = baseCode[a], baseCode[b], baseCode[c]
	if x < 0 || y < 0 || z < 0 {
		return 0, false
	}
	return Motif(DinucleotideCount + (int(x)<<4 | int(y)<<2 | int(z))), true
}
