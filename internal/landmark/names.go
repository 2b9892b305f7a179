package landmark

// Names holds the anatomical name for each landmark slot, in slot order.
// Index 0 corresponds to slot 1.
var Names = [NumLandmarks]string{
	"S (Sella)",
	"N (Nasion)",
	"Or (Orbitale)",
	"Po (Porion)",
	"A (Subspinale)",
	"B (Supramentale)",
	"Pog (Pogonion)",
	"Gn (Gnathion)",
	"Me (Menton)",
	"Go (Gonion)",
	"ANS",
	"PNS",
	"U1 (Upper Incisor)",
	"U1R (Upper Incisor Root)",
	"L1 (Lower Incisor)",
	"L1R (Lower Incisor Root)",
	"U6 (Upper Molar)",
	"L6 (Lower Molar)",
	"Ar (Articulare)",
}

// Name returns the anatomical name for slot index (1-based), or a generic
// label if the index is out of range.
func Name(index int) string {
	if index < 1 || index > NumLandmarks {
		return "unknown"
	}
	return Names[index-1]
}
