package kernel

// Kernel function pointers - set once at init, zero runtime overhead.
// Generic implementations are the default; optimized variants may
// override them in platform-specific init() functions.
var (
	kernelDot           = dotGeneric
	kernelSquaredL2     = squaredL2Generic
	kernelSquaredL2Batch = squaredL2BatchGeneric
	kernelSquaredNorms  = squaredNormsGeneric
	kernelCrossSquaredL2 = crossSquaredL2Generic
)

// Dot calculates the dot product of two vectors.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func Dot(a, b []float64) float64 {
	return kernelDot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func SquaredL2(a, b []float64) float64 {
	return kernelSquaredL2(a, b)
}

// SquaredL2Batch calculates squared L2 distances from query to a batch
// of vectors. targets is a flattened array of N vectors, each of
// dimension dim. out must have length N (len(targets) / dim).
func SquaredL2Batch(query []float64, targets []float64, dim int, out []float64) {
	kernelSquaredL2Batch(query, targets, dim, out)
}

// SquaredNorms computes the squared L2 norm of every row of x.
// x is a flattened array of N vectors of dimension dim; out must have
// length N.
func SquaredNorms(x []float64, dim int, out []float64) {
	kernelSquaredNorms(x, dim, out)
}

// CrossSquaredL2 computes the na x nb block of squared L2 distances
// between the rows of a and the rows of b using the expansion
// |u-v|^2 = |u|^2 - 2*u.v + |v|^2 with precomputed squared norms.
// Negative rounding artifacts are clamped to zero. out must have
// length na*nb and is filled row-major.
func CrossSquaredL2(a []float64, na int, b []float64, nb, dim int, normsA, normsB []float64, out []float64) {
	kernelCrossSquaredL2(a, na, b, nb, dim, normsA, normsB, out)
}

func dotGeneric(a, b []float64) float64 {
	var ret float64
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func squaredL2Generic(a, b []float64) float64 {
	var ret float64
	for i := range a {
		d := a[i] - b[i]
		ret += d * d
	}

	return ret
}

func squaredL2BatchGeneric(query []float64, targets []float64, dim int, out []float64) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		vec := targets[offset : offset+dim]
		out[i] = kernelSquaredL2(q, vec)
	}
}

func squaredNormsGeneric(x []float64, dim int, out []float64) {
	if dim <= 0 {
		return
	}

	n := len(x) / dim
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		row := x[i*dim : (i+1)*dim]
		out[i] = kernelDot(row, row)
	}
}

func crossSquaredL2Generic(a []float64, na int, b []float64, nb, dim int, normsA, normsB []float64, out []float64) {
	for i := 0; i < na; i++ {
		rowA := a[i*dim : (i+1)*dim]
		outRow := out[i*nb : (i+1)*nb]

		for j := 0; j < nb; j++ {
			rowB := b[j*dim : (j+1)*dim]
			d := normsA[i] - 2*kernelDot(rowA, rowB) + normsB[j]
			if d < 0 {
				d = 0
			}
			outRow[j] = d
		}
	}
}
