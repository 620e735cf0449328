// Package tilecoder implements tile coding of vectors
package tilecoder

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/rlfisheries/onefish/utils/floatutils"
)

// Controls tiling offsets. For each dimension, tilings are offset by
// randomly sampling from a uniform distribution with support
// [- tile width/OffsetDiv, tile width/OffsetDiv]
const OffsetDiv float64 = 1.5

// TileCoder tile codes bounded vectors. Tile coding changes a
// low-dimensional vector into a large, sparse binary vector with one
// active feature per tiling:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// Every tiling covers the whole bounded space densely, and each tiling
// is shifted by its own random offset. Values outside the bounds fall
// into the outermost tile of each tiling. An optional bias unit is
// always active and is stored as the first feature.
//
// A TileCoder is immutable after construction and is safe for
// concurrent use.
type TileCoder struct {
	minDims    []float64
	tiles      [][]int
	tileWidths [][]float64
	offsets    [][]float64
	starts     []int // index of the first feature of each tiling
	length     int
	bias       bool
}

// New creates and returns a new TileCoder. The minDims and maxDims
// arguments bound each dimension of the vectors to be tile coded.
//
// The length of the tiles argument is the number of tilings to use,
// and tiles[j][i] is the number of tiles along dimension i of tiling j.
// For example, tiles := [][]int{{2, 2}, {4, 3}} uses one 2x2 tiling and
// one 4x3 tiling. If includeBias is true, a bias unit is prepended to
// every encoding.
func New(minDims, maxDims mat.Vector, tiles [][]int, seed uint64,
	includeBias bool) *TileCoder {
	dims := minDims.Len()
	if dims != maxDims.Len() {
		panic(fmt.Sprintf("new: minimum and maximum dimensions differ: "+
			"%d != %d", dims, maxDims.Len()))
	}
	if len(tiles) == 0 {
		panic("new: at least one tiling is required")
	}

	src := rand.NewSource(seed)
	t := &TileCoder{
		minDims:    mat.Col(nil, 0, minDims),
		tiles:      make([][]int, len(tiles)),
		tileWidths: make([][]float64, len(tiles)),
		offsets:    make([][]float64, len(tiles)),
		starts:     make([]int, len(tiles)),
		bias:       includeBias,
	}
	if includeBias {
		t.length = 1
	}

	for j, tiling := range tiles {
		if len(tiling) != dims {
			panic(fmt.Sprintf("new: tiling %d should have %d dimensions, "+
				"have %d", j, dims, len(tiling)))
		}

		widths := make([]float64, dims)
		bounds := make([]r1.Interval, dims)
		for i, n := range tiling {
			if n < 1 {
				panic(fmt.Sprintf("new: tiling %d needs at least one tile "+
					"along dimension %d", j, i))
			}
			widths[i] = (maxDims.AtVec(i) - minDims.AtVec(i)) / float64(n)
			bound := widths[i] / OffsetDiv
			bounds[i] = r1.Interval{Min: -bound, Max: bound}
		}

		// Sample the offset of the tiling
		sampler := samplemv.IID{Dist: distmv.NewUniform(bounds, src)}
		offset := mat.NewDense(1, dims, nil)
		sampler.Sample(offset)

		t.tiles[j] = append([]int(nil), tiling...)
		t.tileWidths[j] = widths
		t.offsets[j] = offset.RawRowView(0)
		t.starts[j] = t.length
		t.length += prod(tiling)
	}

	return t
}

// index returns the index of the active feature of tiling j when v is
// tile coded
func (t *TileCoder) index(v mat.Vector, j int) int {
	index := 0
	for i, n := range t.tiles[j] {
		data := v.AtVec(i) + t.offsets[j][i] - t.minDims[i]
		tile := math.Floor(data / t.tileWidths[j][i])
		tile = floatutils.Clip(tile, 0, float64(n-1))

		index = index*n + int(tile)
	}
	return t.starts[j] + index
}

// Indices returns the indices of the non-zero features of the tile
// coded representation of v. If a bias unit is used, its index 0 is
// the first element.
func (t *TileCoder) Indices(v mat.Vector) []int {
	if v.Len() != len(t.minDims) {
		panic(fmt.Sprintf("indices: vector should have %d dimensions, "+
			"have %d", len(t.minDims), v.Len()))
	}

	indices := make([]int, 0, len(t.tiles)+1)
	if t.bias {
		indices = append(indices, 0)
	}
	for j := range t.tiles {
		indices = append(indices, t.index(v, j))
	}
	return indices
}

// Encode returns the tile coded representation of v
func (t *TileCoder) Encode(v mat.Vector) *mat.VecDense {
	tileCoded := mat.NewVecDense(t.length, nil)
	for _, i := range t.Indices(v) {
		tileCoded.SetVec(i, 1.0)
	}
	return tileCoded
}

// EncodeBatch tile codes each column of b, returning a matrix with one
// tile coded column per column of b
func (t *TileCoder) EncodeBatch(b mat.Matrix) *mat.Dense {
	_, cols := b.Dims()
	tileCoded := mat.NewDense(t.length, cols, nil)

	for c := 0; c < cols; c++ {
		col := mat.NewVecDense(len(t.minDims), mat.Col(nil, c, b))
		for _, i := range t.Indices(col) {
			tileCoded.Set(i, c, 1.0)
		}
	}
	return tileCoded
}

// VecLength returns the number of features in a tile coded vector
func (t *TileCoder) VecLength() int {
	return t.length
}

// NumTilings returns the number of tilings used
func (t *TileCoder) NumTilings() int {
	return len(t.tiles)
}

func (t *TileCoder) String() string {
	return fmt.Sprintf("Tilings %d  |  Tiles: %v  |  Bias: %v",
		len(t.tiles), t.tiles, t.bias)
}

// prod calculates the product of all integers in a []int
func prod(i []int) int {
	prod := 1
	for _, v := range i {
		prod *= v
	}
	return prod
}
