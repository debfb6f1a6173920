// Package classifier holds the placeholder severity model: one 3x3
// convolution with ReLU, 2x2 max pooling, and a dense softmax layer over the
// four severity classes. Weights are random until a trained artifact
// replaces model/model.pb, so predictions carry no clinical meaning.
package classifier

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/imaging"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

const (
	formatVersion  = 1
	defaultFilters = 16
	defaultKernel  = 3
)

// Model is the full set of weights. Tensors are flat and row-major:
//
//	ConvKernel [Kernel][Kernel][Channels][Filters]
//	DenseW     [(Height/2)*(Width/2)*Filters][len(Labels)]
type Model struct {
	Version    int
	Height     int
	Width      int
	Channels   int
	Filters    int
	Kernel     int
	ConvKernel []float32
	ConvBias   []float32
	DenseW     []float32
	DenseBias  []float32
	Labels     []string
}

// NewRandom builds an untrained model with Glorot-uniform weights and zero
// biases. A zero seed draws one at random.
func NewRandom(seed uint64) *Model {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	labels := make([]string, len(models.SeverityClasses))
	for i, c := range models.SeverityClasses {
		labels[i] = string(c)
	}

	m := &Model{
		Version:  formatVersion,
		Height:   imaging.Height,
		Width:    imaging.Width,
		Channels: imaging.Channels,
		Filters:  defaultFilters,
		Kernel:   defaultKernel,
		Labels:   labels,
	}

	k, c, f := m.Kernel, m.Channels, m.Filters
	m.ConvKernel = glorot(rng, k*k*c*f, k*k*c, k*k*f)
	m.ConvBias = make([]float32, f)

	in := m.flatSize()
	m.DenseW = glorot(rng, in*len(labels), in, len(labels))
	m.DenseBias = make([]float32, len(labels))
	return m
}

func glorot(rng *rand.Rand, n, fanIn, fanOut int) []float32 {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	w := make([]float32, n)
	for i := range w {
		w[i] = float32((rng.Float64()*2 - 1) * limit)
	}
	return w
}

func (m *Model) flatSize() int {
	return (m.Height / 2) * (m.Width / 2) * m.Filters
}

// Predict returns one probability per label. Cancellation of ctx is checked
// between convolution rows. Shape mismatches and weight arrays that do not
// fit the declared geometry yield common.ErrorInference.
func (m *Model) Predict(ctx context.Context, t *imaging.Tensor) (probs []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			probs, err = nil, fmt.Errorf("%w: %v", common.ErrorInference, r)
		}
	}()

	if t == nil || t.Shape != [4]int{1, m.Height, m.Width, m.Channels} {
		return nil, fmt.Errorf("%w: input shape does not match model", common.ErrorInference)
	}
	if err := m.checkGeometry(); err != nil {
		return nil, err
	}

	conv, err := m.conv(ctx, t.Data)
	if err != nil {
		return nil, err
	}
	pooled := m.maxPool(conv)
	return m.dense(pooled), nil
}

// checkGeometry verifies that every weight array has the length implied by
// the declared dimensions.
func (m *Model) checkGeometry() error {
	k, c, f, n := m.Kernel, m.Channels, m.Filters, len(m.Labels)
	if m.Height < 2 || m.Width < 2 || k < 1 || c < 1 || f < 1 || n < 1 {
		return fmt.Errorf("%w: invalid model geometry", common.ErrorInference)
	}
	switch {
	case len(m.ConvKernel) != k*k*c*f:
		return fmt.Errorf("%w: conv kernel has %d weights, want %d", common.ErrorInference, len(m.ConvKernel), k*k*c*f)
	case len(m.ConvBias) != f:
		return fmt.Errorf("%w: conv bias has %d weights, want %d", common.ErrorInference, len(m.ConvBias), f)
	case len(m.DenseW) != m.flatSize()*n:
		return fmt.Errorf("%w: dense layer has %d weights, want %d", common.ErrorInference, len(m.DenseW), m.flatSize()*n)
	case len(m.DenseBias) != n:
		return fmt.Errorf("%w: dense bias has %d weights, want %d", common.ErrorInference, len(m.DenseBias), n)
	}
	return nil
}

// conv applies the same-padded convolution followed by ReLU.
func (m *Model) conv(ctx context.Context, in []float32) ([]float32, error) {
	h, w, c, f, k := m.Height, m.Width, m.Channels, m.Filters, m.Kernel
	pad := k / 2
	out := make([]float32, h*w*f)
	acc := make([]float32, f)

	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorInference, err)
		}
		for x := 0; x < w; x++ {
			copy(acc, m.ConvBias[:f])
			for ky := 0; ky < k; ky++ {
				iy := y + ky - pad
				if iy < 0 || iy >= h {
					continue
				}
				for kx := 0; kx < k; kx++ {
					ix := x + kx - pad
					if ix < 0 || ix >= w {
						continue
					}
					px := in[(iy*w+ix)*c : (iy*w+ix)*c+c]
					kbase := (ky*k + kx) * c * f
					for ci, v := range px {
						row := m.ConvKernel[kbase+ci*f : kbase+ci*f+f]
						for fi, wt := range row {
							acc[fi] += v * wt
						}
					}
				}
			}
			o := out[(y*w+x)*f : (y*w+x)*f+f]
			for fi, v := range acc {
				if v > 0 {
					o[fi] = v
				}
			}
		}
	}
	return out, nil
}

func (m *Model) maxPool(in []float32) []float32 {
	w, f := m.Width, m.Filters
	ph, pw := m.Height/2, m.Width/2
	out := make([]float32, ph*pw*f)

	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			o := out[(y*pw+x)*f : (y*pw+x)*f+f]
			for fi := range o {
				best := float32(math.Inf(-1))
				for dy := 0; dy < 2; dy++ {
					for dx := 0; dx < 2; dx++ {
						v := in[((2*y+dy)*w+2*x+dx)*f+fi]
						if v > best {
							best = v
						}
					}
				}
				o[fi] = best
			}
		}
	}
	return out
}

func (m *Model) dense(in []float32) []float32 {
	n := len(m.Labels)
	logits := make([]float64, n)
	for j := range logits {
		logits[j] = float64(m.DenseBias[j])
	}
	for i, v := range in {
		if v == 0 {
			continue
		}
		row := m.DenseW[i*n : i*n+n]
		for j, wt := range row {
			logits[j] += float64(v) * float64(wt)
		}
	}
	return softmax(logits)
}

func softmax(logits []float64) []float32 {
	maxL := math.Inf(-1)
	for _, l := range logits {
		maxL = math.Max(maxL, l)
	}
	var sum float64
	exps := make([]float64, len(logits))
	for i, l := range logits {
		exps[i] = math.Exp(l - maxL)
		sum += exps[i]
	}
	out := make([]float32, len(logits))
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}

// Argmax returns the index of the largest probability. Ties go to the
// lowest index; an empty slice gives -1.
func Argmax(probs []float32) int {
	best := -1
	for i, p := range probs {
		if best < 0 || p > probs[best] {
			best = i
		}
	}
	return best
}
