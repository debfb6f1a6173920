package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/filex"
	"google.golang.org/protobuf/encoding/protowire"
)

// Artifact field numbers. Float arrays are packed fixed32.
const (
	fieldVersion    protowire.Number = 1
	fieldHeight     protowire.Number = 2
	fieldWidth      protowire.Number = 3
	fieldChannels   protowire.Number = 4
	fieldFilters    protowire.Number = 5
	fieldKernel     protowire.Number = 6
	fieldConvKernel protowire.Number = 7
	fieldConvBias   protowire.Number = 8
	fieldDenseW     protowire.Number = 9
	fieldDenseBias  protowire.Number = 10
	fieldLabel      protowire.Number = 11
)

// Marshal encodes m in protobuf wire format.
func (m *Model) Marshal() []byte {
	var b []byte
	for _, f := range []struct {
		num protowire.Number
		v   int
	}{
		{fieldVersion, m.Version},
		{fieldHeight, m.Height},
		{fieldWidth, m.Width},
		{fieldChannels, m.Channels},
		{fieldFilters, m.Filters},
		{fieldKernel, m.Kernel},
	} {
		b = protowire.AppendTag(b, f.num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.v))
	}

	b = appendFloats(b, fieldConvKernel, m.ConvKernel)
	b = appendFloats(b, fieldConvBias, m.ConvBias)
	b = appendFloats(b, fieldDenseW, m.DenseW)
	b = appendFloats(b, fieldDenseBias, m.DenseBias)

	for _, l := range m.Labels {
		b = protowire.AppendTag(b, fieldLabel, protowire.BytesType)
		b = protowire.AppendString(b, l)
	}
	return b
}

func appendFloats(b []byte, num protowire.Number, vs []float32) []byte {
	packed := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// Unmarshal decodes an artifact produced by Marshal. Unknown fields are
// skipped; array lengths are not checked against the geometry.
func Unmarshal(b []byte) (*Model, error) {
	m := &Model{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case typ == protowire.VarintType && num >= fieldVersion && num <= fieldKernel:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			*m.intField(num) = int(v)

		case typ == protowire.BytesType && num >= fieldConvKernel && num <= fieldDenseBias:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			vs, err := decodeFloats(raw)
			if err != nil {
				return nil, err
			}
			*m.floatField(num) = vs

		case typ == protowire.BytesType && num == fieldLabel:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			m.Labels = append(m.Labels, s)

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return m, nil
}

func (m *Model) intField(num protowire.Number) *int {
	switch num {
	case fieldVersion:
		return &m.Version
	case fieldHeight:
		return &m.Height
	case fieldWidth:
		return &m.Width
	case fieldChannels:
		return &m.Channels
	case fieldFilters:
		return &m.Filters
	default:
		return &m.Kernel
	}
}

func (m *Model) floatField(num protowire.Number) *[]float32 {
	switch num {
	case fieldConvKernel:
		return &m.ConvKernel
	case fieldConvBias:
		return &m.ConvBias
	case fieldDenseW:
		return &m.DenseW
	default:
		return &m.DenseBias
	}
}

func decodeFloats(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, errors.New("packed float field has trailing bytes")
	}
	vs := make([]float32, 0, len(raw)/4)
	for len(raw) > 0 {
		v, n := protowire.ConsumeFixed32(raw)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		raw = raw[n:]
		vs = append(vs, math.Float32frombits(v))
	}
	return vs, nil
}

// Save writes m to path atomically: a temp file in the same directory is
// renamed over the target.
func (m *Model) Save(path string) (err error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(m.Marshal()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads an artifact. Decoding failures are reported as
// common.ErrorInference.
func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: decode model %s: %v", common.ErrorInference, path, err)
	}
	return m, nil
}

// Option configures LoadOrCreate.
type Option func(*loadOptions)

type loadOptions struct {
	seed uint64
}

// WithSeed fixes the weight seed of a newly created model.
func WithSeed(seed uint64) Option {
	return func(o *loadOptions) { o.seed = seed }
}

// LoadOrCreate loads the artifact at path, or builds a random model and
// persists it there when the file does not exist. The second result reports
// whether a new model was created.
func LoadOrCreate(path string, opts ...Option) (*Model, bool, error) {
	o := loadOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	m, err := Load(path)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	m = NewRandom(o.seed)
	if err := m.Save(path); err != nil {
		return nil, false, fmt.Errorf("save model %s: %w", path, err)
	}
	return m, true, nil
}
