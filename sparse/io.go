// Package sparse - binary persistence.
//
// Format (little endian):
//
//	magic    [4]byte  "LVSP"
//	version  uint32   1
//	rows     uint32
//	cols     uint32
//	encoding uint8    EncodingFloat64 | EncodingFloat16
//	patLen   uint32   length of the pattern bitmap
//	pattern  []byte   roaring bitmap of linear positions i*cols+j
//	nnz      uint32   must equal the bitmap cardinality
//	values   nnz × 8 bytes (float64) or nnz × 2 bytes (float16 bits)
//
// The reader never trusts a length field for an allocation: payload bytes are
// copied as they arrive, so a lying header fails with ErrCorrupt after at most
// the bytes actually present. The only header-sized allocation is the row
// index, bounded by MaxDim.
package sparse

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/RoaringBitmap/roaring"
	"github.com/x448/float16"
)

// Encoding selects the on-disk width of stored values.
type Encoding uint8

const (
	// EncodingFloat64 stores values losslessly.
	EncodingFloat64 Encoding = 1

	// EncodingFloat16 stores IEEE half precision (about 3 significant
	// digits); NaN and ±Inf survive, large magnitudes overflow to ±Inf.
	EncodingFloat16 Encoding = 2
)

const formatVersion = 1

var magic = [4]byte{'L', 'V', 'S', 'P'}

func (e Encoding) width() int {
	switch e {
	case EncodingFloat64:
		return 8
	case EncodingFloat16:
		return 2
	}

	return 0
}

// WriteTo serializes a with float64 values. It implements io.WriterTo.
func (a *CSR) WriteTo(w io.Writer) (int64, error) {
	return a.Encode(w, EncodingFloat64)
}

// Encode serializes a with the chosen value encoding.
//
// Errors:
//   - ErrBadEncoding, or the writer's error wrapped with the failing section.
func (a *CSR) Encode(w io.Writer, enc Encoding) (int64, error) {
	if enc.width() == 0 {
		return 0, fmt.Errorf("Encode: %w: %d", ErrBadEncoding, enc)
	}

	pattern := roaring.New()
	for i := 0; i < a.rows; i++ {
		for p := a.indptr[i]; p < a.indptr[i+1]; p++ {
			pattern.Add(uint32(i*a.cols + a.indices[p]))
		}
	}
	pattern.RunOptimize()
	patBytes, err := pattern.ToBytes()
	if err != nil {
		return 0, fmt.Errorf("Encode: failed to serialize pattern: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	le := binary.LittleEndian
	buf.Write(le.AppendUint32(nil, formatVersion))
	buf.Write(le.AppendUint32(nil, uint32(a.rows)))
	buf.Write(le.AppendUint32(nil, uint32(a.cols)))
	buf.WriteByte(byte(enc))
	buf.Write(le.AppendUint32(nil, uint32(len(patBytes))))
	buf.Write(patBytes)
	buf.Write(le.AppendUint32(nil, uint32(len(a.data))))
	for _, v := range a.data {
		if enc == EncodingFloat16 {
			buf.Write(le.AppendUint16(nil, float16.Fromfloat32(float32(v)).Bits()))
		} else {
			buf.Write(le.AppendUint64(nil, math.Float64bits(v)))
		}
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("Encode: failed to write: %w", err)
	}

	return int64(n), nil
}

// ReadFrom replaces a with the matrix decoded from r. It implements
// io.ReaderFrom. On error a is left unchanged.
//
// Errors:
//   - ErrCorrupt for a bad magic, unsupported version, truncated data, a
//     pattern that does not decode or addresses positions outside the shape,
//     or a value count that disagrees with the pattern.
//   - ErrBadEncoding for an unknown value encoding.
//   - ErrInvalidDimensions or ErrTooLarge, both also matching ErrCorrupt, for
//     a shape outside [1, MaxDim] per dimension.
func (a *CSR) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	out, err := decode(cr)
	if err != nil {
		return cr.n, fmt.Errorf("ReadFrom: %w", err)
	}
	*a = *out

	return cr.n, nil
}

// Decode reads one matrix from r.
func Decode(r io.Reader) (*CSR, error) {
	a := new(CSR)
	if _, err := a.ReadFrom(r); err != nil {
		return nil, err
	}

	return a, nil
}

func decode(r io.Reader) (*CSR, error) {
	var hdr [4 + 4 + 4 + 4 + 1 + 4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if !bytes.Equal(hdr[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[:4])
	}
	le := binary.LittleEndian
	if v := le.Uint32(hdr[4:8]); v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	rows, cols := int(le.Uint32(hdr[8:12])), int(le.Uint32(hdr[12:16]))
	if err := checkShape(rows, cols); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	enc := Encoding(hdr[16])
	if enc.width() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadEncoding, enc)
	}
	patLen := int64(le.Uint32(hdr[17:21]))

	patBytes, err := readExactly(r, patLen)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern: %v", ErrCorrupt, err)
	}
	pattern, err := unmarshalPattern(patBytes)
	if err != nil {
		return nil, err
	}
	size := uint64(rows) * uint64(cols)
	if !pattern.IsEmpty() && uint64(pattern.Maximum()) >= size {
		return nil, fmt.Errorf("%w: position %d outside %dx%d", ErrCorrupt, pattern.Maximum(), rows, cols)
	}

	var cnt [4]byte
	if _, err = io.ReadFull(r, cnt[:]); err != nil {
		return nil, fmt.Errorf("%w: value count: %v", ErrCorrupt, err)
	}
	nnz := uint64(le.Uint32(cnt[:]))
	if nnz != pattern.GetCardinality() {
		return nil, fmt.Errorf("%w: %d values for %d positions", ErrCorrupt, nnz, pattern.GetCardinality())
	}
	raw, err := readExactly(r, int64(nnz)*int64(enc.width()))
	if err != nil {
		return nil, fmt.Errorf("%w: values: %v", ErrCorrupt, err)
	}

	a := &CSR{
		rows:    rows,
		cols:    cols,
		indptr:  make([]int, rows+1),
		indices: make([]int, 0, nnz),
		data:    make([]float64, 0, nnz),
	}
	it := pattern.Iterator()
	for p := 0; it.HasNext(); p++ {
		pos := int(it.Next())
		i := pos / cols
		a.indices = append(a.indices, pos%cols)
		a.indptr[i+1]++
		if enc == EncodingFloat16 {
			a.data = append(a.data, float64(float16.Frombits(le.Uint16(raw[2*p:])).Float32()))
		} else {
			a.data = append(a.data, math.Float64frombits(le.Uint64(raw[8*p:])))
		}
	}
	for i := 0; i < rows; i++ {
		a.indptr[i+1] += a.indptr[i]
	}

	return a, nil
}

// unmarshalPattern decodes a roaring bitmap, turning any decoder failure,
// panics included, into ErrCorrupt.
func unmarshalPattern(b []byte) (bm *roaring.Bitmap, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			bm, err = nil, fmt.Errorf("%w: pattern: %v", ErrCorrupt, rec)
		}
	}()
	bm = roaring.New()
	if err = bm.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%w: pattern: %v", ErrCorrupt, err)
	}

	return bm, nil
}

// readExactly copies n bytes as they arrive instead of allocating n up front.
func readExactly(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, n)
	if err != nil {
		return nil, fmt.Errorf("read %d of %d bytes: %w", got, n, err)
	}

	return buf.Bytes(), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}

// Save writes a to path with the chosen encoding, replacing any existing file.
func (a *CSR) Save(path string, enc Encoding) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	bw := bufio.NewWriter(f)
	if _, err = a.Encode(bw, enc); err != nil {
		_ = f.Close()
		return fmt.Errorf("Save: %w", err)
	}
	if err = bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("Save: %w", err)
	}

	return f.Close()
}

// Load reads a matrix written by Save.
func Load(path string) (*CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	defer f.Close()

	a, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	return a, nil
}
