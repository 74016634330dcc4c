/*package snapio reads and writes nbfmm snapshot files.

A snapshot file contains a fixed-width header followed by one block per
particle field. Each block's payload is compressed with zstd:

   uint32 magic number
   uint32 version
   FixedWidthHeader
   uint32 field count
   [for each field]
      uint32 name length, name bytes
      uint32 type flag
      uint64 raw payload length, uint64 compressed payload length
      compressed payload

Files are written little-endian. Files written with the other byte order are
recognized by their magic number and read correctly.
*/
package snapio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"

	"github.com/DataDog/zstd"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/particles"
)

const (
	// MagicNumber is an arbitrary number at the start of all nbfmm snapshot
	// files which identifies them.
	MagicNumber = 0x6e62666d
	// ReverseMagicNumber is the magic number if read with flipped
	// endianness.
	ReverseMagicNumber = 0x6d66626e
	Version = 1

	maxNameLength = 1 << 10
	// MaxParticles is the largest particle count a snapshot can hold. The
	// widest block, N Vec2s, must fit in an int64 byte count.
	MaxParticles = math.MaxInt64 / 16
	// compressionLevel is the zstd level used for field payloads.
	compressionLevel = 1
)

// TypeFlag identifies the element type of a field block.
type TypeFlag uint32

const (
	Uint64Flag TypeFlag = iota + 1
	Float64Flag
	Vec2Flag
)

// elementSize returns the number of bytes taken by one element of the type.
func (flag TypeFlag) elementSize() int {
	switch flag {
	case Uint64Flag, Float64Flag: return 8
	case Vec2Flag: return 16
	}
	return 0
}

// Header is the information stored about a snapshot besides its fields.
type Header struct {
	// Time and Step are the simulation time and step number of the snapshot.
	Time float64
	Step int64
	// Limits is the domain of the Solver which produced the snapshot.
	Limits r2.Box
}

// FixedWidthHeader is the on-disk layout of a Header.
type FixedWidthHeader struct {
	// N is the number of particles in the file.
	N int64
	Header
}

// Write writes a snapshot containing hd and every field of p to w. All fields
// of p must have the same length.
func Write(w io.Writer, hd Header, p particles.Particles) error {
	return write(w, binary.LittleEndian, hd, p)
}

func write(
	w io.Writer, order binary.ByteOrder, hd Header, p particles.Particles,
) error {
	n, err := p.Len()
	if err != nil { return err }

	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, order, uint32(MagicNumber)); err != nil {
		return err
	}
	if err := binary.Write(bw, order, uint32(Version)); err != nil {
		return err
	}
	fixed := FixedWidthHeader{ int64(n), hd }
	if err := binary.Write(bw, order, &fixed); err != nil { return err }

	names := p.Names()
	if err := binary.Write(bw, order, uint32(len(names))); err != nil {
		return err
	}

	raw := &bytes.Buffer{ }
	for _, name := range names {
		raw.Reset()
		if err := writeBlock(bw, raw, order, p[name]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeBlock(
	w io.Writer, raw *bytes.Buffer, order binary.ByteOrder, f particles.Field,
) error {
	name := f.Name()
	if len(name) == 0 || len(name) > maxNameLength {
		return fmt.Errorf("Field name '%s' has length %d, but names must " +
			"have between 1 and %d characters.", name, len(name),
			maxNameLength)
	}

	var flag TypeFlag
	switch f.(type) {
	case *particles.Uint64: flag = Uint64Flag
	case *particles.Float64: flag = Float64Flag
	case *particles.Vec2: flag = Vec2Flag
	default:
		return fmt.Errorf("Field '%s' has type %T, which cannot be written " +
			"to a snapshot.", name, f)
	}

	if err := binary.Write(raw, order, f.Data()); err != nil { return err }
	var comp []byte
	if raw.Len() > 0 {
		var err error
		comp, err = zstd.CompressLevel(nil, raw.Bytes(), compressionLevel)
		if err != nil { return err }
	}

	if err := binary.Write(w, order, uint32(len(name))); err != nil {
		return err
	}
	if _, err := w.Write([]byte(name)); err != nil { return err }

	lengths := []uint64{ uint64(raw.Len()), uint64(len(comp)) }
	if err := binary.Write(w, order, uint32(flag)); err != nil { return err }
	if err := binary.Write(w, order, lengths); err != nil { return err }

	_, err := w.Write(comp)
	return err
}

// Read reads a snapshot from r.
func Read(r io.Reader) (Header, particles.Particles, error) {
	br := bufio.NewReader(r)

	order, err := checkMagic(br)
	if err != nil { return Header{ }, nil, err }

	fixed := FixedWidthHeader{ }
	if err := binary.Read(br, order, &fixed); err != nil {
		return Header{ }, nil, truncated(err)
	} else if fixed.N < 0 || fixed.N > MaxParticles {
		return Header{ }, nil, fmt.Errorf("Snapshot header claims %d " +
			"particles, but snapshots hold between 0 and %d.", fixed.N,
			int64(MaxParticles))
	}

	var nFields uint32
	if err := binary.Read(br, order, &nFields); err != nil {
		return Header{ }, nil, truncated(err)
	}

	p := particles.Particles{ }
	for i := 0; i < int(nFields); i++ {
		f, err := readBlock(br, order, int(fixed.N))
		if err != nil { return Header{ }, nil, err }
		if _, ok := p[f.Name()]; ok {
			return Header{ }, nil, fmt.Errorf("Snapshot contains the field " +
				"'%s' more than once.", f.Name())
		}
		p[f.Name()] = f
	}

	return fixed.Header, p, nil
}

func readBlock(
	r io.Reader, order binary.ByteOrder, n int,
) (particles.Field, error) {
	var nName uint32
	if err := binary.Read(r, order, &nName); err != nil {
		return nil, truncated(err)
	} else if nName == 0 || nName > maxNameLength {
		return nil, fmt.Errorf("Field name length is %d, but names must " +
			"have between 1 and %d characters.", nName, maxNameLength)
	}

	b := make([]byte, nName)
	if _, err := io.ReadFull(r, b); err != nil { return nil, truncated(err) }
	name := string(b)

	var flag TypeFlag
	lengths := make([]uint64, 2)
	if err := binary.Read(r, order, &flag); err != nil {
		return nil, truncated(err)
	}
	if err := binary.Read(r, order, lengths); err != nil {
		return nil, truncated(err)
	}

	size := flag.elementSize()
	if size == 0 {
		return nil, fmt.Errorf("Field '%s' has the unrecognized type flag " +
			"%d.", name, flag)
	}
	want, ok := blockBytes(size, n)
	if !ok {
		return nil, fmt.Errorf("Field '%s' would need more than 2^64 bytes " +
			"for %d particles.", name, n)
	} else if lengths[0] != want {
		return nil, fmt.Errorf("Field '%s' should hold %d bytes for %d " +
			"particles, but its block says it holds %d.", name, want, n,
			lengths[0])
	}

	if lengths[1] > math.MaxInt64 ||
		lengths[1] > lengths[0] + lengths[0]/64 + 1024 {
		return nil, fmt.Errorf("Field '%s' has a %d byte payload, which is " +
			"too large for %d bytes of data.", name, lengths[1], lengths[0])
	} else if lengths[0] == 0 && lengths[1] != 0 {
		return nil, fmt.Errorf("Field '%s' is empty, but has a %d byte " +
			"payload.", name, lengths[1])
	}

	// Read through a buffer so a corrupt length can't allocate more than
	// the file holds.
	compBuf := &bytes.Buffer{ }
	if _, err := io.CopyN(compBuf, r, int64(lengths[1])); err != nil {
		return nil, truncated(err)
	}
	comp := compBuf.Bytes()
	raw := []byte{ }
	if lengths[0] > 0 {
		var err error
		raw, err = decompress(comp, lengths[0])
		if err != nil {
			return nil, fmt.Errorf("Could not decompress field '%s': %s",
				name, err.Error())
		}
	}
	if uint64(len(raw)) != lengths[0] {
		return nil, fmt.Errorf("Field '%s' decompressed to %d bytes, but " +
			"should have %d.", name, len(raw), lengths[0])
	}

	rawBuf := bytes.NewReader(raw)
	switch flag {
	case Uint64Flag:
		x := make([]uint64, n)
		if err := binary.Read(rawBuf, order, x); err != nil { return nil, err }
		return particles.NewUint64(name, x), nil
	case Float64Flag:
		x := make([]float64, n)
		if err := binary.Read(rawBuf, order, x); err != nil { return nil, err }
		return particles.NewFloat64(name, x), nil
	default:
		x := make([]r2.Vec, n)
		if err := binary.Read(rawBuf, order, x); err != nil { return nil, err }
		return particles.NewVec2(name, x), nil
	}
}

// decompress decompresses at most n bytes from comp. Memory grows with the
// data actually decompressed rather than with n.
func decompress(comp []byte, n uint64) ([]byte, error) {
	zr := zstd.NewReader(bytes.NewReader(comp))
	defer zr.Close()

	raw := &bytes.Buffer{ }
	_, err := io.CopyN(raw, zr, int64(n))
	if err != nil && err != io.EOF { return nil, err }
	return raw.Bytes(), nil
}

// blockBytes returns the number of payload bytes in a block of n elements
// with the given size and false if that overflows a uint64.
func blockBytes(size, n int) (uint64, bool) {
	hi, lo := bits.Mul64(uint64(size), uint64(n))
	return lo, hi == 0
}

// checkMagic reads the magic number and version and returns the byte order
// of the file.
func checkMagic(r io.Reader) (binary.ByteOrder, error) {
	var magicNumber, version uint32

	order := binary.ByteOrder(binary.LittleEndian)
	if err := binary.Read(r, order, &magicNumber); err != nil {
		return nil, truncated(err)
	}

	switch magicNumber {
	case MagicNumber:
	case ReverseMagicNumber: order = binary.BigEndian
	default:
		return nil, fmt.Errorf("This is not an nbfmm snapshot. All " +
			"snapshots begin with either the 32-bit integer %x or %x, but " +
			"this file begins with %x.", MagicNumber, ReverseMagicNumber,
			magicNumber)
	}

	if err := binary.Read(r, order, &version); err != nil {
		return nil, truncated(err)
	} else if version > Version {
		return nil, fmt.Errorf("The snapshot was written by version %d of " +
			"the snapshot format, but this code only understands versions " +
			"up to %d.", version, Version)
	}

	return order, nil
}

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("Snapshot ends early: %w", io.ErrUnexpectedEOF)
	}
	return err
}

// WriteFile writes a snapshot to the named file.
func WriteFile(fname string, hd Header, p particles.Particles) error {
	f, err := os.Create(fname)
	if err != nil { return err }

	if err := Write(f, hd, p); err != nil {
		f.Close()
		return fmt.Errorf("Could not write %s: %w", fname, err)
	}
	return f.Close()
}

// ReadFile reads a snapshot from the named file.
func ReadFile(fname string) (Header, particles.Particles, error) {
	f, err := os.Open(fname)
	if err != nil { return Header{ }, nil, err }
	defer f.Close()

	hd, p, err := Read(f)
	if err != nil {
		return Header{ }, nil, fmt.Errorf("Could not read %s: %w", fname, err)
	}
	return hd, p, nil
}
