package geotiff

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cockroachdb/errors"
)

// TIFF tags read for georeferencing.
const (
	tagImageWidth         = 256
	tagImageLength        = 257
	tagTileWidth          = 322
	tagTileLength         = 323
	tagModelPixelScale    = 33550
	tagModelTiepoint      = 33922
	tagGeoKeyDirectory    = 34735
	tagGeoDoubleParams    = 34736
	tagGeoAsciiParams     = 34737
	classicMagic          = 42
	bigTIFFMagic          = 43
	maxEntriesPerIFD      = 4096
	maxExternalValueBytes = 1 << 24
)

// TIFF data types.
const (
	dtByte   = 1
	dtASCII  = 2
	dtShort  = 3
	dtLong   = 4
	dtSByte  = 6
	dtUndef  = 7
	dtSShort = 8
	dtSLong  = 9
	dtFloat  = 11
	dtDouble = 12
	dtLong8  = 16
	dtSLong8 = 17
	dtIFD8   = 18
)

// directory holds the georeferencing tags of the first image directory.
type directory struct {
	width, height uint32
	tileW, tileH  uint32
	pixelScale    []float64
	tiepoint      []float64
	geoKeys       []uint16
	geoDoubles    []float64
	geoASCII      string
	overviews     int
}

type entry struct {
	tag, dataType uint16
	count         uint64
	value         []byte
}

// readDirectory parses the TIFF or BigTIFF header and the first IFD, and
// counts the IFDs after it.
func readDirectory(r io.ReadSeeker) (*directory, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(err, "reading TIFF header")
	}
	var bo binary.ByteOrder
	switch string(header[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return nil, errors.Newf("invalid TIFF byte order %x", header[:2])
	}

	var offset uint64
	big := false
	switch bo.Uint16(header[2:4]) {
	case classicMagic:
		offset = uint64(bo.Uint32(header[4:8]))
	case bigTIFFMagic:
		big = true
		var next [8]byte
		if _, err := io.ReadFull(r, next[:]); err != nil {
			return nil, errors.Wrap(err, "reading BigTIFF header")
		}
		offset = bo.Uint64(next[:])
	default:
		return nil, errors.Newf("invalid TIFF magic %d", bo.Uint16(header[2:4]))
	}
	if offset == 0 {
		return nil, errors.New("no image directory")
	}

	entries, next, err := readIFD(r, bo, offset, big)
	if err != nil {
		return nil, errors.Wrapf(err, "IFD at offset %d", offset)
	}
	d := &directory{}
	for i := range entries {
		if err := resolve(r, bo, &entries[i], big); err != nil {
			return nil, errors.Wrapf(err, "tag %d", entries[i].tag)
		}
		d.set(entries[i], bo)
	}

	seen := map[uint64]bool{offset: true}
	for next != 0 && !seen[next] {
		seen[next] = true
		d.overviews++
		if _, next, err = readIFD(r, bo, next, big); err != nil {
			return nil, errors.Wrapf(err, "overview IFD %d", d.overviews)
		}
	}
	return d, nil
}

func readIFD(r io.ReadSeeker, bo binary.ByteOrder, offset uint64, big bool) ([]entry, uint64, error) {
	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, 0, err
	}
	countSize, entrySize, offsetSize := 2, 12, 4
	if big {
		countSize, entrySize, offsetSize = 8, 20, 8
	}

	buf := make([]byte, countSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, 0, err
	}
	n := uint64(bo.Uint16(buf[:2]))
	if big {
		n = bo.Uint64(buf)
	}
	if n > maxEntriesPerIFD {
		return nil, 0, errors.Newf("%d entries", n)
	}

	raw := make([]byte, int(n)*entrySize+offsetSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, 0, err
	}
	entries := make([]entry, n)
	for i := range entries {
		b := raw[i*entrySize : (i+1)*entrySize]
		e := entry{tag: bo.Uint16(b[0:2]), dataType: bo.Uint16(b[2:4])}
		if big {
			e.count = bo.Uint64(b[4:12])
			e.value = append([]byte(nil), b[12:20]...)
		} else {
			e.count = uint64(bo.Uint32(b[4:8]))
			e.value = append([]byte(nil), b[8:12]...)
		}
		entries[i] = e
	}
	tail := raw[int(n)*entrySize:]
	next := uint64(bo.Uint32(tail[:4]))
	if big {
		next = bo.Uint64(tail)
	}
	return entries, next, nil
}

// resolve replaces the inline offset with the referenced bytes for values
// that do not fit the entry.
func resolve(r io.ReadSeeker, bo binary.ByteOrder, e *entry, big bool) error {
	size := e.count * uint64(typeSize(e.dataType))
	if size <= uint64(len(e.value)) {
		return nil
	}
	if size > maxExternalValueBytes {
		return errors.Newf("value of %d bytes", size)
	}
	at := uint64(bo.Uint32(e.value))
	if big {
		at = bo.Uint64(e.value)
	}
	if _, err := r.Seek(int64(at), io.SeekStart); err != nil {
		return err
	}
	e.value = make([]byte, size)
	_, err := io.ReadFull(r, e.value)
	return err
}

func typeSize(dt uint16) int {
	switch dt {
	case dtShort, dtSShort:
		return 2
	case dtLong, dtSLong, dtFloat:
		return 4
	case dtDouble, dtLong8, dtSLong8, dtIFD8:
		return 8
	default:
		return 1
	}
}

func (d *directory) set(e entry, bo binary.ByteOrder) {
	switch e.tag {
	case tagImageWidth:
		d.width = uint32Value(e, bo)
	case tagImageLength:
		d.height = uint32Value(e, bo)
	case tagTileWidth:
		d.tileW = uint32Value(e, bo)
	case tagTileLength:
		d.tileH = uint32Value(e, bo)
	case tagModelPixelScale:
		d.pixelScale = floats(e, bo)
	case tagModelTiepoint:
		d.tiepoint = floats(e, bo)
	case tagGeoKeyDirectory:
		d.geoKeys = shorts(e, bo)
	case tagGeoDoubleParams:
		d.geoDoubles = floats(e, bo)
	case tagGeoAsciiParams:
		d.geoASCII = string(e.value[:min(e.count, uint64(len(e.value)))])
	}
}

func uint32Value(e entry, bo binary.ByteOrder) uint32 {
	switch e.dataType {
	case dtShort:
		return uint32(bo.Uint16(e.value))
	case dtLong:
		return bo.Uint32(e.value)
	case dtLong8:
		return uint32(bo.Uint64(e.value))
	default:
		return uint32(e.value[0])
	}
}

func shorts(e entry, bo binary.ByteOrder) []uint16 {
	if e.dataType != dtShort {
		return nil
	}
	out := make([]uint16, e.count)
	for i := range out {
		out[i] = bo.Uint16(e.value[i*2:])
	}
	return out
}

func floats(e entry, bo binary.ByteOrder) []float64 {
	out := make([]float64, e.count)
	for i := range out {
		switch e.dataType {
		case dtDouble:
			out[i] = math.Float64frombits(bo.Uint64(e.value[i*8:]))
		case dtFloat:
			out[i] = float64(math.Float32frombits(bo.Uint32(e.value[i*4:])))
		default:
			return nil
		}
	}
	return out
}
