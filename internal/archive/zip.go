// Package archive serializes named byte buffers into a ZIP-compatible
// container (raw-deflate entries, no encryption, single disk). The layout
// is written by hand so the output is byte-deterministic for identical
// inputs: central-directory offsets are threaded through an explicit fold
// over the entry list, which is why entries must be written in list order.
package archive

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strings"
	"time"
)

const (
	localHeaderSignature   = 0x04034b50
	centralHeaderSignature = 0x02014b50
	endOfCentralSignature  = 0x06054b50

	zipVersion    = 20
	methodDeflate = 8

	localHeaderLen   = 30
	centralHeaderLen = 46
	endRecordLen     = 22
)

// Entry is one file to package.
type Entry struct {
	Name     string
	Body     []byte
	Modified time.Time
}

// centralRecord carries the per-entry metadata mirrored into the central
// directory, including the entry's byte offset within the archive.
type centralRecord struct {
	name             string
	crc              uint32
	compressedSize   uint32
	uncompressedSize uint32
	modTime          uint16
	modDate          uint16
	offset           uint32
}

// Write packages entries, in order, into w.
func Write(w io.Writer, entries []Entry) error {
	var offset uint32
	records := make([]centralRecord, 0, len(entries))

	for _, e := range entries {
		rec, written, err := writeEntry(w, offset, e)
		if err != nil {
			return fmt.Errorf("archive entry %q: %w", e.Name, err)
		}
		records = append(records, rec)
		offset += written
	}

	centralSize, err := writeCentralDirectory(w, records)
	if err != nil {
		return err
	}
	return writeEndRecord(w, len(records), centralSize, offset)
}

// WriteFile packages entries into a file at path.
func WriteFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeEntry emits one local-header+name+data block at the given offset and
// returns the central-directory record plus the number of bytes written.
func writeEntry(w io.Writer, offset uint32, e Entry) (centralRecord, uint32, error) {
	name := strings.ReplaceAll(e.Name, "\\", "/")
	compressed, err := deflate(e.Body)
	if err != nil {
		return centralRecord{}, 0, err
	}

	modDate, modTime := dosDateTime(e.Modified)
	rec := centralRecord{
		name:             name,
		crc:              crc32.ChecksumIEEE(e.Body),
		compressedSize:   uint32(len(compressed)),
		uncompressedSize: uint32(len(e.Body)),
		modTime:          modTime,
		modDate:          modDate,
		offset:           offset,
	}

	header := make([]byte, 0, localHeaderLen)
	header = appendUint32(header, localHeaderSignature)
	header = appendUint16(header, zipVersion) // version needed to extract
	header = appendUint16(header, 0)          // general purpose flags
	header = appendUint16(header, methodDeflate)
	header = appendUint16(header, rec.modTime)
	header = appendUint16(header, rec.modDate)
	header = appendUint32(header, rec.crc)
	header = appendUint32(header, rec.compressedSize)
	header = appendUint32(header, rec.uncompressedSize)
	header = appendUint16(header, uint16(len(name)))
	header = appendUint16(header, 0) // extra field length

	for _, chunk := range [][]byte{header, []byte(name), compressed} {
		if _, err := w.Write(chunk); err != nil {
			return centralRecord{}, 0, err
		}
	}
	return rec, uint32(localHeaderLen + len(name) + len(compressed)), nil
}

func writeCentralDirectory(w io.Writer, records []centralRecord) (uint32, error) {
	var size uint32
	for _, rec := range records {
		header := make([]byte, 0, centralHeaderLen)
		header = appendUint32(header, centralHeaderSignature)
		header = appendUint16(header, zipVersion) // version made by
		header = appendUint16(header, zipVersion) // version needed to extract
		header = appendUint16(header, 0)          // general purpose flags
		header = appendUint16(header, methodDeflate)
		header = appendUint16(header, rec.modTime)
		header = appendUint16(header, rec.modDate)
		header = appendUint32(header, rec.crc)
		header = appendUint32(header, rec.compressedSize)
		header = appendUint32(header, rec.uncompressedSize)
		header = appendUint16(header, uint16(len(rec.name)))
		header = appendUint16(header, 0) // extra field length
		header = appendUint16(header, 0) // comment length
		header = appendUint16(header, 0) // disk number start
		header = appendUint16(header, 0) // internal attributes
		header = appendUint32(header, 0) // external attributes
		header = appendUint32(header, rec.offset)

		if _, err := w.Write(header); err != nil {
			return 0, err
		}
		if _, err := w.Write([]byte(rec.name)); err != nil {
			return 0, err
		}
		size += uint32(centralHeaderLen + len(rec.name))
	}
	return size, nil
}

func writeEndRecord(w io.Writer, count int, centralSize, centralOffset uint32) error {
	record := make([]byte, 0, endRecordLen)
	record = appendUint32(record, endOfCentralSignature)
	record = appendUint16(record, 0)             // disk number
	record = appendUint16(record, 0)             // disk with central directory
	record = appendUint16(record, uint16(count)) // entries on this disk
	record = appendUint16(record, uint16(count)) // entries total
	record = appendUint32(record, centralSize)
	record = appendUint32(record, centralOffset)
	record = appendUint16(record, 0) // comment length
	_, err := w.Write(record)
	return err
}

// deflate compresses body as a raw deflate stream (no zlib wrapper).
func deflate(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(body); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dosDateTime converts a timestamp to MS-DOS date/time fields: the year is
// floored at 1980 and seconds truncate to 2-second granularity.
func dosDateTime(t time.Time) (date, timeOfDay uint16) {
	if t.Year() < 1980 {
		t = time.Date(1980, time.January, 1, 0, 0, 0, 0, t.Location())
	}
	date = uint16((t.Year()-1980)<<9 | int(t.Month())<<5 | t.Day())
	timeOfDay = uint16(t.Hour()<<11 | t.Minute()<<5 | t.Second()/2)
	return date, timeOfDay
}

func appendUint16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}
