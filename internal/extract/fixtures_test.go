package extract

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"
)

// buildPDF writes an uncompressed PDF with one page per entry. Each page is a
// list of lines, each line a list of strings shown back to back; lines are
// placed with relative Td moves the way most generators emit them.
func buildPDF(t *testing.T, pages [][][]string) []byte {
	t.Helper()
	escape := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, lines := range pages {
		var content strings.Builder
		if len(lines) > 0 {
			content.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
			for i, line := range lines {
				if i > 0 {
					content.WriteString("0 -16 Td\n")
				}
				for _, part := range line {
					fmt.Fprintf(&content, "(%s) Tj\n", escape.Replace(part))
				}
			}
			content.WriteString("ET\n")
		}
		pageID := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageID+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

const (
	cfbSectorSize = 512
	cfbFreeSect   = 0xFFFFFFFF
	cfbEndOfChain = 0xFFFFFFFE
	cfbFATSect    = 0xFFFFFFFD
)

// buildXLS writes a one-sheet BIFF8 workbook. Strings go through the shared
// string table and float64 cells become NUMBER records. A nil row gets no
// records at all, as Excel does for blank rows.
func buildXLS(t *testing.T, rows [][]any) []byte {
	t.Helper()

	var sst []string
	sstIndex := map[string]uint32{}
	var sheet bytes.Buffer
	writeBIFF(&sheet, 0x0809, biffBOF(0x0010))
	for r, row := range rows {
		if row == nil {
			continue
		}
		writeBIFF(&sheet, 0x0208, le(uint16(r), uint16(0), uint16(len(row)), uint16(0x00FF), uint16(0), uint16(0), uint32(0x0100)))
		for c, v := range row {
			switch v := v.(type) {
			case string:
				idx, ok := sstIndex[v]
				if !ok {
					idx = uint32(len(sst))
					sstIndex[v] = idx
					sst = append(sst, v)
				}
				writeBIFF(&sheet, 0x00FD, le(uint16(r), uint16(c), uint16(0x0F), idx))
			case float64:
				writeBIFF(&sheet, 0x0203, le(uint16(r), uint16(c), uint16(0x0F), v))
			default:
				t.Fatalf("unsupported cell type %T", v)
			}
		}
	}
	writeBIFF(&sheet, 0x000A, nil)

	var globals bytes.Buffer
	writeBIFF(&globals, 0x0809, biffBOF(0x0005))
	const sheetName = "Sheet1"
	sheetPos := globals.Len() + 4
	boundsheet := le(uint32(0), uint8(0), uint8(0), uint8(len(sheetName)), uint8(0))
	writeBIFF(&globals, 0x0085, append(boundsheet, sheetName...))
	sstBody := le(uint32(len(sst)), uint32(len(sst)))
	for _, s := range sst {
		sstBody = append(sstBody, le(uint16(len(s)), uint8(0))...)
		sstBody = append(sstBody, s...)
	}
	writeBIFF(&globals, 0x00FC, sstBody)
	writeBIFF(&globals, 0x000A, nil)

	stream := globals.Bytes()
	binary.LittleEndian.PutUint32(stream[sheetPos:], uint32(len(stream)))
	stream = append(stream, sheet.Bytes()...)
	return compoundFile("Workbook", stream)
}

func biffBOF(kind uint16) []byte {
	return le(uint16(0x0600), kind, uint16(0x0DBB), uint16(0x07CC), uint32(0), uint32(0x0600))
}

func writeBIFF(buf *bytes.Buffer, id uint16, body []byte) {
	buf.Write(le(id, uint16(len(body))))
	buf.Write(body)
}

func le(values ...any) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// compoundFile wraps stream as the only entry of an OLE2 compound document:
// one FAT sector, one directory sector, then the stream sectors. The stream is
// padded to 4096 bytes so it lives in regular sectors.
func compoundFile(name string, stream []byte) []byte {
	size := max(len(stream), 4096)
	size = (size + cfbSectorSize - 1) / cfbSectorSize * cfbSectorSize
	data := make([]byte, size)
	copy(data, stream)
	streamSectors := size / cfbSectorSize

	header := make([]byte, cfbSectorSize)
	copy(header, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[0x18:], 0x003E)
	binary.LittleEndian.PutUint16(header[0x1A:], 0x0003)
	binary.LittleEndian.PutUint16(header[0x1C:], 0xFFFE)
	binary.LittleEndian.PutUint16(header[0x1E:], 9)
	binary.LittleEndian.PutUint16(header[0x20:], 6)
	binary.LittleEndian.PutUint32(header[0x2C:], 1) // FAT sectors
	binary.LittleEndian.PutUint32(header[0x30:], 1) // directory sector
	binary.LittleEndian.PutUint32(header[0x38:], 4096)
	binary.LittleEndian.PutUint32(header[0x3C:], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[0x44:], cfbEndOfChain)
	for i := 0; i < 109; i++ {
		binary.LittleEndian.PutUint32(header[0x4C+4*i:], cfbFreeSect)
	}
	binary.LittleEndian.PutUint32(header[0x4C:], 0)

	fat := make([]byte, cfbSectorSize)
	last := 1 + streamSectors
	for i := 0; i < cfbSectorSize/4; i++ {
		v := uint32(cfbFreeSect)
		switch {
		case i == 0:
			v = cfbFATSect
		case i == 1, i == last:
			v = cfbEndOfChain
		case i >= 2 && i < last:
			v = uint32(i + 1)
		}
		binary.LittleEndian.PutUint32(fat[4*i:], v)
	}

	dir := make([]byte, cfbSectorSize)
	dirEntry(dir[0:128], "Root Entry", 5, 1, cfbEndOfChain, 0)
	dirEntry(dir[128:256], name, 2, cfbFreeSect, 2, uint32(size))

	out := make([]byte, 0, 3*cfbSectorSize+size)
	out = append(out, header...)
	out = append(out, fat...)
	out = append(out, dir...)
	return append(out, data...)
}

func dirEntry(b []byte, name string, kind byte, child, start, size uint32) {
	for i, u := range utf16.Encode([]rune(name)) {
		binary.LittleEndian.PutUint16(b[2*i:], u)
	}
	binary.LittleEndian.PutUint16(b[64:], uint16((len(name)+1)*2))
	b[66] = kind
	b[67] = 1
	binary.LittleEndian.PutUint32(b[68:], cfbFreeSect)
	binary.LittleEndian.PutUint32(b[72:], cfbFreeSect)
	binary.LittleEndian.PutUint32(b[76:], child)
	binary.LittleEndian.PutUint32(b[116:], start)
	binary.LittleEndian.PutUint32(b[120:], size)
}
