package xref

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Read locates the last startxref in data and parses the classic table it
// points at. It returns the table and its byte offset. Read understands only
// what Table.Bytes produces plus multi-subsection tables; it is meant for
// checking written files, not for recovering damaged ones.
func Read(data []byte) (*Table, int64, error) {
	startxref := bytes.LastIndex(data, []byte("startxref"))
	if startxref < 0 {
		return nil, 0, errors.New("startxref not found")
	}
	rest := data[startxref+len("startxref"):]
	lines := bufio.NewScanner(bytes.NewReader(rest))
	var offset int64 = -1
	for lines.Scan() {
		text := strings.TrimSpace(lines.Text())
		if text == "" {
			continue
		}
		val, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("parse startxref: %w", err)
		}
		offset = val
		break
	}

	if offset <= 0 || offset >= int64(len(data)) {
		return nil, 0, fmt.Errorf("xref offset out of range: %d", offset)
	}

	sc := bufio.NewScanner(bytes.NewReader(data[offset:]))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "xref" {
		return nil, 0, errors.New("xref keyword not found at offset")
	}

	entries := map[int]Entry{}
	size := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "trailer") {
			break
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, 0, fmt.Errorf("invalid xref subsection header: %q", line)
		}
		startObj, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, 0, fmt.Errorf("parse xref start: %w", err)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, 0, fmt.Errorf("parse xref count: %w", err)
		}

		for i := 0; i < count; i++ {
			if !sc.Scan() {
				return nil, 0, errors.New("unexpected end of xref section")
			}
			fields := strings.Fields(sc.Text())
			if len(fields) != 3 || len(fields[0]) != OffsetWidth || len(fields[1]) != GenerationWidth {
				return nil, 0, fmt.Errorf("invalid xref entry: %q", sc.Text())
			}
			off, err := strconv.ParseUint(fields[0], 10, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("parse xref offset: %w", err)
			}
			gen, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				return nil, 0, fmt.Errorf("parse xref gen: %w", err)
			}
			var inUse bool
			switch fields[2] {
			case "n":
				inUse = true
			case "f":
			default:
				return nil, 0, fmt.Errorf("invalid xref entry type: %q", fields[2])
			}
			entries[startObj+i] = Entry{Offset: off, Generation: uint32(gen), InUse: inUse}
			if startObj+i+1 > size {
				size = startObj + i + 1
			}
		}
	}

	t := &Table{entries: make([]Entry, size)}
	for num, e := range entries {
		t.entries[num] = e
	}
	return t, offset, nil
}
