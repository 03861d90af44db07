package frontend

import (
	"bytes"
	"strings"

	"fortio.org/safecast"

	"lumen/internal/source"
)

// header is a TOML table header line such as "[[component.root.children]]".
type header struct {
	path  string // dotted key without brackets or spaces
	array bool
	span  source.Span
	// end of the table body: start of the next header or EOF
	bodyEnd uint32
}

type componentHeaders struct {
	header   header
	elements []header // pre-order, matching the decoded element tree
}

// headerIndex groups the headers of a document the way the decoder groups
// tables. TOML forces nested array tables to follow their parent, so the
// element headers of one component appear in pre-order.
type headerIndex struct {
	imports    []header
	components []componentHeaders
}

func scanHeaders(file *source.File) headerIndex {
	var all []header
	content := file.Content
	offset := 0
	for offset < len(content) {
		lineEnd := bytes.IndexByte(content[offset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(content) - offset
		}
		line := content[offset : offset+lineEnd]
		if h, ok := parseHeaderLine(line); ok {
			start := offset + bytes.IndexByte(line, '[')
			s, errS := safecast.Conv[uint32](start)
			e, errE := safecast.Conv[uint32](offset + len(bytes.TrimRight(line, " \t\r")))
			if errS == nil && errE == nil {
				h.span = source.Span{File: file.ID, Start: s, End: e}
				all = append(all, h)
			}
		}
		offset += lineEnd + 1
	}

	eof, err := safecast.Conv[uint32](len(content))
	if err != nil {
		eof = 0
	}
	for i := range all {
		all[i].bodyEnd = eof
		if i+1 < len(all) {
			all[i].bodyEnd = all[i+1].span.Start
		}
	}

	var idx headerIndex
	for _, h := range all {
		switch {
		case h.array && h.path == "import":
			idx.imports = append(idx.imports, h)
		case h.array && h.path == "component":
			idx.components = append(idx.components, componentHeaders{header: h})
		case isElementHeader(h) && len(idx.components) > 0:
			last := &idx.components[len(idx.components)-1]
			last.elements = append(last.elements, h)
		}
	}
	return idx
}

func parseHeaderLine(line []byte) (header, bool) {
	text := strings.TrimSpace(string(line))
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	var h header
	switch {
	case strings.HasPrefix(text, "[[") && strings.HasSuffix(text, "]]"):
		h.array = true
		text = text[2 : len(text)-2]
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		text = text[1 : len(text)-1]
	default:
		return header{}, false
	}
	h.path = strings.Join(strings.Fields(text), "")
	if h.path == "" || strings.ContainsAny(h.path, "[]=\"'") {
		return header{}, false
	}
	return h, true
}

// isElementHeader matches [component.root] and [[component.root.children...]].
func isElementHeader(h header) bool {
	if !h.array {
		return h.path == "component.root"
	}
	rest, ok := strings.CutPrefix(h.path, "component.root")
	if !ok || rest == "" {
		return false
	}
	for rest != "" {
		var found bool
		rest, found = strings.CutPrefix(rest, ".children")
		if !found {
			return false
		}
	}
	return true
}

// locate finds value inside the body of h, after the first occurrence of key,
// and returns its offset. Escaped TOML strings do not appear verbatim and
// yield false.
func locate(file *source.File, h header, key, value string) (uint32, bool) {
	if h.span.Empty() || value == "" {
		return 0, false
	}
	body := file.Content[h.span.End:h.bodyEnd]
	from := 0
	if key != "" {
		if i := bytes.Index(body, []byte(key)); i >= 0 {
			from = i + len(key)
		}
	}
	i := bytes.Index(body[from:], []byte(value))
	if i < 0 {
		return 0, false
	}
	off, err := safecast.Conv[uint32](from + i)
	if err != nil {
		return 0, false
	}
	return h.span.End + off, true
}
