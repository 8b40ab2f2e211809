package markdown

import "strings"

// Resolver maps a link destination to its replacement. Returning ok=false
// leaves the link untouched.
type Resolver func(dest string) (string, bool)

// RewriteLinks rewrites inline link, image and reference definition
// destinations through resolve, preserving everything else byte for byte.
// Destinations inside fenced blocks, indented code and inline code spans are
// never touched.
//
// This is how relative markdown links between documents become output URLs:
// the theme resolves "./guide.md" style destinations against the page
// definitions and rewrites them before HTML conversion.
func RewriteLinks(src []byte, resolve Resolver) ([]byte, error) {
	var edits []Edit

	inFence := false
	fence := ""
	offset := 0
	for _, line := range strings.SplitAfter(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			marker := trimmed[:3]
			switch {
			case !inFence:
				inFence, fence = true, marker
			case fence == marker:
				inFence, fence = false, ""
			}
			offset += len(line)
			continue
		}
		if inFence || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			offset += len(line)
			continue
		}

		masked := maskCodeSpans(line)
		edits = append(edits, inlineLinkEdits(line, masked, offset, resolve)...)
		if e, ok := refDefEdit(line, masked, offset, resolve); ok {
			edits = append(edits, e)
		}
		offset += len(line)
	}

	return ApplyEdits(src, edits)
}

// maskCodeSpans blanks inline code spans including their delimiters, keeping
// byte offsets stable so matches in the masked line map onto the original.
func maskCodeSpans(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}
	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}
		run := 1
		for i+run < len(b) && b[i+run] == '`' {
			run++
		}
		marker := strings.Repeat("`", run)
		rel := strings.Index(line[i+run:], marker)
		if rel == -1 {
			i += run
			continue
		}
		end := i + run + rel + run
		for j := i; j < end; j++ {
			b[j] = ' '
		}
		i = end
	}
	return string(b)
}

// inlineLinkEdits finds "](dest)" occurrences outside code and produces an
// edit for each destination the resolver rewrites. Titles after the URL are
// preserved.
func inlineLinkEdits(line, masked string, offset int, resolve Resolver) []Edit {
	var edits []Edit
	for i := 0; i+1 < len(masked); i++ {
		if masked[i] != ']' || masked[i+1] != '(' {
			continue
		}
		rel := strings.IndexByte(masked[i+2:], ')')
		if rel == -1 {
			continue
		}
		destStart := i + 2
		destEnd := destStart + rel

		dest := line[destStart:destEnd]
		url := dest
		if cut := strings.IndexAny(dest, " \t"); cut != -1 {
			url = dest[:cut]
		}
		if url != "" {
			if replacement, ok := resolve(url); ok && replacement != url {
				edits = append(edits, Edit{
					Start:       offset + destStart,
					End:         offset + destStart + len(url),
					Replacement: []byte(replacement),
				})
			}
		}
		i = destEnd
	}
	return edits
}

// refDefEdit handles "[label]: dest" lines. Footnote definitions are not
// reference definitions and stay untouched.
func refDefEdit(line, masked string, offset int, resolve Resolver) (Edit, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[^") {
		return Edit{}, false
	}
	idx := strings.Index(masked, "]:")
	if idx == -1 {
		return Edit{}, false
	}

	destStart := idx + 2
	for destStart < len(line) && (line[destStart] == ' ' || line[destStart] == '\t') {
		destStart++
	}
	destEnd := destStart
	for destEnd < len(line) && !strings.ContainsRune(" \t\r\n", rune(line[destEnd])) {
		destEnd++
	}
	if destStart == destEnd {
		return Edit{}, false
	}

	url := line[destStart:destEnd]
	replacement, ok := resolve(url)
	if !ok || replacement == url {
		return Edit{}, false
	}
	return Edit{
		Start:       offset + destStart,
		End:         offset + destEnd,
		Replacement: []byte(replacement),
	}, true
}
