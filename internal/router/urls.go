package router

import "strings"

// URLTo returns a relative href that reaches to from the page at from. Both
// arguments are site-root-relative URLs as produced by the router; absolute
// URLs and bare fragments pass through unchanged.
func URLTo(from, to string) string {
	if to == "" || strings.HasPrefix(to, "#") || strings.Contains(to, "://") {
		return to
	}
	toPath := to
	frag := ""
	if i := strings.IndexByte(to, '#'); i != -1 {
		toPath, frag = to[:i], to[i:]
	}

	fromSegs := strings.Split(from, "/")
	fromDirs := fromSegs[:len(fromSegs)-1]
	toSegs := strings.Split(toPath, "/")

	common := 0
	for common < len(fromDirs) && common < len(toSegs)-1 && fromDirs[common] == toSegs[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(fromDirs); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(toSegs[common:], "/"))
	b.WriteString(frag)
	return b.String()
}
