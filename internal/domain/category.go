package domain

import "strings"

// CategoryPath is one traversable node of a catalog hierarchy, expressed as an
// ordered list of URL path segments. Immutable once discovered.
type CategoryPath struct {
	Segments []string `json:"segments"`
}

// NewCategoryPath builds a path from segments; slash-joined inputs are split,
// so NewCategoryPath("/almacen/aceites") and NewCategoryPath("almacen",
// "aceites") are equivalent.
func NewCategoryPath(segments ...string) CategoryPath {
	clean := make([]string, 0, len(segments))
	for _, s := range segments {
		for _, part := range strings.Split(s, "/") {
			if part = strings.TrimSpace(part); part != "" {
				clean = append(clean, part)
			}
		}
	}
	return CategoryPath{Segments: clean}
}

// Depth is the number of segments; paginated search endpoints derive their
// map/filter parameter from it.
func (p CategoryPath) Depth() int {
	return len(p.Segments)
}

// String joins the segments into the request path form "almacen/aceites".
func (p CategoryPath) String() string {
	return strings.Join(p.Segments, "/")
}

// Key is the dedup identity of a path: the segment tuple.
func (p CategoryPath) Key() string {
	return strings.Join(p.Segments, "\x00")
}

func (p CategoryPath) IsZero() bool {
	return len(p.Segments) == 0
}
