package coverage

import "github.com/beevik/etree"

// Attribute names shared by <package> and <class> elements.
const (
	AttrName       = "name"
	AttrFilename   = "filename"
	AttrLineRate   = "line-rate"
	AttrBranchRate = "branch-rate"
	AttrComplexity = "complexity"
)

// rateAttrs lists the attributes copied from a class onto its new package,
// in the order they are written.
var rateAttrs = []string{AttrLineRate, AttrBranchRate, AttrComplexity}

// Class is one <class> element of a report, usually one source file.
// The string fields hold the raw attribute values ("" when absent).
type Class struct {
	// Filename is the source file path, used verbatim as the package name
	// after flattening.
	Filename string

	LineRate   string
	BranchRate string
	Complexity string

	// element is the class node itself. Flattening moves it between
	// parents, so nested <methods> and <lines> stay attached.
	element *etree.Element
}

// newClass captures the attributes of a <class> element.
func newClass(el *etree.Element) Class {
	return Class{
		Filename:   el.SelectAttrValue(AttrFilename, ""),
		LineRate:   el.SelectAttrValue(AttrLineRate, ""),
		BranchRate: el.SelectAttrValue(AttrBranchRate, ""),
		Complexity: el.SelectAttrValue(AttrComplexity, ""),
		element:    el,
	}
}

// LineCount returns the number of <line> entries under the class and how
// many of them have a non-zero hit count.
func (c Class) LineCount() (covered, total int) {
	if c.element == nil {
		return 0, 0
	}
	lines := c.element.SelectElement("lines")
	if lines == nil {
		return 0, 0
	}
	for _, line := range lines.SelectElements("line") {
		total++
		if ParseRate(line.SelectAttrValue("hits", "0")) > 0 {
			covered++
		}
	}
	return covered, total
}
