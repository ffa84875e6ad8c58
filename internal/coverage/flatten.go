package coverage

// Flatten rewrites the package hierarchy so that every class becomes the
// only class of a new package named after its filename. The package gets
// the class's line-rate, branch-rate and complexity, DefaultRate standing
// in for missing or empty values.
//
// Classes are moved, not copied, and the new packages keep document order
// (package order outer, class order inner). The returned slice has the same
// order. Flattening an already flat report leaves its structure unchanged.
func (r *Report) Flatten() ([]Class, error) {
	packages := r.Root().SelectElement("packages")
	if packages == nil {
		return nil, ErrMissingPackagesSection
	}

	// Collect everything before detaching anything.
	var classes []Class
	for _, pkg := range packages.SelectElements("package") {
		container := pkg.SelectElement("classes")
		if container == nil {
			continue
		}
		for _, el := range container.SelectElements("class") {
			classes = append(classes, newClass(el))
		}
	}

	for len(packages.Child) > 0 {
		packages.RemoveChildAt(len(packages.Child) - 1)
	}

	for _, c := range classes {
		pkg := packages.CreateElement("package")
		pkg.CreateAttr(AttrName, c.Filename)
		for _, key := range rateAttrs {
			pkg.CreateAttr(key, rateOrDefault(c.element.SelectAttrValue(key, "")))
		}
		pkg.CreateElement("classes").AddChild(c.element)
	}

	return classes, nil
}
