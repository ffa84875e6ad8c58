package coverage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// xmlDeclaration is the declaration written at the top of a saved report.
const xmlDeclaration = `version="1.0" encoding="UTF-8"`

// Report is a parsed Cobertura document bound to the file it was read from.
type Report struct {
	path string
	doc  *etree.Document
}

// Load reads and parses the report at path.
// It returns ErrInputNotFound if the file does not exist and
// ErrMalformedInput if it is not well-formed XML with a root element.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // report path comes from the command line
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := etree.NewDocument()
	// The default decoder is strict and rejects mismatched or unclosed
	// tags. ValidateInput is not used: it also rejects the trailing newline
	// most generators write after the root element.
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedInput, path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrMalformedInput, path)
	}

	return &Report{path: path, doc: doc}, nil
}

// Path returns the file the report was loaded from.
func (r *Report) Path() string {
	return r.path
}

// Root returns the document's root element.
func (r *Report) Root() *etree.Element {
	return r.doc.Root()
}

// LineRate returns the root line-rate attribute, "0" when absent.
func (r *Report) LineRate() string {
	return r.Root().SelectAttrValue(AttrLineRate, "0")
}

// Packages returns the <package> elements currently under <packages>,
// or nil when the section is missing.
func (r *Report) Packages() []*etree.Element {
	packages := r.Root().SelectElement("packages")
	if packages == nil {
		return nil
	}
	return packages.SelectElements("package")
}

// Bytes serializes the report with a UTF-8 XML declaration.
func (r *Report) Bytes() ([]byte, error) {
	r.ensureDeclaration()
	return r.doc.WriteToBytes()
}

// Save overwrites the source file with the serialized report.
// An existing file keeps its permissions.
func (r *Report) Save() error {
	data, err := r.Bytes()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", r.path, err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil { //nolint:gosec // report is shared with other CI tools
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}

// ensureDeclaration rewrites an existing <?xml ...?> declaration to UTF-8,
// or inserts one before the root element.
func (r *Report) ensureDeclaration() {
	for _, t := range r.doc.Child {
		if pi, ok := t.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = xmlDeclaration
			return
		}
	}
	r.doc.InsertChildAt(0, etree.NewProcInst("xml", xmlDeclaration))
	r.doc.InsertChildAt(1, etree.NewCharData("\n"))
}
