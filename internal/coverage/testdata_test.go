package coverage

import (
	"os"
	"path/filepath"
	"testing"
)

// sampleReport is a kcov-style report with two multi-class packages worth
// of data, a DOCTYPE and a package without classes.
const sampleReport = `<?xml version="1.0" ?>
<!DOCTYPE coverage SYSTEM "http://cobertura.sourceforge.net/xml/coverage-04.dtd">
<coverage line-rate="0.87" lines-covered="87" lines-valid="100" version="1.9" timestamp="1700000000">
  <sources>
    <source>/src</source>
  </sources>
  <packages>
    <package name="pkg1" line-rate="0.9" branch-rate="1.0" complexity="0.0">
      <classes>
        <class name="a_py" filename="a.py" line-rate="1.0" branch-rate="1.0" complexity="0.0">
          <methods/>
          <lines>
            <line number="1" hits="1"/>
            <line number="2" hits="3"/>
          </lines>
        </class>
        <class name="c_py" filename="src/c.py" line-rate="0.75">
          <lines>
            <line number="1" hits="0"/>
            <line number="2" hits="1"/>
          </lines>
        </class>
      </classes>
    </package>
    <package name="pkg2" line-rate="0.5">
      <classes>
        <class name="b_py" filename="b.py" line-rate="0.5" branch-rate="" complexity="2"/>
      </classes>
    </package>
    <package name="empty"/>
  </packages>
</coverage>
`

// writeReport writes content to a report file in a temporary directory.
func writeReport(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cobertura.xml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return path
}

// mustLoad loads a report or fails the test.
func mustLoad(t *testing.T, path string) *Report {
	t.Helper()

	r, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load report: %v", err)
	}
	return r
}
