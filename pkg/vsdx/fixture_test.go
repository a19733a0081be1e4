package vsdx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stevensultana/vsdx/pkg/vsdx/opc"
)

const (
	nsExtProps       = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsVT             = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	defaultPagesPart = "visio/pages/pages.xml"
	defaultAppPart   = "docProps/app.xml"
)

// testPage is one page of a generated test drawing: its name and the XML
// placed inside PageContents.
type testPage struct {
	name string
	body string
}

const flowPage = `<Shapes>
  <Shape ID="1" NameU="Start" Name="Start" Type="Shape">
    <Cell N="PinX" V="1"/>
    <Cell N="PinY" V="2"/>
    <Cell N="Width" V="1"/>
    <Section N="Property">
      <Row N="Cost">
        <Cell N="Label" V="Cost"/>
        <Cell N="Value" V="12"/>
      </Row>
    </Section>
    <Text><cp IX="0"/>Start
</Text>
  </Shape>
  <Shape ID="2" NameU="Box" Name="Box" Type="Group" Master="2">
    <Cell N="PinX" V="4"/>
  </Shape>
  <Shape ID="3" NameU="Dynamic connector" Name="Dynamic connector" Type="Shape">
    <Cell N="BeginX" V="1"/>
    <Cell N="EndX" V="4"/>
  </Shape>
</Shapes>
<Connects>
  <Connect FromSheet="3" FromCell="BeginX" FromPart="9" ToSheet="1" ToCell="PinX" ToPart="3"/>
</Connects>`

// groupPage holds a master instance with sub-shapes, a local group with a
// nested Connects container, and a shape referring to a missing master.
const groupPage = `<Shapes>
  <Shape ID="10" Type="Group" Master="2">
    <Section N="Property">
      <Row N="Cost">
        <Cell N="Value" V="40"/>
      </Row>
      <Row N="Owner" Del="1"/>
      <Row N="Site">
        <Cell N="Label" V="Site"/>
        <Cell N="Value" V="north"/>
      </Row>
    </Section>
    <Shapes>
      <Shape ID="11" MasterShape="6"/>
    </Shapes>
  </Shape>
  <Shape ID="20" Type="Group">
    <Text>Outer {{name}}</Text>
    <Shapes>
      <Shape ID="21" Type="Shape"><Text>Hello {{name}}</Text></Shape>
      <Shape ID="22" Type="Group">
        <Shapes>
          <Shape ID="23" Type="Shape"><Text>deep</Text></Shape>
        </Shapes>
      </Shape>
    </Shapes>
  </Shape>
  <Shape ID="30" Master="99"/>
</Shapes>
<Shapes>
  <Shape ID="40" Type="Shape"><Text>second container</Text></Shape>
</Shapes>`

const masterPart = `<?xml version="1.0" encoding="utf-8"?>
<MasterContents xmlns="http://schemas.microsoft.com/office/visio/2012/main" xml:space="preserve">
  <Shapes>
    <Shape ID="5" Type="Group">
      <Cell N="PinX" V="0.5"/>
      <Cell N="Height" V="0.75"/>
      <Section N="Property">
        <Row N="Owner">
          <Cell N="Label" V="Owner"/>
          <Cell N="Value" V="ops"/>
        </Row>
        <Row N="Cost">
          <Cell N="Label" V="Cost"/>
          <Cell N="Value" V="1"/>
        </Row>
      </Section>
      <Text>Template</Text>
      <Shapes>
        <Shape ID="6" Type="Shape">
          <Text>Inner</Text>
        </Shape>
      </Shapes>
    </Shape>
  </Shapes>
</MasterContents>`

// defaultPages is a two page drawing: shapes 1, 2 and 3 with one Connect on
// the first page, nothing on the second.
func defaultPages() []testPage {
	return []testPage{
		{name: "Page-1", body: flowPage},
		{name: "Page-2", body: ""},
	}
}

// newTestPackage assembles a drawing package in memory.
func newTestPackage(t *testing.T, pages ...testPage) *opc.Package {
	t.Helper()

	pkg := opc.New()
	var overrides, entries, pageRels, titles strings.Builder
	for i, p := range pages {
		n := i + 1
		fmt.Fprintf(&overrides, `<Override PartName="/visio/pages/page%d.xml" ContentType="%s"/>`, n, ctPage)
		fmt.Fprintf(&entries, `<Page ID="%d" NameU="%s" Name="%s"><PageSheet><Cell N="PageWidth" V="%s"/><Cell N="PageHeight" V="%s"/></PageSheet><Rel r:id="rId%d"/></Page>`,
			i*4, p.name, p.name, defaultPageWidth, defaultPageHeight, n)
		fmt.Fprintf(&pageRels, `<Relationship Id="rId%d" Type="%s" Target="page%d.xml"/>`, n, relTypePage, n)
		fmt.Fprintf(&titles, `<vt:lpstr>%s</vt:lpstr>`, p.name)

		pkg.SetRaw(fmt.Sprintf("visio/pages/page%d.xml", n), []byte(fmt.Sprintf(
			`<?xml version="1.0" encoding="utf-8"?>`+"\n"+
				`<PageContents xmlns="%s" xmlns:r="%s" xml:space="preserve">%s</PageContents>`, nsVisio, nsRel, p.body)))
		pkg.SetRaw(fmt.Sprintf("visio/pages/_rels/page%d.xml.rels", n), []byte(fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
				`<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="../masters/master1.xml"/></Relationships>`, opc.NsRelationships, relTypeMaster)))
	}

	pkg.SetRaw(opc.ContentTypesPart, []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="%s">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/visio/document.xml" ContentType="application/vnd.ms-visio.drawing.main+xml"/>
<Override PartName="/visio/pages/pages.xml" ContentType="application/vnd.ms-visio.pages+xml"/>
<Override PartName="/visio/masters/masters.xml" ContentType="application/vnd.ms-visio.masters+xml"/>
<Override PartName="/visio/masters/master1.xml" ContentType="%s"/>
<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
%s
</Types>`, opc.NsContentTypes, ctMaster, overrides.String())))

	pkg.SetRaw("_rels/.rels", []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
<Relationship Id="rId1" Type="%s" Target="visio/document.xml"/>
<Relationship Id="rId2" Type="%s" Target="docProps/app.xml"/>
</Relationships>`, opc.NsRelationships, relTypeDocument, relTypeExtended)))

	pkg.SetRaw(defaultAppPart, []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="%s" xmlns:vt="%s">
<Application>Microsoft Visio</Application>
<HeadingPairs><vt:vector size="4" baseType="variant">
<vt:variant><vt:lpstr>Pages</vt:lpstr></vt:variant><vt:variant><vt:i4>%d</vt:i4></vt:variant>
<vt:variant><vt:lpstr>Masters</vt:lpstr></vt:variant><vt:variant><vt:i4>1</vt:i4></vt:variant>
</vt:vector></HeadingPairs>
<TitlesOfParts><vt:vector size="%d" baseType="lpstr">%s<vt:lpstr>Box</vt:lpstr></vt:vector></TitlesOfParts>
</Properties>`, nsExtProps, nsVT, len(pages), len(pages)+1, titles.String())))

	pkg.SetRaw("visio/document.xml", []byte(fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<VisioDocument xmlns="%s" xmlns:r="%s"/>`, nsVisio, nsRel)))

	pkg.SetRaw("visio/_rels/document.xml.rels", []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
<Relationship Id="rId1" Type="%s" Target="pages/pages.xml"/>
<Relationship Id="rId2" Type="%s" Target="masters/masters.xml"/>
</Relationships>`, opc.NsRelationships, relTypePages, relTypeMasters)))

	pkg.SetRaw(defaultPagesPart, []byte(fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<Pages xmlns="%s" xmlns:r="%s" xml:space="preserve">%s</Pages>`, nsVisio, nsRel, entries.String())))

	pkg.SetRaw("visio/pages/_rels/pages.xml.rels", []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">%s</Relationships>`, opc.NsRelationships, pageRels.String())))

	pkg.SetRaw("visio/masters/masters.xml", []byte(fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<Masters xmlns="%s" xmlns:r="%s" xml:space="preserve">
<Master ID="2" NameU="Box" Name="Box"><Rel r:id="rId1"/></Master>
</Masters>`, nsVisio, nsRel)))

	pkg.SetRaw("visio/masters/_rels/masters.xml.rels", []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="master1.xml"/></Relationships>`, opc.NsRelationships, relTypeMaster)))

	pkg.SetRaw("visio/masters/master1.xml", []byte(masterPart))
	return pkg
}

// newTestDocument loads a drawing with the given pages, or the default two
// page drawing when none are given.
func newTestDocument(t *testing.T, pages ...testPage) *Document {
	t.Helper()
	if len(pages) == 0 {
		pages = defaultPages()
	}
	doc, err := FromPackage(newTestPackage(t, pages...), Options{})
	if err != nil {
		t.Fatalf("FromPackage() error = %v", err)
	}
	return doc
}

// writeTestFile writes a drawing to a temporary .vsdx file.
func writeTestFile(t *testing.T, pages ...testPage) string {
	t.Helper()
	if len(pages) == 0 {
		pages = defaultPages()
	}
	var buf bytes.Buffer
	if _, err := newTestPackage(t, pages...).WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.vsdx")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

// reload writes the document and loads the result again.
func reload(t *testing.T, doc *Document) *Document {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()), Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return out
}
