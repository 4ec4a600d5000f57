package xmlutil

import (
	"testing"

	"github.com/beevik/etree"
)

func mustParse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	return doc.Root()
}

func TestText(t *testing.T) {
	root := mustParse(t, `<TITLE>  Hello <b>World</b>  </TITLE>`)
	if got := Text(root); got != "Hello World" {
		t.Errorf("got %q", got)
	}
}

func TestFindText(t *testing.T) {
	root := mustParse(t, `<NOTICE><TITLE>  Road works  </TITLE></NOTICE>`)
	if got := FindText(root, "TITLE"); got != "Road works" {
		t.Errorf("got %q", got)
	}
	if got := FindText(root, "MISSING"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestAttr(t *testing.T) {
	root := mustParse(t, `<COUNTRY VALUE="FR"/>`)
	v, ok := Attr(root, "VALUE")
	if !ok || v != "FR" {
		t.Errorf("got %q, %v", v, ok)
	}
	if _, ok := Attr(root, "MISSING"); ok {
		t.Error("expected missing attribute to report false")
	}
}

func TestFindAttr(t *testing.T) {
	root := mustParse(t, `<NOTICE><COUNTRY VALUE="FR"/></NOTICE>`)
	v, ok := FindAttr(root, "COUNTRY", "VALUE")
	if !ok || v != "FR" {
		t.Errorf("got %q, %v", v, ok)
	}
	if _, ok := FindAttr(root, "COUNTRY", "MISSING"); ok {
		t.Error("expected missing attribute to report false")
	}
	if _, ok := FindAttr(root, "MISSING", "VALUE"); ok {
		t.Error("expected missing element to report false")
	}
}

func TestFirstTextAndAttr(t *testing.T) {
	root := mustParse(t, `<NOTICE><COUNTRY VALUE="FR">France</COUNTRY><COUNTRY VALUE="DE">Germany</COUNTRY></NOTICE>`)
	elements := root.FindElements("COUNTRY")
	if text, ok := FirstText(elements); !ok || text != "France" {
		t.Errorf("got %q, %v", text, ok)
	}
	if v, ok := FirstAttr(elements, "VALUE"); !ok || v != "FR" {
		t.Errorf("got %q, %v", v, ok)
	}
	if _, ok := FirstText(nil); ok {
		t.Error("expected empty slice to report false")
	}
}

func TestOrAbsent(t *testing.T) {
	if v, ok := OrAbsent("  hello  "); !ok || v != "hello" {
		t.Errorf("got %q, %v", v, ok)
	}
	if _, ok := OrAbsent("   "); ok {
		t.Error("expected blank string to report false")
	}
}
