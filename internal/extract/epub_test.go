package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildTestEPUB(t *testing.T, parts map[string]string, spine []string) *bytes.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	write("mimetype", "application/epub+zip")
	write("META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	var manifest, spineXML strings.Builder
	for id := range parts {
		manifest.WriteString(`<item id="` + id + `" href="` + id + `.xhtml" media-type="application/xhtml+xml"/>`)
	}
	for _, id := range spine {
		spineXML.WriteString(`<itemref idref="` + id + `"/>`)
	}
	write("OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata><dc:title xmlns:dc="http://purl.org/dc/elements/1.1/">書</dc:title></metadata>
  <manifest>`+manifest.String()+`</manifest>
  <spine>`+spineXML.String()+`</spine>
</package>`)

	for id, body := range parts {
		write("OEBPS/"+id+".xhtml", `<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml"><body>`+body+`</body></html>`)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestEPUBExtractor_SpineOrder(t *testing.T) {
	r := buildTestEPUB(t,
		map[string]string{
			"ch1": "<h1>第一章</h1><p>很久以前。</p>",
			"ch2": "<h1>第二章</h1><p>後來呢。</p>",
		},
		[]string{"ch1", "ch2"},
	)

	p := &EPUBExtractor{}
	res, err := p.Extract(context.Background(), r, "book.epub", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("expected 2 parts, got %d", res.Pages)
	}

	first := strings.Index(res.Text, "第一章")
	second := strings.Index(res.Text, "第二章")
	if first == -1 || second == -1 || second < first {
		t.Errorf("spine order not preserved: %q", res.Text)
	}
}

func TestEPUBExtractor_SkipsMissingSpineItems(t *testing.T) {
	r := buildTestEPUB(t,
		map[string]string{"ch1": "<p>正文。</p>"},
		[]string{"ch1", "ghost"},
	)

	p := &EPUBExtractor{}
	res, err := p.Extract(context.Background(), r, "book.epub", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("expected 1 readable part, got %d", res.Pages)
	}
}

func TestEPUBExtractor_NotAZip(t *testing.T) {
	p := &EPUBExtractor{}
	if _, err := p.Extract(context.Background(), strings.NewReader("not a zip"), "book.epub", nil); err == nil {
		t.Error("expected error for invalid container")
	}
}
