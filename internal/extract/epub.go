package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// EPUBExtractor reads an EPUB container: META-INF/container.xml names
// the OPF package, whose spine gives the reading order of the XHTML
// parts. Each spine item is flattened to lines like the HTML path.
type EPUBExtractor struct{}

// epubContainer is META-INF/container.xml.
type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// epubPackage is the subset of the OPF package document we need.
type epubPackage struct {
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

func (p *EPUBExtractor) Extract(ctx context.Context, r io.Reader, filename string, progress func(int)) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read epub: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open epub container: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	opfPath, err := findOPFPath(files)
	if err != nil {
		return Result{}, err
	}

	var pkg epubPackage
	if err := decodeZipXML(files, opfPath, &pkg); err != nil {
		return Result{}, fmt.Errorf("parse opf package: %w", err)
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item.Href
	}

	opfDir := path.Dir(opfPath)
	var buf strings.Builder
	total := len(pkg.Spine)
	part := 0
	for i, ref := range pkg.Spine {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		href, ok := hrefs[ref.IDRef]
		if !ok {
			reportProgress(progress, i+1, total)
			continue
		}
		f, ok := files[path.Join(opfDir, href)]
		if !ok {
			f, ok = files[href]
		}
		if !ok {
			reportProgress(progress, i+1, total)
			continue
		}

		lines, err := epubPartLines(f)
		if err != nil {
			reportProgress(progress, i+1, total)
			continue
		}
		part++
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(strings.Join(lines, "\n"))
		buf.WriteString("\n")

		reportProgress(progress, i+1, total)
	}

	if part == 0 {
		return Result{}, fmt.Errorf("epub has no readable spine parts")
	}
	return Result{Text: buf.String(), Pages: part}, nil
}

// findOPFPath locates the package document via container.xml, falling
// back to the conventional locations when the container entry is
// missing or malformed.
func findOPFPath(files map[string]*zip.File) (string, error) {
	var c epubContainer
	if err := decodeZipXML(files, "META-INF/container.xml", &c); err == nil {
		for _, rf := range c.Rootfiles {
			if rf.FullPath != "" {
				return rf.FullPath, nil
			}
		}
	}
	for _, p := range []string{"OEBPS/content.opf", "content.opf"} {
		if _, ok := files[p]; ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("epub package document not found")
}

func decodeZipXML(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("%s missing", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

func epubPartLines(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc, err := html.Parse(rc)
	if err != nil {
		return nil, err
	}
	body := findBody(doc)
	if body == nil {
		body = doc
	}
	return flattenHTML(body), nil
}
