package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// The OOXML formats (docx, pptx, xlsx) are ZIP archives of XML parts. Text
// lives in character data of format-specific elements: w:t runs in Word
// documents, a:t runs in slides, t entries in the spreadsheet shared-string
// table.

func fromDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	f := findPart(zr, "word/document.xml")
	if f == nil {
		return "", fmt.Errorf("docx: missing word/document.xml")
	}
	text, err := collectXMLText(f, "t", "p")
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	return text, nil
}

func fromPPTX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}
	var slides []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })

	var sb strings.Builder
	for _, f := range slides {
		text, err := collectXMLText(f, "t", "p")
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", f.Name, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func fromXLSX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	// Cell values of interest are strings; numeric cells carry no
	// retrievable prose, so the shared-string table is enough.
	f := findPart(zr, "xl/sharedStrings.xml")
	if f == nil {
		return "", nil
	}
	text, err := collectXMLText(f, "t", "si")
	if err != nil {
		return "", fmt.Errorf("parse xlsx: %w", err)
	}
	return strings.ReplaceAll(text, "\n", " "), nil
}

func findPart(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// collectXMLText streams an XML part and gathers character data inside
// elements named textLocal, emitting a newline at the close of each
// breakLocal element.
func collectXMLText(f *zip.File, textLocal, breakLocal string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var sb strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textLocal {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == textLocal && depth > 0 {
				depth--
			}
			if t.Name.Local == breakLocal {
				sb.WriteString("\n")
			}
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
