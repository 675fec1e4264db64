package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDocx decodes the WordprocessingML document part of a .docx archive.
// Text lives in <w:t> runs; paragraph ends become blank lines so that the
// chunker's paragraph tier sees the document's real structure.
func (e *Extractor) extractDocx(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{ContentType: TypeDocx, Err: fmt.Errorf("not a zip archive: %w", err)}
	}

	var docFile *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", &Error{ContentType: TypeDocx, Err: fmt.Errorf("missing word/document.xml")}
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", &Error{ContentType: TypeDocx, Err: err}
	}
	defer rc.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &Error{ContentType: TypeDocx, Err: fmt.Errorf("malformed document xml: %w", err)}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
