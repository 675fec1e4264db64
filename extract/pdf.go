package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the plain text layer out of a PDF document.
// Image-only documents are structurally valid and yield an empty string.
func (e *Extractor) extractPDF(data []byte) (text string, err error) {
	// The pdf parser panics on some malformed inputs; surface those as
	// structural errors like any other invalid document.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{ContentType: TypePDF, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{ContentType: TypePDF, Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &Error{ContentType: TypePDF, Err: err}
	}

	var b bytes.Buffer
	if _, err := io.Copy(&b, plain); err != nil {
		return "", &Error{ContentType: TypePDF, Err: err}
	}

	return b.String(), nil
}
