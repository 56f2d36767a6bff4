package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
)

// Validator checks that a staged upload is a readable PDF before rendering.
type Validator struct {
	conf *model.Configuration
}

// NewValidator creates a validator using pdfcpu's relaxed validation mode,
// which tolerates the minor PDF syntax violations common in scanner output.
func NewValidator() *Validator {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Validator{conf: conf}
}

// ValidatePDF returns a DocumentFormatError unless path is a regular file
// that pdfcpu can parse.
func (v *Validator) ValidatePDF(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.DocumentFormatError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DocumentFormatError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.DocumentFormatError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if !info.Mode().IsRegular() {
		return domain.DocumentFormatError(fmt.Sprintf("not a regular file: %s", path), nil)
	}

	if info.Size() == 0 {
		return domain.DocumentFormatError("PDF is empty", nil)
	}

	if err := api.ValidateFile(path, v.conf); err != nil {
		return domain.DocumentFormatError("file is not a valid PDF", err)
	}

	return nil
}
