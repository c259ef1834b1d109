package pinblock

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/andrei-cloud/paycalc/pkg/cryptoutils"
)

// FormatInfo describes a supported format for listings.
type FormatInfo struct {
	Code        string `json:"code"`
	Format      string `json:"format"`
	Description string `json:"description"`
	BlockSize   int    `json:"block_size"`
	UsesPAN     bool   `json:"uses_pan"`
}

var thalesCodes = []struct {
	code   string
	format Format
	desc   string
}{
	{"01", ISO0, "ISO 9564-1 Format 0 (ANSI X9.8)"},
	{"05", ISO1, "ISO 9564-1 Format 1"},
	{"34", ISO2, "ISO 9564-1 Format 2"},
	{"47", ISO3, "ISO 9564-1 Format 3"},
	{"48", ISO4, "ISO 9564-1 Format 4 (AES)"},
}

// FormatFromCode maps a two-digit Thales PIN block format code to a Format.
func FormatFromCode(code string) (Format, error) {
	for _, c := range thalesCodes {
		if c.code == code {
			return c.format, nil
		}
	}

	return 0, cryptoutils.Newf(cryptoutils.KindInvalidArgument, "unsupported format code: %s", code)
}

// Code returns the Thales format code of f, or "" if f is unknown.
func (f Format) Code() string {
	for _, c := range thalesCodes {
		if c.format == f {
			return c.code
		}
	}

	return ""
}

// SupportedFormats lists the supported formats in code order.
func SupportedFormats() []FormatInfo {
	out := make([]FormatInfo, 0, len(thalesCodes))
	for _, c := range thalesCodes {
		out = append(out, FormatInfo{
			Code:        c.code,
			Format:      c.format.String(),
			Description: c.desc,
			BlockSize:   c.format.BlockSize(),
			UsesPAN:     c.format.UsesPAN(),
		})
	}

	return out
}

// PrintSupportedFormats writes a format table to w, or stdout when w is nil.
func PrintSupportedFormats(w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "code\tformat\tpan\tdescription") //nolint:errcheck
	for _, f := range SupportedFormats() {
		pan := "no"
		if f.UsesPAN {
			pan = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Code, f.Format, pan, f.Description) //nolint:errcheck
	}

	return tw.Flush()
}
