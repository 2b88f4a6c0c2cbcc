package markdown

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/ghsa2md/pkg/advisory"
)

const badgeFormat = "![](https://img.shields.io/static/v1?label=%s&message=%s&color=%s)\n"

// Writer emits one Markdown block per advisory record to Output.
type Writer struct {
	Output io.Writer
}

func NewWriter(output io.Writer) Writer {
	return Writer{Output: output}
}

// Write formats a single record and writes its block to the sink. Each block
// is written as it is produced; blocks are never buffered together.
func (w Writer) Write(r advisory.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "### [%s](%s)\n", r.CVE(), r.HTMLURL)
	fmt.Fprintf(&b, badgeFormat, "Product", r.PackageName(), "blue")
	fmt.Fprintf(&b, badgeFormat, "Version", "n%2Fa", "blue")
	// "brighgreen" is what downstream consumers already parse, typo included.
	fmt.Fprintf(&b, badgeFormat, "Vulnerability", "n%2Fa", "brighgreen")
	b.WriteString("\n")

	fmt.Fprintf(&b, "### Description\n\n%s\n\n", r.Summary)

	if pocs := r.POCs(); len(pocs) > 0 {
		b.WriteString("### POC\n\n")
		b.WriteString("#### Reference\n")
		for _, poc := range pocs {
			fmt.Fprintf(&b, "- %s\n", poc)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "#### GitHub\n%s\n\n", r.HTMLURL)

	if _, err := io.WriteString(w.Output, b.String()); err != nil {
		return xerrors.Errorf("failed to write advisory block: %w", err)
	}
	return nil
}

// WriteAll writes the records' blocks in order, with no separator beyond the
// blank lines each block already ends with.
func (w Writer) WriteAll(records []advisory.Record) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
