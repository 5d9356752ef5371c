package compile

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/typeset/pkg/args"
)

// Page template placeholders accepted in output names
const (
	placeholderPage       = "{p}"
	placeholderPaddedPage = "{0p}"
	placeholderTotal      = "{t}"
)

// resolveFormat picks the export format: explicit, then the output
// extension, then pdf
func resolveFormat(a *args.CompileArgs) args.OutputFormat {
	if a.Format != "" {
		return a.Format
	}
	if format := args.FormatForPath(a.Output); format != "" {
		return format
	}
	return args.FormatPDF
}

// deriveOutput replaces the input extension with the format's
func deriveOutput(input string, format args.OutputFormat) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + string(format)
}

// hasPageTemplate reports whether the output name varies per page
func hasPageTemplate(output string) bool {
	return strings.Contains(output, placeholderPage) || strings.Contains(output, placeholderPaddedPage)
}

// expandPageTemplate fills the placeholders for one 1-based page
func expandPageTemplate(output string, page, total int) string {
	width := len(strconv.Itoa(total))
	r := strings.NewReplacer(
		placeholderPaddedPage, fmt.Sprintf("%0*d", width, page),
		placeholderPage, strconv.Itoa(page),
		placeholderTotal, strconv.Itoa(total),
	)
	return r.Replace(output)
}

// selectPages lists the 1-based pages matched by ranges. Empty ranges
// select every page.
func selectPages(ranges []args.PageRange, total int) []int {
	var pages []int
	for page := 1; page <= total; page++ {
		if len(ranges) == 0 {
			pages = append(pages, page)
			continue
		}
		for _, r := range ranges {
			if r.Contains(page) {
				pages = append(pages, page)
				break
			}
		}
	}
	return pages
}

func isImageFormat(format args.OutputFormat) bool {
	return format == args.FormatPNG || format == args.FormatSVG
}
