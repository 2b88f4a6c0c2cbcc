package advisory

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/xerrors"
)

// placeholder substitutes any display field whose source is absent.
const placeholder = "N/A"

// Reference categories
const (
	ReferencePOC      = "poc"
	ReferenceAdvisory = "advisory"
)

type Identifier struct {
	Type  string
	Value string
}

// PackageRange describes one affected package and its vulnerable version range.
type PackageRange struct {
	Ecosystem              Ecosystem
	PackageName            string
	VulnerableVersionRange string
	FirstPatchedVersion    string
}

// Record is a security advisory as consumed by the Markdown formatter.
// It is read-only after mapping; absent upstream fields map to missing keys
// or empty sequences, never to errors.
type Record struct {
	GhsaID                string
	Identifiers           map[string]Identifier
	AffectedPackageRanges []PackageRange
	Summary               string
	References            map[string][]string
	HTMLURL               string
	Severity              Severity
}

// CVE returns the advisory's CVE identifier, or "N/A" when the
// identifiers mapping carries no CVE entry.
func (r Record) CVE() string {
	if id, ok := r.Identifiers["CVE"]; ok && id.Value != "" {
		return id.Value
	}
	return placeholder
}

// PackageName returns the package name of the first affected range,
// or "N/A" when no range is known.
func (r Record) PackageName() string {
	if len(r.AffectedPackageRanges) == 0 {
		return placeholder
	}
	return r.AffectedPackageRanges[0].PackageName
}

// POCs returns the proof-of-concept reference URLs, possibly empty.
func (r Record) POCs() []string {
	return r.References[ReferencePOC]
}

type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var (
	severityNames = []string{
		"unknown",
		"low",
		"medium",
		"high",
		"critical",
	}
	severityColor = []func(a ...interface{}) string{
		color.New(color.FgCyan).SprintFunc(),
		color.New(color.FgBlue).SprintFunc(),
		color.New(color.FgYellow).SprintFunc(),
		color.New(color.FgHiRed).SprintFunc(),
		color.New(color.FgRed).SprintFunc(),
	}
)

func NewSeverity(severity string) (Severity, error) {
	for i, name := range severityNames {
		if strings.EqualFold(severity, name) {
			return Severity(i), nil
		}
	}
	// GraphQL-era advisories say "moderate" where REST says "medium".
	if strings.EqualFold(severity, "moderate") {
		return SeverityMedium, nil
	}
	return SeverityUnknown, xerrors.Errorf("unknown severity: %s", severity)
}

func (s Severity) String() string {
	return severityNames[s]
}

// Colorize returns the severity name colored for terminal diagnostics.
func (s Severity) Colorize() string {
	return severityColor[s](severityNames[s])
}

// Ecosystem is a package ecosystem identifier (stable slug) as accepted
// by the advisory listing endpoint.
type Ecosystem string

const (
	Actions  Ecosystem = "actions"
	Composer Ecosystem = "composer"
	Erlang   Ecosystem = "erlang"
	Go       Ecosystem = "go"
	Maven    Ecosystem = "maven"
	Npm      Ecosystem = "npm"
	NuGet    Ecosystem = "nuget"
	Other    Ecosystem = "other"
	Pip      Ecosystem = "pip"
	Pub      Ecosystem = "pub"
	RubyGems Ecosystem = "rubygems"
	Rust     Ecosystem = "rust"
	Swift    Ecosystem = "swift"
)

var ecosystems = []Ecosystem{
	Actions, Composer, Erlang, Go, Maven, Npm, NuGet,
	Other, Pip, Pub, RubyGems, Rust, Swift,
}

// String returns the string representation of the ecosystem
func (e Ecosystem) String() string {
	return string(e)
}

// Validate reports whether the ecosystem is one the listing endpoint
// accepts. The empty ecosystem is valid and means "unfiltered".
func (e Ecosystem) Validate() error {
	if e == "" {
		return nil
	}
	for _, known := range ecosystems {
		if e == known {
			return nil
		}
	}
	return xerrors.Errorf("unknown ecosystem: %s", e)
}
