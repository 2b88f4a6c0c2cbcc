package advisory

import (
	"strings"

	"github.com/google/go-github/v62/github"
)

// FromGlobalSecurityAdvisory maps the client library's advisory type into a
// Record. The mapping is total: nil or missing upstream fields become absent
// identifier keys, empty range sequences and empty reference categories.
func FromGlobalSecurityAdvisory(src *github.GlobalSecurityAdvisory) Record {
	rec := Record{
		GhsaID:  src.GetGHSAID(),
		Summary: src.GetSummary(),
		HTMLURL: src.GetHTMLURL(),
	}
	rec.Severity, _ = NewSeverity(src.GetSeverity())

	if len(src.Identifiers) > 0 {
		rec.Identifiers = make(map[string]Identifier, len(src.Identifiers))
		for _, id := range src.Identifiers {
			if id.GetType() == "" {
				continue
			}
			rec.Identifiers[id.GetType()] = Identifier{
				Type:  id.GetType(),
				Value: id.GetValue(),
			}
		}
	}

	for _, vuln := range src.Vulnerabilities {
		rec.AffectedPackageRanges = append(rec.AffectedPackageRanges, PackageRange{
			Ecosystem:              Ecosystem(strings.ToLower(vuln.GetPackage().GetEcosystem())),
			PackageName:            vuln.GetPackage().GetName(),
			VulnerableVersionRange: vuln.GetVulnerableVersionRange(),
			FirstPatchedVersion:    vuln.GetFirstPatchedVersion(),
		})
	}

	if len(src.References) > 0 {
		rec.References = make(map[string][]string)
		for _, url := range src.References {
			category := categorizeReference(url)
			rec.References[category] = append(rec.References[category], url)
		}
	}

	return rec
}

// categorizeReference buckets a reference URL. The listing endpoint returns
// references as a flat URL list, so proof-of-concept links are recognized by
// the usual markers in the URL itself.
func categorizeReference(url string) string {
	u := strings.ToLower(url)
	for _, marker := range []string{"poc", "proof-of-concept", "proof_of_concept", "exploit"} {
		if strings.Contains(u, marker) {
			return ReferencePOC
		}
	}
	return ReferenceAdvisory
}
