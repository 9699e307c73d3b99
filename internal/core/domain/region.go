package domain

import "strings"

// Region identifies a Feishu/Lark deployment region.
// Each region has exactly one open-API base URL and one OAuth scope.
type Region string

// Known regions.
const (
	// RegionFeishu is the China deployment (feishu.cn).
	RegionFeishu Region = "feishu"

	// RegionLarkSuite is the international deployment (larksuite.com).
	// The Singapore deployment (larkoffice.com) rides the same API.
	RegionLarkSuite Region = "larksuite"
)

// regionDomains maps known domain suffixes to regions.
// Order matters: first containment match wins.
var regionDomains = []struct {
	suffix string
	region Region
}{
	{"feishu.cn", RegionFeishu},
	{"larksuite.com", RegionLarkSuite},
	{"larkoffice.com", RegionLarkSuite},
}

// ResolveRegion maps a document hostname or domain to its region.
// Unmatched domains default to RegionFeishu. The mapping is total:
// it never fails, whatever the input.
func ResolveRegion(hostname string) Region {
	for _, entry := range regionDomains {
		if strings.Contains(hostname, entry.suffix) {
			return entry.region
		}
	}
	return RegionFeishu
}

// APIBase returns the open-API base URL for the region.
func (r Region) APIBase() string {
	if r == RegionLarkSuite {
		return "https://open.larksuite.com"
	}
	return "https://open.feishu.cn"
}

// AuthScope returns the OAuth scope requested during user authorization.
func (r Region) AuthScope() string {
	return "docx:document:readonly"
}

// DisplayName returns a human-readable region name for CLI output.
func (r Region) DisplayName() string {
	if r == RegionLarkSuite {
		return "International (larksuite.com / larkoffice.com)"
	}
	return "China (feishu.cn)"
}

// Valid reports whether the region is one of the known regions.
func (r Region) Valid() bool {
	return r == RegionFeishu || r == RegionLarkSuite
}
