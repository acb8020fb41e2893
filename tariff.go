package octopusenergy

import (
	"fmt"
	"regexp"
	"strings"
)

// Tariff codes look like E-1R-SUPER-GREEN-24M-21-07-30-A: an energy marker,
// a rate class, the product code and a region letter. Older gas codes omit
// the energy/rate prefix.
var tariffCodePattern = regexp.MustCompile(`^((?P<energy>[A-Z])-(?P<rate>[0-9A-Z]+)-)?(?P<product_code>[A-Z0-9-]+)-(?P<region>[A-Z])$`)

// TariffParts is the decomposition of a tariff code.
type TariffParts struct {
	Energy      string `json:"energy"`
	Rate        string `json:"rate"`
	ProductCode string `json:"product_code"`
	Region      string `json:"region"`
}

// ParseTariffCode splits a tariff code into its parts.
func ParseTariffCode(tariffCode string) (*TariffParts, error) {
	match := tariffCodePattern.FindStringSubmatch(tariffCode)
	if match == nil {
		return nil, fmt.Errorf("invalid tariff code: %q", tariffCode)
	}

	parts := &TariffParts{}
	for i, name := range tariffCodePattern.SubexpNames() {
		switch name {
		case "energy":
			parts.Energy = match[i]
		case "rate":
			parts.Rate = match[i]
		case "product_code":
			parts.ProductCode = match[i]
		case "region":
			parts.Region = match[i]
		}
	}

	return parts, nil
}

// IsStandardRate reports whether the tariff has a single unit rate rather
// than separate day/night rates.
func (p *TariffParts) IsStandardRate() bool {
	return strings.HasPrefix(p.Rate, "1")
}
