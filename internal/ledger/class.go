// Package ledger holds the domain vocabulary of the wealth store:
// asset classes, money-in-cents parsing, CSV ingest, and the importer
// that writes batches through storage.
package ledger

import (
	"fmt"
	"strings"
)

// AssetClass partitions tracked value. Liability rows hold magnitudes;
// the sign convention (subtract from net) is applied by analytics.
type AssetClass string

const (
	ClassCash       AssetClass = "cash"
	ClassRealEstate AssetClass = "real_estate"
	ClassInvestment AssetClass = "investment"
	ClassLiability  AssetClass = "liability"
)

// Classes lists every asset class in presentation order.
func Classes() []AssetClass {
	return []AssetClass{ClassCash, ClassRealEstate, ClassInvestment, ClassLiability}
}

func (c AssetClass) String() string { return string(c) }

// Label is the display name shown in charts and tables.
func (c AssetClass) Label() string {
	switch c {
	case ClassCash:
		return "Cash"
	case ClassRealEstate:
		return "Real estate"
	case ClassInvestment:
		return "Investment"
	case ClassLiability:
		return "Liability"
	default:
		return string(c)
	}
}

var classAliases = map[string]AssetClass{
	"cash":        ClassCash,
	"savings":     ClassCash,
	"deposit":     ClassCash,
	"realestate":  ClassRealEstate,
	"property":    ClassRealEstate,
	"home":        ClassRealEstate,
	"investment":  ClassInvestment,
	"investments": ClassInvestment,
	"equity":      ClassInvestment,
	"stocks":      ClassInvestment,
	"shares":      ClassInvestment,
	"super":       ClassInvestment,
	"liability":   ClassLiability,
	"liabilities": ClassLiability,
	"debt":        ClassLiability,
	"loan":        ClassLiability,
	"mortgage":    ClassLiability,
}

// ParseAssetClass resolves user- and file-supplied class names. Case,
// surrounding space, and inner space/hyphen/underscore runs are all
// ignored, so "Real Estate", "real-estate", and "real_estate" agree.
func ParseAssetClass(s string) (AssetClass, error) {
	folded := strings.ToLower(strings.TrimSpace(s))
	for _, cut := range []string{" ", "-", "_"} {
		folded = strings.ReplaceAll(folded, cut, "")
	}
	if folded == "" {
		return "", fmt.Errorf("asset class is empty")
	}
	if class, ok := classAliases[folded]; ok {
		return class, nil
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}
