// Package normalize flattens raw catalog entries into canonical rows, one per
// sellable variant, reconciling the inconsistent price representations the
// sources emit.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
)

// Product maps one raw catalog entry into zero or more canonical rows. A
// record with zero variants and no top-level price yields zero rows; a record
// that does not decode is skipped with a warning, never aborting the run.
func Product(raw json.RawMessage) []domain.ProductVariant {
	var p RawProduct
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Warnf("Skipping malformed product record: %v", err)
		return nil
	}

	category, subcategory := splitCategories(p.Categories)

	if len(p.Items) == 0 {
		// Some sources flatten single-variant products to top-level prices.
		if v, ok := topLevelVariant(&p, category, subcategory); ok {
			return []domain.ProductVariant{v}
		}
		return nil
	}

	variants := make([]domain.ProductVariant, 0, len(p.Items))
	for _, item := range p.Items {
		offer, ok := bestOffer(item.Sellers)
		if !ok {
			log.Debugf("Variant %s of %q has no seller offer, skipping", item.ItemID, p.ProductName)
			continue
		}

		list, offerPrice, ok := classifyPrices(offer)
		if !ok {
			continue
		}

		name := p.ProductName
		if item.Name != "" {
			name = item.Name
		}

		variants = append(variants, domain.ProductVariant{
			EAN:          strings.TrimSpace(item.EAN),
			RefCode:      refCode(item, p.ProductReference),
			Name:         name,
			Category:     category,
			Subcategory:  subcategory,
			Brand:        p.Brand,
			Manufacturer: p.Manufacturer,
			ListPrice:    list,
			OfferPrice:   offerPrice,
			OfferLabel:   offerLabel(offer, offerPrice != nil),
			Available:    offer.IsAvailable,
			URL:          p.Link,
		})
	}

	return variants
}

// classifyPrices resolves list/offer pricing from one seller offer. The
// higher of the two reported values is always the list price, guarding
// against swapped fields upstream; an offer at or above the list price
// collapses to list-only.
func classifyPrices(offer RawOffer) (list decimal.Decimal, offerPrice *decimal.Decimal, ok bool) {
	listVal, haveList := offer.ListPrice.Get()
	if !haveList {
		listVal, haveList = offer.PriceWithoutDiscount.Get()
	}
	current, haveCurrent := offer.Price.Get()

	switch {
	case haveList && haveCurrent:
		hi, lo := listVal, current
		if lo.GreaterThan(hi) {
			hi, lo = lo, hi
		}
		if lo.LessThan(hi) {
			return hi, &lo, true
		}
		return hi, nil, true
	case haveCurrent:
		return current, nil, true
	case haveList:
		return listVal, nil, true
	default:
		return decimal.Decimal{}, nil, false
	}
}

// bestOffer picks the first seller carrying any price; sources list the
// default seller first.
func bestOffer(sellers []RawSeller) (RawOffer, bool) {
	for _, s := range sellers {
		if _, ok := s.Offer.Price.Get(); ok {
			return s.Offer, true
		}
		if _, ok := s.Offer.ListPrice.Get(); ok {
			return s.Offer, true
		}
	}
	return RawOffer{}, false
}

func offerLabel(offer RawOffer, hasOffer bool) string {
	if !hasOffer {
		return ""
	}
	for _, h := range offer.DiscountHighlights {
		if h.Name != "" {
			return h.Name
		}
	}
	for _, t := range offer.Teasers {
		if t.Name != "" {
			return t.Name
		}
	}
	return ""
}

func refCode(item RawItem, productReference string) string {
	for _, ref := range item.ReferenceID {
		if ref.Key == "RefId" && strings.TrimSpace(ref.Value) != "" {
			return strings.TrimSpace(ref.Value)
		}
	}
	return strings.TrimSpace(productReference)
}

// splitCategories derives category and subcategory labels from the first
// category path, formatted like "/Almacén/Aceites/".
func splitCategories(categories []string) (category, subcategory string) {
	for _, c := range categories {
		parts := make([]string, 0, 4)
		for _, s := range strings.Split(c, "/") {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			continue
		}
		category = parts[0]
		if len(parts) > 1 {
			subcategory = strings.Join(parts[1:], " > ")
		}
		return category, subcategory
	}
	return "", ""
}

func topLevelVariant(p *RawProduct, category, subcategory string) (domain.ProductVariant, bool) {
	if p.Price == nil && p.ListPrice == nil {
		return domain.ProductVariant{}, false
	}

	var offer RawOffer
	if p.Price != nil {
		offer.Price = *p.Price
	}
	if p.ListPrice != nil {
		offer.ListPrice = *p.ListPrice
	}
	offer.IsAvailable = true

	list, offerPrice, ok := classifyPrices(offer)
	if !ok {
		return domain.ProductVariant{}, false
	}

	return domain.ProductVariant{
		RefCode:      strings.TrimSpace(p.ProductReference),
		Name:         p.ProductName,
		Category:     category,
		Subcategory:  subcategory,
		Brand:        p.Brand,
		Manufacturer: p.Manufacturer,
		ListPrice:    list,
		OfferPrice:   offerPrice,
		Available:    true,
		URL:          p.Link,
	}, true
}
