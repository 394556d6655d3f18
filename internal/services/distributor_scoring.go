package services

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"medsupply-service/internal/models"
)

// ScoringWeights blends the factors of a distributor score. The four factor
// weights are normalized by their sum, so they need not add up to one.
type ScoringWeights struct {
	Price               float64 `json:"price"`
	Inventory           float64 `json:"inventory"`
	Proximity           float64 `json:"proximity"`
	Rating              float64 `json:"rating"`
	SpecializationBonus float64 `json:"specializationBonus"`
}

// DefaultScoringWeights favors price, then the ability to fill the order
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Price:               0.40,
		Inventory:           0.30,
		Proximity:           0.15,
		Rating:              0.15,
		SpecializationBonus: 5,
	}
}

// ParseScoringWeights reads "price,inventory,proximity,rating" with an
// optional fifth specialization bonus. Empty input yields the defaults.
func ParseScoringWeights(raw string) (ScoringWeights, error) {
	weights := DefaultScoringWeights()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return weights, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return weights, fmt.Errorf("expected 4 or 5 comma separated weights, got %d", len(parts))
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return weights, fmt.Errorf("invalid weight %q: %w", part, err)
		}
		if v < 0 {
			return weights, fmt.Errorf("weight %q must not be negative", part)
		}
		values[i] = v
	}

	weights.Price, weights.Inventory, weights.Proximity, weights.Rating = values[0], values[1], values[2], values[3]
	if len(values) == 5 {
		weights.SpecializationBonus = values[4]
	}
	if weights.sum() == 0 {
		return DefaultScoringWeights(), fmt.Errorf("at least one factor weight must be positive")
	}
	return weights, nil
}

func (w ScoringWeights) sum() float64 {
	return w.Price + w.Inventory + w.Proximity + w.Rating
}

// ScoreCandidate rates how well a distributor can fill a low-stock item, on
// a 0-100 scale. Price and proximity are relative to the best eligible peer.
// A distributor that is unavailable or does not stock the drug scores 0.
func ScoreCandidate(item models.LowStockItem, distributor models.Distributor, peers []models.Distributor, weights ScoringWeights) int {
	if !eligible(distributor, item.DrugName) {
		return 0
	}
	total := weights.sum()
	if total <= 0 {
		weights = DefaultScoringWeights()
		total = weights.sum()
	}

	price, _ := distributor.UnitPrice(item.DrugName)
	minPrice, minDistance := price, distributor.Distance
	for _, peer := range peers {
		if !eligible(peer, item.DrugName) {
			continue
		}
		if p, _ := peer.UnitPrice(item.DrugName); p < minPrice {
			minPrice = p
		}
		if peer.Distance < minDistance {
			minDistance = peer.Distance
		}
	}

	priceFactor := 1.0
	if price > 0 {
		priceFactor = minPrice / price
	}

	inventoryFactor := 1.0
	if item.RecommendedOrder > 0 {
		inventoryFactor = math.Min(1, float64(distributor.Stock(item.DrugName))/float64(item.RecommendedOrder))
	}

	proximityFactor := 1.0
	if distributor.Distance > 0 {
		proximityFactor = minDistance / distributor.Distance
	}

	ratingFactor := clamp(distributor.Rating/5, 0, 1)

	score := 100 * (weights.Price*priceFactor +
		weights.Inventory*inventoryFactor +
		weights.Proximity*proximityFactor +
		weights.Rating*ratingFactor) / total

	if specializes(distributor, item.DrugName) {
		score += weights.SpecializationBonus
	}

	return int(math.Round(clamp(score, 0, 100)))
}

func eligible(d models.Distributor, drugName string) bool {
	return d.Available && d.Stocks(drugName)
}

// specializes reports whether a significant word of the drug name appears in
// the distributor's specialization or advantages
func specializes(d models.Distributor, drugName string) bool {
	profile := strings.ToLower(d.Specialization + " " + strings.Join(d.Advantages, " "))
	for _, word := range strings.Fields(strings.ToLower(drugName)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return (r < 'a' || r > 'z')
		})
		if len(word) >= 4 && strings.Contains(profile, word) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// BuildCandidates scores every eligible distributor in catalog order and
// marks the best one
func BuildCandidates(item models.LowStockItem, catalog []models.Distributor, weights ScoringWeights) []models.DistributorCandidate {
	candidates := make([]models.DistributorCandidate, 0, len(catalog))
	for _, distributor := range catalog {
		if !eligible(distributor, item.DrugName) {
			continue
		}
		candidates = append(candidates, models.DistributorCandidate{
			DistributorID: distributor.ID,
			Score:         ScoreCandidate(item, distributor, catalog, weights),
		})
	}
	return MarkOptimized(candidates)
}

// MarkOptimized returns a copy with exactly one candidate flagged as the
// optimized choice: the highest score, the earliest on ties. An empty input
// yields an empty result.
func MarkOptimized(candidates []models.DistributorCandidate) []models.DistributorCandidate {
	marked := make([]models.DistributorCandidate, len(candidates))
	best := -1
	for i, c := range candidates {
		c.Optimized = false
		marked[i] = c
		if best < 0 || c.Score > marked[best].Score {
			best = i
		}
	}
	if best >= 0 {
		marked[best].Optimized = true
	}
	return marked
}

// RankCandidates orders candidate views best first. Equal scores keep
// catalog order.
func RankCandidates(views []models.CandidateView) []models.CandidateView {
	ranked := slices.Clone(views)
	if ranked == nil {
		ranked = []models.CandidateView{}
	}
	slices.SortStableFunc(ranked, func(a, b models.CandidateView) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// TotalCost is the unit price of the drug times the quantity. ok is false
// when the distributor does not price the drug.
func TotalCost(distributor models.Distributor, drugName string, quantity int) (decimal.Decimal, bool) {
	price, ok := distributor.UnitPrice(drugName)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))), true
}

// CandidateViews joins stored candidates with their distributors and prices
// the recommended order. Candidates whose distributor left the catalog are
// dropped; if the optimized one was among them, the best remaining candidate
// takes its place.
func CandidateViews(item models.LowStockItem, catalog map[string]models.Distributor) []models.CandidateView {
	views := make([]models.CandidateView, 0, len(item.Candidates))
	kept := make([]models.DistributorCandidate, 0, len(item.Candidates))
	for _, c := range item.Candidates {
		distributor, ok := catalog[c.DistributorID.String()]
		if !ok {
			continue
		}
		kept = append(kept, c)
		view := models.CandidateView{
			Distributor: distributor,
			Score:       c.Score,
			Optimized:   c.Optimized,
		}
		if price, ok := distributor.UnitPrice(item.DrugName); ok {
			cost, _ := TotalCost(distributor, item.DrugName, item.RecommendedOrder)
			view.UnitPrice = decimal.NewFromFloat(price).StringFixed(2)
			view.TotalCost = cost.StringFixed(2)
			view.Stocked = true
		}
		views = append(views, view)
	}

	if !slices.ContainsFunc(kept, func(c models.DistributorCandidate) bool { return c.Optimized }) {
		for i, c := range MarkOptimized(kept) {
			views[i].Optimized = c.Optimized
		}
	}
	return RankCandidates(views)
}
