package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

// Widmark constants.
const (
	lbsToKg        = 0.453592
	femaleRatio    = 0.55
	maleRatio      = 0.68
	ethanolOz      = 0.6 // fl oz of ethanol in one standard drink
	eliminationPHr = 0.015
)

// BACEstimate is EstimateBAC's result.
type BACEstimate struct {
	BAC            float64
	StandardDrinks float64
	Hours          float64
	Drinks         int
}

// CalculateBAC estimates blood alcohol content with the Widmark formula.
// The result is clamped at zero and rounded to three decimals. A
// non-positive or non-finite input gives zero.
func CalculateBAC(gender string, weightLbs, drinks, hours float64) float64 {
	if !Finite(weightLbs, drinks, hours) {
		return 0
	}
	if weightLbs <= 0 || drinks <= 0 {
		return 0
	}
	if hours < 0 {
		hours = 0
	}

	ratio := maleRatio
	if strings.EqualFold(strings.TrimSpace(gender), "female") {
		ratio = femaleRatio
	}

	kg := weightLbs * lbsToKg
	bac := drinks*ethanolOz*100/(kg*ratio) - eliminationPHr*hours
	if bac < 0 || !Finite(bac) {
		return 0
	}
	return math.Round(bac*1000) / 1000
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// EstimateBAC feeds the viewer's drinks for the current UTC day into
// CalculateBAC, counting hours from the first of them.
func (s *SafetyService) EstimateBAC(ctx context.Context, viewer domain.Identity, gender string, weightLbs float64, now time.Time) (BACEstimate, error) {
	from, to := utcDay(now)
	drinks, err := s.Store.Drinks().ListDrinks(ctx, viewer.UserID, from, to)
	if err != nil {
		return BACEstimate{}, err
	}
	if len(drinks) == 0 {
		return BACEstimate{}, nil
	}

	var standard float64
	first := drinks[0].ConsumedAt
	for _, d := range drinks {
		standard += d.StandardDrinks()
		if d.ConsumedAt.Before(first) {
			first = d.ConsumedAt
		}
	}

	hours := now.Sub(first).Hours()
	if hours < 0 {
		hours = 0
	}

	return BACEstimate{
		BAC:            CalculateBAC(gender, weightLbs, standard, hours),
		StandardDrinks: math.Round(standard*100) / 100,
		Hours:          math.Round(hours*100) / 100,
		Drinks:         len(drinks),
	}, nil
}
