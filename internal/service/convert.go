package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conversion is the result of a unit conversion attempt. Converted is false
// when the oracle could not help and Quantity is the passthrough input.
type Conversion struct {
	Quantity  float64
	Converted bool
}

// UnitConverter converts an ingredient quantity between units. It never
// returns an error: a failed conversion degrades to a passthrough result so
// one bad conversion cannot abort a whole reconciliation or completion.
type UnitConverter interface {
	Convert(ctx context.Context, ingredient string, quantity float64, fromUnit, toUnit string) Conversion
}

// AIUnitConverter converts units via the AI oracle, memoizing results in
// Redis. The oracle is best-effort and non-deterministic, so successful
// answers are cached to keep repeated reconciliations stable and cheap.
type AIUnitConverter struct {
	ai      *AIService
	redis   *redis.Client
	timeout time.Duration
}

// NewAIUnitConverter creates a converter backed by the given AI service.
// The Redis client is optional.
func NewAIUnitConverter(ai *AIService, redisClient *redis.Client) *AIUnitConverter {
	return &AIUnitConverter{
		ai:      ai,
		redis:   redisClient,
		timeout: 10 * time.Second,
	}
}

// Convert converts quantity from fromUnit to toUnit for the named
// ingredient. Identical units (case-insensitive) short-circuit. On any
// oracle failure the original quantity is returned with Converted=false.
func (c *AIUnitConverter) Convert(ctx context.Context, ingredient string, quantity float64, fromUnit, toUnit string) Conversion {
	if strings.EqualFold(strings.TrimSpace(fromUnit), strings.TrimSpace(toUnit)) {
		return Conversion{Quantity: quantity, Converted: true}
	}
	if c.ai == nil {
		return Conversion{Quantity: quantity, Converted: false}
	}

	cacheKey := fmt.Sprintf("convert:%s:%g:%s:%s",
		strings.ToLower(ingredient), quantity,
		strings.ToLower(fromUnit), strings.ToLower(toUnit))

	if c.redis != nil {
		if val, err := c.redis.Get(ctx, cacheKey).Result(); err == nil {
			if cached, err := strconv.ParseFloat(val, 64); err == nil {
				return Conversion{Quantity: cached, Converted: true}
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	converted, err := c.ai.ConvertUnit(ctx, ingredient, quantity, fromUnit, toUnit)
	if err != nil || math.IsNaN(converted) || math.IsInf(converted, 0) {
		log.Printf("[UnitConverter] Conversion failed for %g %s of %s to %s, using passthrough: %v",
			quantity, fromUnit, ingredient, toUnit, err)
		return Conversion{Quantity: quantity, Converted: false}
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, cacheKey, strconv.FormatFloat(converted, 'f', -1, 64), 24*time.Hour).Err(); err != nil {
			log.Printf("[UnitConverter] Failed to cache conversion: %v", err)
		}
	}

	return Conversion{Quantity: converted, Converted: true}
}
