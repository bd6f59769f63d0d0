package service

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/smartkitchen/backend/internal/models"
	"gorm.io/gorm"
)

// DemandItem is the summed ingredient requirement across all planned meals
// for one (ingredient, unit) pair. Requirements in different units are kept
// apart here; they only meet pantry stock through the conversion oracle.
type DemandItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ShoppingListItem is one row of the reconciled shopping list.
type ShoppingListItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Reason   string  `json:"reason"`
}

// Shortage reasons attached to shopping list entries.
const (
	ReasonPlannedMeals = "Planned Meals"
	ReasonLowStock     = "Low Stock"
	reasonBufferSuffix = " + Safety Buffer"
)

// ShoppingService reconciles planned-meal ingredient demand against pantry
// stock and low-stock thresholds.
type ShoppingService struct {
	db        *gorm.DB
	converter UnitConverter
}

// NewShoppingService creates a new ShoppingService instance
func NewShoppingService(db *gorm.DB, converter UnitConverter) *ShoppingService {
	return &ShoppingService{db: db, converter: converter}
}

// AggregateDemand sums required quantities per (ingredient name, unit)
// across every scheduled meal. Each plan row contributes its dish's full
// ingredient list once; repetition comes from multiple plan rows. The
// result is sorted by name then unit so downstream output is deterministic.
func (s *ShoppingService) AggregateDemand(ctx context.Context) ([]DemandItem, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).
		Preload("Dish.Ingredients.Ingredient").
		Find(&plans).Error; err != nil {
		return nil, err
	}

	type demandKey struct {
		name string
		unit string
	}

	totals := make(map[demandKey]*DemandItem)
	for _, plan := range plans {
		for _, di := range plan.Dish.Ingredients {
			key := demandKey{
				name: di.Ingredient.Name,
				unit: strings.ToLower(di.Unit),
			}
			if item, ok := totals[key]; ok {
				item.Quantity += di.Quantity
			} else {
				totals[key] = &DemandItem{
					Name:     di.Ingredient.Name,
					Category: di.Ingredient.Category,
					Quantity: di.Quantity,
					Unit:     di.Unit,
				}
			}
		}
	}

	demand := make([]DemandItem, 0, len(totals))
	for _, item := range totals {
		demand = append(demand, *item)
	}
	sort.Slice(demand, func(i, j int) bool {
		if demand[i].Name != demand[j].Name {
			return demand[i].Name < demand[j].Name
		}
		return strings.ToLower(demand[i].Unit) < strings.ToLower(demand[j].Unit)
	})

	return demand, nil
}

// BuildShoppingList merges aggregated demand with the pantry snapshot and
// low-stock buffer requirements into one de-duplicated, reason-annotated
// list. It is a read-only projection; no state is mutated.
func (s *ShoppingService) BuildShoppingList(ctx context.Context) ([]ShoppingListItem, error) {
	demand, err := s.AggregateDemand(ctx)
	if err != nil {
		return nil, err
	}

	var pantry []models.PantryItem
	if err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Joins("JOIN ingredients ON ingredients.id = pantry_items.ingredient_id").
		Order("ingredients.name").
		Find(&pantry).Error; err != nil {
		return nil, err
	}

	stock := make(map[string]*models.PantryItem, len(pantry))
	for i := range pantry {
		stock[pantry[i].Ingredient.Name] = &pantry[i]
	}

	entries := make(map[string]*ShoppingListItem)
	var order []string

	// Pass 1: demand gaps. The recipe's unit is authoritative, so on-hand
	// stock in a different unit is converted into the demand unit.
	for _, d := range demand {
		var onHand float64
		if item, ok := stock[d.Name]; ok {
			if strings.EqualFold(item.Unit, d.Unit) {
				onHand = item.Quantity
			} else {
				conv := s.converter.Convert(ctx, d.Name, item.Quantity, item.Unit, d.Unit)
				if !conv.Converted {
					log.Printf("[ShoppingService] Unconverted stock for %s: %g %s counted against %s demand",
						d.Name, item.Quantity, item.Unit, d.Unit)
				}
				onHand = conv.Quantity
			}
		}

		gap := d.Quantity - onHand
		if gap <= 0 {
			continue
		}

		if entry, ok := entries[d.Name]; ok {
			// A second unit for the same name survived aggregation; the
			// final list is keyed by name, so fold into the first entry.
			entry.Quantity += gap
			continue
		}
		entries[d.Name] = &ShoppingListItem{
			Name:     d.Name,
			Quantity: gap,
			Unit:     d.Unit,
			Category: d.Category,
			Reason:   ReasonPlannedMeals,
		}
		order = append(order, d.Name)
	}

	// Pass 2: low-stock buffer. The shortfall is added in the pantry's own
	// unit without re-conversion, matching the established list behavior.
	for i := range pantry {
		item := &pantry[i]
		if item.Quantity >= item.MinThreshold {
			continue
		}
		shortfall := item.MinThreshold - item.Quantity
		name := item.Ingredient.Name

		if entry, ok := entries[name]; ok {
			entry.Quantity += shortfall
			if !strings.HasSuffix(entry.Reason, reasonBufferSuffix) {
				entry.Reason += reasonBufferSuffix
			}
			continue
		}
		entries[name] = &ShoppingListItem{
			Name:     name,
			Quantity: shortfall,
			Unit:     item.Unit,
			Category: item.Ingredient.Category,
			Reason:   ReasonLowStock,
		}
		order = append(order, name)
	}

	// Quantities are rounded only at emission so merged entries do not
	// accumulate rounding error.
	list := make([]ShoppingListItem, 0, len(order))
	for _, name := range order {
		entry := *entries[name]
		entry.Quantity = round2(entry.Quantity)
		list = append(list, entry)
	}

	return list, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
