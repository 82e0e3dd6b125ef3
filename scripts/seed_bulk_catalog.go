// Package main implements a standalone bulk seed script that fills the
// record store with a synthetic marketplace catalog at dashboard-testing
// scale: thousands of products with reviews whose rating aggregates are
// consistent, plus the reviewer profiles behind them.
//
// Run: go run scripts/seed_bulk_catalog.go
//
// The script writes records directly, bypassing the admin API, and is
// idempotent: seeded keys carry a recognizable "-Nseed" / "seed-user"
// marker and every run removes the previous run's records first.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	totalProducts        = 5000
	maxReviewsPerProduct = 6
	batchSize            = 500
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ---------------------------------------------------------------------------
// Deterministic record keys
// ---------------------------------------------------------------------------

// seedKey produces a stable push-id-shaped key from a kind marker and an
// integer index so that re-runs always touch the same records. Real push
// ids never contain "seed", which keeps generated data easy to spot.
func seedKey(kind string, index int) string {
	return fmt.Sprintf("-Nseed%s%07d", kind, index)
}

// ---------------------------------------------------------------------------
// Seed users
// ---------------------------------------------------------------------------

type seedUser struct {
	ID        string
	FirstName string
	LastName  string
	Location  string
}

var seedUsers = []seedUser{
	{"seed-user-01", "Sokha", "Chan", "Phnom Penh"},
	{"seed-user-02", "Dara", "Kim", "Kampong Chhnang"},
	{"seed-user-03", "Vanna", "Sok", "Siem Reap"},
	{"seed-user-04", "Bopha", "Ly", "Battambang"},
	{"seed-user-05", "Rithy", "Heng", "Kampot"},
	{"seed-user-06", "Srey", "Pich", "Takeo"},
	{"seed-user-07", "Makara", "Chea", "Kratie"},
	{"seed-user-08", "Phala", "Nuon", "Phnom Penh"},
	{"seed-user-09", "Kunthea", "Mao", "Siem Reap"},
	{"seed-user-10", "Samnang", "Keo", "Kampong Cham"},
	{"seed-user-11", "Chenda", "Sim", "Sihanoukville"},
	{"seed-user-12", "Visal", "Un", "Mondulkiri"},
}

// ---------------------------------------------------------------------------
// Product name generation data
// ---------------------------------------------------------------------------

// categoryDef groups product types under a category with a share of the
// total catalog (weights sum to 1.0).
type categoryDef struct {
	Name   string
	Weight float64
	Types  []string
	Units  []string
}

var categories = []categoryDef{
	{
		Name:   "handicraft",
		Weight: 0.35,
		Types: []string{
			"Silk Scarf", "Rattan Basket", "Clay Teapot", "Bronze Bell",
			"Palm-leaf Box", "Stone Carving", "Lacquer Bowl", "Shadow Puppet",
		},
		Units: []string{"piece"},
	},
	{
		Name:   "home-living",
		Weight: 0.25,
		Types: []string{
			"Floor Mat", "Cushion Cover", "Water Jar", "Bamboo Tray",
			"Hammock", "Incense Set", "Oil Lamp", "Storage Chest",
		},
		Units: []string{"piece", "set"},
	},
	{
		Name:   "fashion",
		Weight: 0.25,
		Types: []string{
			"Krama Scarf", "Sampot Skirt", "Cotton Shirt", "Leather Sandals",
			"Shoulder Bag", "Silver Bracelet", "Straw Hat", "Sarong",
		},
		Units: []string{"piece", "pair"},
	},
	{
		Name:   "electronics",
		Weight: 0.15,
		Types: []string{
			"Solar Lantern", "Phone Charger", "Pocket Radio", "LED Torch",
			"Power Bank", "Rice Cooker", "Desk Fan", "Bluetooth Speaker",
		},
		Units: []string{"piece"},
	},
}

var prefixes = []string{
	"Handwoven", "Hand-carved", "Traditional", "Artisan", "Village-made",
	"Natural", "Classic", "Compact", "Everyday", "Premium",
}

var colorways = []string{
	"Indigo", "Golden", "Crimson", "Ivory", "Jade",
	"Charcoal", "Amber", "Teal", "Ochre", "Slate",
}

var origins = []string{
	"Kampong Chhnang", "Siem Reap", "Battambang", "Takeo",
	"Kampot", "Kratie", "Koh Dach", "Prey Veng",
}

var descriptionTemplates = []string{
	"%s made by artisans in %s. Each piece is finished by hand, so small variations are part of the charm.",
	"A practical %s sourced from family workshops around %s. Durable materials chosen for daily use.",
	"This %s comes from %s and supports local producers. Ships carefully packed from the workshop.",
	"Classic %s in the style of %s. A dependable favourite among returning customers.",
}

// Review comment pools by sentiment.
var positiveComments = []string{
	"Arrived quickly and well packed",
	"Quality matches the photos exactly",
	"Even better in person, very happy",
	"Great value for the price",
	"Beautiful work, ordering another",
}

var neutralComments = []string{
	"Does the job, nothing special",
	"Colour slightly different from the listing",
	"Decent quality but shipping took a while",
}

var negativeComments = []string{
	"Smaller than I expected",
	"Arrived with a scratch on one side",
	"Not as sturdy as hoped",
}

// ---------------------------------------------------------------------------
// Record shapes, mirroring the dashboard's stored documents
// ---------------------------------------------------------------------------

type productRecord struct {
	ID          string  `json:"id"`
	ItemID      string  `json:"itemId"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UserID      string  `json:"userId"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type reviewRecord struct {
	ID        string `json:"id"`
	ItemID    string `json:"itemId"`
	UserID    string `json:"userId"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	CreatedAt int64  `json:"createdAt"`
}

type userRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Location  string `json:"location"`
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

func pickRating(rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case r < 0.45:
		return 5
	case r < 0.75:
		return 4
	case r < 0.90:
		return 3
	case r < 0.97:
		return 2
	default:
		return 1
	}
}

func pickComment(rng *rand.Rand, rating int) string {
	switch {
	case rating >= 4:
		return positiveComments[rng.Intn(len(positiveComments))]
	case rating == 3:
		return neutralComments[rng.Intn(len(neutralComments))]
	default:
		return negativeComments[rng.Intn(len(negativeComments))]
	}
}

// aggregate mirrors the dashboard's rating arithmetic: mean of all ratings,
// rounded half away from zero to one decimal place.
func aggregate(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10, len(ratings)
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[seed-bulk] ")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// -------------------------------------------------------------------
	// 1. Connect to the record store
	// -------------------------------------------------------------------
	host := getEnv("REDIS_HOST", "localhost")
	port := getEnv("REDIS_PORT", "6379")
	namespace := getEnv("RECORD_NAMESPACE", "bay")

	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rdb := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping record store: %v", err)
	}
	log.Printf("Connected to record store at %s:%s (namespace %q).", host, port, namespace)

	key := func(path string) string {
		if namespace == "" {
			return path
		}
		return namespace + ":" + path
	}

	// -------------------------------------------------------------------
	// 2. Remove records from previous runs
	// -------------------------------------------------------------------
	log.Println("Cleaning up previous seed data (if any)...")
	patterns := []string{
		key("shoppingItems/-Nseed*"),
		key("reviews/-Nseed*"),
		key("users/seed-user-*"),
	}
	removed := 0
	for _, pattern := range patterns {
		var stale []string
		iter := rdb.Scan(ctx, 0, pattern, batchSize).Iterator()
		for iter.Next(ctx) {
			stale = append(stale, iter.Val())
			if len(stale) >= batchSize {
				if err := rdb.Del(ctx, stale...).Err(); err != nil {
					log.Printf("  WARNING: cleanup %s: %v", pattern, err)
				}
				removed += len(stale)
				stale = stale[:0]
			}
		}
		if err := iter.Err(); err != nil {
			log.Fatalf("scan %s: %v", pattern, err)
		}
		if len(stale) > 0 {
			if err := rdb.Del(ctx, stale...).Err(); err != nil {
				log.Printf("  WARNING: cleanup %s: %v", pattern, err)
			}
			removed += len(stale)
		}
	}
	log.Printf("  Removed %d stale records.", removed)

	// -------------------------------------------------------------------
	// 3. Seed reviewer profiles
	// -------------------------------------------------------------------
	log.Println("Seeding users...")
	for _, u := range seedUsers {
		email := strings.ToLower(u.FirstName + "." + u.LastName + "@example.com")
		doc, err := json.Marshal(userRecord{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     email,
			Role:      "buyer",
			Location:  u.Location,
		})
		if err != nil {
			log.Fatalf("marshal user %s: %v", u.ID, err)
		}
		if err := rdb.Set(ctx, key("users/"+u.ID), doc, 0).Err(); err != nil {
			log.Fatalf("seed user %s: %v", u.ID, err)
		}
	}
	log.Printf("  Seeded %d users.", len(seedUsers))

	// -------------------------------------------------------------------
	// 4. Generate and insert the catalog
	// -------------------------------------------------------------------
	log.Printf("Generating %d products...", totalProducts)
	rng := rand.New(rand.NewSource(42)) // deterministic seed
	now := time.Now().UTC()

	// Allocate products per category by weight; the last bucket absorbs
	// rounding remainder.
	counts := make([]int, len(categories))
	remaining := totalProducts
	for i := range categories {
		if i == len(categories)-1 {
			counts[i] = remaining
			break
		}
		counts[i] = int(float64(totalProducts) * categories[i].Weight)
		remaining -= counts[i]
	}

	pipe := rdb.Pipeline()
	pending := 0
	flush := func(stage string) {
		if pending == 0 {
			return
		}
		if _, err := pipe.Exec(ctx); err != nil {
			log.Fatalf("  FATAL: insert %s batch: %v", stage, err)
		}
		pending = 0
	}

	productCount := 0
	reviewCount := 0
	reviewIdx := 0
	for ci, cat := range categories {
		for j := 0; j < counts[ci]; j++ {
			id := seedKey("p", productCount)
			productType := cat.Types[j%len(cat.Types)]
			name := fmt.Sprintf("%s %s - %s",
				prefixes[rng.Intn(len(prefixes))],
				productType,
				colorways[rng.Intn(len(colorways))],
			)
			origin := origins[rng.Intn(len(origins))]
			description := fmt.Sprintf(
				descriptionTemplates[rng.Intn(len(descriptionTemplates))],
				productType, origin,
			)

			// Price: 1.00 - 200.99 in quarter steps, stored as a decimal string.
			cents := (100 + rng.Intn(20000)) / 25 * 25
			price := fmt.Sprintf("%d.%02d", cents/100, cents%100)

			createdAt := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour).UnixMilli()

			// Reviews for this product, stamped after its creation date.
			numReviews := rng.Intn(maxReviewsPerProduct + 1)
			ratings := make([]int, 0, numReviews)
			for k := 0; k < numReviews; k++ {
				rating := pickRating(rng)
				ratings = append(ratings, rating)

				reviewID := seedKey("r", reviewIdx)
				reviewIdx++
				reviewer := seedUsers[rng.Intn(len(seedUsers))]
				reviewDoc, err := json.Marshal(reviewRecord{
					ID:        reviewID,
					ItemID:    id,
					UserID:    reviewer.ID,
					Comment:   pickComment(rng, rating),
					Rating:    rating,
					CreatedAt: createdAt + int64(k+1)*3600_000,
				})
				if err != nil {
					log.Fatalf("marshal review %s: %v", reviewID, err)
				}
				pipe.Set(ctx, key("reviews/"+reviewID), reviewDoc, 0)
				pending++
				reviewCount++
			}

			rating, count := aggregate(ratings)
			productDoc, err := json.Marshal(productRecord{
				ID:          id,
				ItemID:      id,
				Name:        name,
				Category:    cat.Name,
				Price:       price,
				Description: description,
				Unit:        cat.Units[rng.Intn(len(cat.Units))],
				UserID:      seedUsers[rng.Intn(len(seedUsers))].ID,
				Rating:      rating,
				ReviewCount: count,
				CreatedAt:   createdAt,
				UpdatedAt:   createdAt,
			})
			if err != nil {
				log.Fatalf("marshal product %s: %v", id, err)
			}
			pipe.Set(ctx, key("shoppingItems/"+id), productDoc, 0)
			pending++
			productCount++

			if pending >= batchSize {
				flush("catalog")
			}
			if productCount%1000 == 0 {
				flush("catalog")
				log.Printf("  Inserted %d / %d products (%d reviews so far)", productCount, totalProducts, reviewCount)
			}
		}
	}
	flush("catalog")

	// -------------------------------------------------------------------
	// Done
	// -------------------------------------------------------------------
	log.Printf("Seed complete! Inserted %d products, %d reviews, %d users.", productCount, reviewCount, len(seedUsers))
}
