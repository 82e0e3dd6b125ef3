// Command seed populates the record store with marketplace fixture data:
// user profiles, products, reviews with consistent rating aggregates and
// learning hub cards. It writes through the same repositories the server
// uses, so generated keys and timestamps match production data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/recordstore"
	"github.com/SeanSoulong/admin-bay/internal/repository/record"
	"github.com/SeanSoulong/admin-bay/pkg/database"
	"github.com/SeanSoulong/admin-bay/pkg/logger"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --------------------------------------------------------------------------
// Fixture definitions
// --------------------------------------------------------------------------

type seedFile struct {
	Users    []seedUser    `yaml:"users"`
	Products []seedProduct `yaml:"products"`
	Reviews  []seedReview  `yaml:"reviews"`
	Cards    []seedCard    `yaml:"learning_cards"`
}

type seedUser struct {
	Alias     string `yaml:"alias"`
	ID        string `yaml:"id"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
	Location  string `yaml:"location"`
	Phone     string `yaml:"phone"`
}

type seedProduct struct {
	Alias       string   `yaml:"alias"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Unit        string   `yaml:"unit"`
	Images      []string `yaml:"images"`
	Seller      string   `yaml:"seller"` // user alias
}

type seedReview struct {
	Product string `yaml:"product"` // product alias
	User    string `yaml:"user"`    // user alias
	Comment string `yaml:"comment"`
	Rating  int    `yaml:"rating"`
}

type seedCard struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	Category    string `yaml:"category"`
	Author      string `yaml:"author"`
	Date        string `yaml:"date"`
	ImageURL    string `yaml:"image_url"`
	ReadTime    string `yaml:"read_time"`
}

func loadFixtures(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var data seedFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &data, nil
}

// --------------------------------------------------------------------------
// Seeding
// --------------------------------------------------------------------------

func main() {
	fixtures := flag.String("fixtures", "cmd/seed/fixtures.yaml", "path to the YAML fixture file")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	data, err := loadFixtures(*fixtures)
	if err != nil {
		log.Fatalf("load fixtures: %v", err)
	}

	redisCfg := database.DefaultRedisConfig()
	redisCfg.Host = getEnv("REDIS_HOST", redisCfg.Host)
	if port := os.Getenv("REDIS_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			log.Fatalf("invalid REDIS_PORT %q: %v", port, err)
		}
		redisCfg.Port = p
	}
	redisCfg.Password = getEnv("REDIS_PASSWORD", redisCfg.Password)

	client, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		log.Fatalf("connect to redis: %v", err)
	}
	defer client.Close()

	store := recordstore.New(client, getEnv("RECORD_NAMESPACE", "bay"))
	slogger := logger.New("seed", getEnv("LOG_LEVEL", "warn"))

	products := record.NewProductRepository(store)
	reviews := record.NewReviewRepository(store)
	cards := record.NewLearningCardRepository(store, slogger)

	// Users first so products and reviews can reference them.
	userIDs := make(map[string]string, len(data.Users))
	for _, u := range data.Users {
		if u.ID == "" {
			log.Fatalf("user %q needs an id", u.Alias)
		}
		profile := domain.User{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
			Location:  u.Location,
			Phone:     u.Phone,
		}
		if err := store.Set(ctx, "users/"+u.ID, profile); err != nil {
			log.Fatalf("seed user %s: %v", u.ID, err)
		}
		userIDs[u.Alias] = u.ID
	}
	log.Printf("seeded %d users", len(data.Users))

	// Products, remembering alias -> generated key for the reviews below.
	productIDs := make(map[string]string, len(data.Products))
	for _, p := range data.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			log.Fatalf("product %q has invalid price %q: %v", p.Name, p.Price, err)
		}
		product := &domain.Product{
			Name:        p.Name,
			Category:    p.Category,
			Price:       price,
			Description: p.Description,
			Unit:        p.Unit,
			Images:      p.Images,
			UserID:      userIDs[p.Seller],
		}
		id, err := products.Create(ctx, product)
		if err != nil {
			log.Fatalf("seed product %q: %v", p.Name, err)
		}
		productIDs[p.Alias] = id
	}
	log.Printf("seeded %d products", len(data.Products))

	// Reviews, tracking ratings per product for the aggregates.
	ratingsByProduct := make(map[string][]int)
	for _, r := range data.Reviews {
		itemID, ok := productIDs[r.Product]
		if !ok {
			log.Fatalf("review references unknown product alias %q", r.Product)
		}
		if !domain.IsValidReviewRating(r.Rating) {
			log.Fatalf("review for %q has rating %d outside 1-5", r.Product, r.Rating)
		}
		review := &domain.Review{
			ItemID:  itemID,
			UserID:  userIDs[r.User],
			Comment: r.Comment,
			Rating:  r.Rating,
		}
		if _, err := reviews.Create(ctx, review); err != nil {
			log.Fatalf("seed review for %q: %v", r.Product, err)
		}
		ratingsByProduct[itemID] = append(ratingsByProduct[itemID], r.Rating)
	}
	log.Printf("seeded %d reviews", len(data.Reviews))

	// Fold the seeded reviews into each product's rating aggregate.
	for itemID, rs := range ratingsByProduct {
		rating, count := domain.RatingFromRatings(rs)
		err := products.Update(ctx, itemID, map[string]any{
			"rating":       rating,
			"review_count": count,
		})
		if err != nil {
			log.Fatalf("update aggregate for %s: %v", itemID, err)
		}
	}

	for _, c := range data.Cards {
		card := &domain.LearningCard{
			Title:       c.Title,
			Description: c.Description,
			Content:     c.Content,
			Category:    c.Category,
			Author:      c.Author,
			Date:        c.Date,
			ImageURL:    c.ImageURL,
			ReadTime:    c.ReadTime,
		}
		if _, err := cards.Create(ctx, card); err != nil {
			log.Fatalf("seed learning card %q: %v", c.Title, err)
		}
	}
	log.Printf("seeded %d learning cards", len(data.Cards))

	log.Println("seed complete")
}
