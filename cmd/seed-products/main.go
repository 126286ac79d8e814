package main

import (
	"fmt"
	"log"

	"ecommerce-platform/internal/config"
	"ecommerce-platform/internal/database"
	"ecommerce-platform/internal/models"
	"ecommerce-platform/internal/repositories"
	"ecommerce-platform/internal/utils"
)

func main() {
	fmt.Println("Seeding demo catalog")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,

		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create or reuse the demo admin that owns the seeded catalog.
	hashedPassword, err := utils.HashPassword("AdminPassword123!")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	var adminID int
	err = db.DB.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name, role, created_at)
		VALUES ($1, $2, 'Demo', 'Admin', 'admin', NOW())
		ON CONFLICT (email)
		DO UPDATE SET role = EXCLUDED.role
		RETURNING id`, "admin@example.com", hashedPassword).Scan(&adminID)
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	fmt.Printf("Admin ready: admin@example.com (id %d)\n", adminID)

	productRepo := repositories.NewProductRepository(db.DB)

	seeds := []models.ProductCreateRequest{
		{Name: "Wireless Mouse", Description: "Compact 2.4GHz wireless mouse", Price: 1999, Stock: 120, Category: "electronics"},
		{Name: "Mechanical Keyboard", Description: "Tenkeyless board with brown switches", Price: 8999, Stock: 45, Category: "electronics"},
		{Name: "USB-C Hub", Description: "7-in-1 hub with HDMI and card reader", Price: 3499, Stock: 80, Category: "electronics"},
		{Name: "Coffee Beans 1kg", Description: "Medium roast arabica", Price: 1650, Stock: 200, Category: "grocery"},
		{Name: "Green Tea 50 bags", Description: "Sencha tea bags", Price: 550, Stock: 300, Category: "grocery"},
		{Name: "Notebook A5", Description: "Dotted, 120 pages", Price: 750, Stock: 500, Category: "stationery"},
		{Name: "Fountain Pen", Description: "Fine nib, converter included", Price: 2900, Stock: 35, Category: "stationery"},
		{Name: "Water Bottle 750ml", Description: "Insulated stainless steel", Price: 2450, Stock: 150, Category: "outdoors"},
		{Name: "Trail Backpack 20L", Description: "Lightweight daypack", Price: 6200, Stock: 25, Category: "outdoors"},
		{Name: "Yoga Mat", Description: "6mm non-slip mat", Price: 3100, Stock: 60, Category: "fitness"},
	}

	created := 0
	for _, seed := range seeds {
		seed.OwnerID = adminID
		product, err := productRepo.Create(&seed)
		if err != nil {
			log.Printf("Failed to seed %q: %v", seed.Name, err)
			continue
		}
		created++
		fmt.Printf("Seeded %s (id %d, stock %d)\n", product.Name, product.ID, product.Stock)
	}

	fmt.Printf("Done: %d/%d products seeded\n", created, len(seeds))
}
