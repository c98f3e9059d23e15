package main

import (
	"log"

	"go-pos-ws/internal/config"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	code     string
	name     string
	price    int64
	kind     model.ProductType
	category string
	stock    int
}

var demoTables = []model.Table{
	{Number: 1, Capacity: 4, Location: "Salón principal", State: model.TableAvailable},
	{Number: 2, Capacity: 6, Location: "Terraza", State: model.TableAvailable},
	{Number: 3, Capacity: 2, Location: "Interior", State: model.TableAvailable},
	{Number: 4, Capacity: 8, Location: "Salón VIP", State: model.TableAvailable},
}

var demoProducts = []seedProduct{
	{name: "Bife de Chorizo", price: 4500, kind: model.ProductMeal, category: "Comidas"},
	{name: "Milanesa Napolitana", price: 3800, kind: model.ProductMeal, category: "Comidas"},
	{name: "Pizza Mozzarella", price: 3200, kind: model.ProductMeal, category: "Comidas"},
	{code: "BEB-001", name: "Coca Cola 500ml", price: 800, kind: model.ProductDrink, category: "Bebidas", stock: 50},
	{code: "BEB-002", name: "Agua Mineral", price: 500, kind: model.ProductDrink, category: "Bebidas", stock: 30},
	{code: "BEB-003", name: "Cerveza Artesanal", price: 1200, kind: model.ProductDrink, category: "Bebidas", stock: 25},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	db := database.ConnectDB(cfg.DatabaseURL)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Demo tables and products are in place")
}

// seed inserts whatever demo rows are missing; existing rows are left alone.
func seed(db *gorm.DB) error {
	tableRepo := repository.NewTableRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)

	for i := range demoTables {
		t := demoTables[i]
		if _, err := tableRepo.FindByNumber(t.Number); err == nil {
			continue
		}
		t.CreatedBy = "seed"
		if err := tableRepo.Create(&t); err != nil {
			return err
		}
		log.Printf("Table %d created", t.Number)
	}

	categories := map[string]*model.Category{}
	for _, p := range demoProducts {
		if _, ok := categories[p.category]; ok {
			continue
		}
		c, err := categoryRepo.FindByName(p.category)
		if err != nil {
			c = &model.Category{Name: p.category}
			c.CreatedBy = "seed"
			if err := categoryRepo.Create(c); err != nil {
				return err
			}
		}
		categories[p.category] = c
	}

	existing, err := productRepo.FindAll()
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	for _, p := range demoProducts {
		if have[p.name] {
			continue
		}
		categoryID := categories[p.category].ID
		product := &model.Product{
			Name:       p.name,
			Price:      decimal.NewFromInt(p.price),
			Type:       p.kind,
			CategoryID: &categoryID,
		}
		if p.code != "" {
			code := p.code
			product.Code = &code
		}
		if p.kind != model.ProductMeal {
			stock := p.stock
			product.Stock = &stock
		}
		product.CreatedBy = "seed"
		if err := product.Validate(); err != nil {
			return err
		}
		if err := productRepo.Create(product); err != nil {
			return err
		}
		log.Printf("Product %s created", p.name)
	}
	return nil
}
