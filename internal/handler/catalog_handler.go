package handler

import (
	"go-pos-ws/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only catalog straight from the repositories.
type CatalogHandler struct {
	tableRepo    repository.TableRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogHandler(
	tableRepo repository.TableRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) *CatalogHandler {
	return &CatalogHandler{
		tableRepo:    tableRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /api/v1/tables
func (h *CatalogHandler) GetTables(c *fiber.Ctx) error {
	tables, err := h.tableRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tables"})
	}
	return c.JSON(tables)
}

// GET /api/v1/products
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(products)
}

// GET /api/v1/categories
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}
	return c.JSON(categories)
}
