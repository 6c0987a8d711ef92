package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"produits/internal/models"
	"produits/internal/repositories"
	"produits/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products, unfiltered and unpaginated.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.Context())
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not retrieve products",
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

// HandleGetProductByID retrieves a single product by its id.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	product, err := h.service.GetProductByID(c.Context(), id)
	if err != nil {
		log.Printf("Error getting product %d: %v", id, err)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c, id)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not retrieve product",
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// HandleCreateProduct creates a new product. Name, type and price are
// required; the server assigns the id and fills the remaining defaults.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			missing := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				missing = append(missing, strings.ToLower(e.Field()))
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":  false,
				"error":    "Missing required fields",
				"required": missing,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Validation failed",
			"message": err.Error(),
		})
	}

	product, err := h.service.CreateProduct(c.Context(), req)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not create product",
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"data":    product,
	})
}

// HandleUpdateProduct applies a partial update to an existing product.
// Only the supplied fields change; the path id is authoritative.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	var update models.ProductUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(c.Context(), id, update)
	if err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c, id)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not update product",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"data":    product,
	})
}

// HandleDeleteProduct removes a product by its id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.service.DeleteProduct(c.Context(), id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c, id)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Could not delete product",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
		"id":      id,
	})
}

func parseID(c *fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("id"))
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Product id must be an integer",
	})
}

func notFound(c *fiber.Ctx, id int) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "Product not found",
		"id":      id,
	})
}
