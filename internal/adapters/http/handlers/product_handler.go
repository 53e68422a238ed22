package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"stockroom/internal/adapters/http/middleware"
	"stockroom/internal/core/domain"
	"stockroom/internal/core/services"
	"stockroom/internal/pkg/pagination"
	"stockroom/internal/pkg/response"
	"stockroom/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create creates a product
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}

	var req services.CreateProductInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)

	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	product, err := h.productService.Create(c.Context(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductAlreadyExists):
			return response.Conflict(c, "Product with this name already exists")
		default:
			log.Printf("❌ Product creation failed: %v", err)
			return response.InternalServerError(c, "Failed to create product")
		}
	}

	return response.Created(c, "Product added successfully", product)
}

// List lists products visible to the caller
// @Summary List products
// @Description Admins see all products, other users only their own
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}

	params := pagination.GetParams(c)

	result, err := h.productService.List(c.Context(), user, params.Page, params.Limit)
	if err != nil {
		log.Printf("❌ Product listing failed: %v", err)
		return response.InternalServerError(c, "Failed to list products")
	}

	return response.Success(c, "Products retrieved", result)
}

// Get returns a single product
// @Summary Get product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param product_id path int true "Product ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /products/{product_id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}

	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.Get(c.Context(), user, uint(productID))
	if err != nil {
		return h.mapProductError(c, err, "Failed to get product")
	}

	return response.Success(c, "Product retrieved", product)
}

// Update updates a product
// @Summary Update product
// @Description Apply only the fields present in the body; owner or admin only
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product_id path int true "Product ID"
// @Param body body services.UpdateProductInput true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /products/{product_id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}

	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	var req services.UpdateProductInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	product, err := h.productService.Update(c.Context(), user, uint(productID), &req)
	if err != nil {
		return h.mapProductError(c, err, "Failed to update product")
	}

	return response.Success(c, "Product updated successfully", product)
}

// Delete soft-deletes a product
// @Summary Delete product
// @Description Soft delete; owner or admin only
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param product_id path int true "Product ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /products/{product_id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.Unauthorized(c, "Access token required")
	}

	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	if err := h.productService.Delete(c.Context(), user, uint(productID)); err != nil {
		return h.mapProductError(c, err, "Failed to delete product")
	}

	return response.Success(c, "Product deleted successfully", nil)
}

func (h *ProductHandler) mapProductError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return response.NotFound(c, "Product not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You do not have permission for this product")
	case errors.Is(err, domain.ErrProductAlreadyExists):
		return response.Conflict(c, "Product with this name already exists")
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
}
