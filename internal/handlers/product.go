package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/media"
	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
	"github.com/vitrina-dev/vitrina/internal/utils"
)

type ListProductsQuery struct {
	Page     int `form:"page,default=1" binding:"gte=1"`
	PageSize int `form:"page_size,default=12" binding:"gte=1,lte=100"`
}

type CreateProductRequest struct {
	Name        string                `form:"name" binding:"required,min=5,max=128"`
	Description string                `form:"description" binding:"required,min=32,max=512"`
	Price       float64               `form:"price" binding:"required,gte=0.01,lte=999999999.99"`
	Media       *multipart.FileHeader `form:"media" binding:"required"`
}

type ProductPage struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Product `json:"items"`
}

func (h *Handler) ListProducts(ctx *gin.Context) {
	var query ListProductsQuery

	if err := bind(ctx, &query, binding.Query); err != nil {
		respondError(ctx, err)
		return
	}

	database := h.db.WithContext(ctx.Request.Context())

	var total int64

	if err := database.Model(&models.Product{}).Count(&total).Error; err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]models.Product, 0, query.PageSize)

	err := database.
		Order("id").
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&items).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, msgProductsListed, ProductPage{
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
		Items:    items,
	})
}

func (h *Handler) CreateProduct(ctx *gin.Context) {
	var req CreateProductRequest

	if err := bindStrict(ctx, &req, binding.FormMultipart, "name", "description", "price", "media"); err != nil {
		respondError(ctx, err)
		return
	}

	if _, err := utils.RequireUser(ctx); err != nil {
		respondError(ctx, err)
		return
	}

	stored, err := h.media.Save(ctx.Request.Context(), req.Media)

	if err != nil {
		respondError(ctx, mediaError(err))
		return
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       decimal.NewFromFloat(req.Price).Round(2),
		Media:       stored,
	}

	if err := h.db.WithContext(ctx.Request.Context()).Create(&product).Error; err != nil {
		if removeErr := h.media.Remove(stored); removeErr != nil {
			slog.Warn("failed to remove orphaned upload", "path", stored, "error", removeErr)
		}
		respondError(ctx, err)
		return
	}

	respondMessage(ctx, msgProductCreated)
}

func mediaError(err error) error {
	var formatErr *media.FormatError

	switch {
	case errors.Is(err, media.ErrNotImage):
		return types.BadRequest(msgNotAnImage)
	case errors.As(err, &formatErr):
		return types.BadRequest(fmt.Sprintf(msgBadExtension, formatErr.Ext, strings.Join(media.AllowedExtensions(), ", ")))
	default:
		return types.Internal("", err)
	}
}

func (h *Handler) GetProduct(ctx *gin.Context) {
	productID, err := utils.GetProductID(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var product models.Product

	if err := h.db.WithContext(ctx.Request.Context()).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, types.NotFound(fmt.Sprintf(msgProductMissing, productID)))
			return
		}
		respondError(ctx, err)
		return
	}

	respond(ctx, fmt.Sprintf(msgProductFound, productID), product)
}

// DeleteProduct removes a product with its ratings and cart rows in one
// transaction. Only users on the admin list may call it.
func (h *Handler) DeleteProduct(ctx *gin.Context) {
	user, err := utils.RequireUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	productID, err := utils.GetProductID(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	database := h.db.WithContext(ctx.Request.Context())

	var product models.Product

	if err := database.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, types.NotFound(msgProductGone))
			return
		}
		respondError(ctx, err)
		return
	}

	if !h.isAdmin(user.ID) {
		respondError(ctx, types.Forbidden(""))
		return
	}

	err = database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&product).Error
	})

	if err != nil {
		respondError(ctx, types.Internal(msgProductDeleteErr, err))
		return
	}

	if err := h.media.Remove(product.Media); err != nil {
		slog.Warn("failed to remove product media", "product_id", product.ID, "path", product.Media, "error", err)
	}

	respondMessage(ctx, msgProductDeleted)
}
