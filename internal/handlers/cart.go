package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
	"github.com/vitrina-dev/vitrina/internal/utils"
)

// maxCartQuantity caps both a single delta and the stored quantity of a
// cart row. Keep it in step with the Quantity binding below.
const maxCartQuantity = 10000

// AddToCartRequest changes the quantity of one product by Quantity, which
// may be negative.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"gte=-10000,lte=10000"`
}

// AddToCart applies a quantity delta to the caller's cart row for a
// product. A row whose quantity would drop below one is deleted and the
// removal message is returned instead of the item.
func (h *Handler) AddToCart(ctx *gin.Context) {
	req := AddToCartRequest{Quantity: 1}

	if err := bind(ctx, &req, binding.JSON); err != nil {
		respondError(ctx, err)
		return
	}

	user, err := utils.RequireUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	database := h.db.WithContext(ctx.Request.Context())

	if err := database.Select("id").First(&models.Product{}, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, types.NotFound(msgCartItemMissing))
			return
		}
		respondError(ctx, err)
		return
	}

	var item models.CartItem

	err = database.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&item).Error
	found := err == nil

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(ctx, err)
		return
	}

	quantity := item.Quantity + req.Quantity

	if quantity > maxCartQuantity {
		respondError(ctx, types.Unprocessable(msgCartTooMany))
		return
	}

	switch {
	case quantity < 1:
		if found {
			if err := database.Delete(&item).Error; err != nil {
				respondError(ctx, err)
				return
			}
		}
		respondMessage(ctx, msgCartRemoved)
		return
	case found:
		err = database.Model(&item).Update("quantity", quantity).Error
	default:
		item = models.CartItem{UserID: user.ID, ProductID: req.ProductID, Quantity: quantity}
		err = database.Create(&item).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			respondError(ctx, types.Integrity(msgCartInvalidPair, err))
			return
		}
		respondError(ctx, err)
		return
	}

	if err := database.Joins("Product").First(&item, item.ID).Error; err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func (h *Handler) GetCart(ctx *gin.Context) {
	user, err := utils.RequireUser(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]models.CartItem, 0)

	err = h.db.WithContext(ctx.Request.Context()).
		Joins("Product").
		Where("cart_items.user_id = ?", user.ID).
		Order("cart_items.id").
		Find(&items).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, msgCartListed, items)
}

func (h *Handler) RemoveFromCart(ctx *gin.Context) {
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

	var item models.CartItem

	if err := database.Where("user_id = ? AND product_id = ?", user.ID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, types.Forbidden(msgCartNoSuchItem))
			return
		}
		respondError(ctx, err)
		return
	}

	if err := database.Delete(&item).Error; err != nil {
		respondError(ctx, err)
		return
	}

	respondMessage(ctx, msgCartRemoved)
}
