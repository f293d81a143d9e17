package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
	"github.com/vitrina-dev/vitrina/internal/utils"
)

// RateRequest carries a score from 1 to 5, or 0 to withdraw a rating.
type RateRequest struct {
	Rating *int `form:"rating" binding:"required,gte=0,lte=5"`
}

type ProductRatings struct {
	ProductID uint  `json:"product_id"`
	Ratings   []int `json:"ratings"`
}

type UserRating struct {
	Rating *int `json:"rating"`
}

// UserRatings lists [product_id, rating] pairs.
type UserRatings struct {
	Ratings [][2]int `json:"ratings"`
}

func (h *Handler) RateProduct(ctx *gin.Context) {
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

	var req RateRequest

	if err := bindStrict(ctx, &req, binding.Form, "rating"); err != nil {
		respondError(ctx, err)
		return
	}

	err = h.db.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return saveRating(tx, user.ID, productID, *req.Rating)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			respondError(ctx, types.Integrity(msgRatingInvalidPair, err))
			return
		}
		respondError(ctx, err)
		return
	}

	respondMessage(ctx, msgRatingSaved)
}

// saveRating upserts the (user, product) rating, deleting it when value is
// zero. The unique index on the pair settles concurrent inserts.
func saveRating(tx *gorm.DB, userID, productID uint, value int) error {
	scope := tx.Where("user_id = ? AND product_id = ?", userID, productID)

	if value == 0 {
		return scope.Delete(&models.Rating{}).Error
	}

	if err := tx.Select("id").First(&models.Product{}, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Integrity(msgRatingInvalidPair, err)
		}
		return err
	}

	var rating models.Rating

	err := scope.First(&rating).Error

	switch {
	case err == nil:
		return tx.Model(&rating).Update("rating", value).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&models.Rating{UserID: userID, ProductID: productID, Rating: value}).Error
	default:
		return err
	}
}

func (h *Handler) GetProductRatings(ctx *gin.Context) {
	productID, err := utils.GetProductID(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ratings := make([]int, 0)

	err = h.db.WithContext(ctx.Request.Context()).
		Model(&models.Rating{}).
		Where("product_id = ?", productID).
		Order("id").
		Pluck("rating", &ratings).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, msgRatingsListed, ProductRatings{ProductID: productID, Ratings: ratings})
}

// requireSelf resolves the user_id path parameter and checks that it names
// the caller.
func requireSelf(ctx *gin.Context) (*models.User, error) {
	user, err := utils.RequireUser(ctx)

	if err != nil {
		return nil, err
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		return nil, err
	}

	if user.ID != userID {
		return nil, types.Forbidden("")
	}

	return user, nil
}

func (h *Handler) GetUserProductRating(ctx *gin.Context) {
	user, err := requireSelf(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	productID, err := utils.GetProductID(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var rating models.Rating

	err = h.db.WithContext(ctx.Request.Context()).
		Where("user_id = ? AND product_id = ?", user.ID, productID).
		First(&rating).Error

	switch {
	case err == nil:
		respond(ctx, msgUserRatingFound, UserRating{Rating: &rating.Rating})
	case errors.Is(err, gorm.ErrRecordNotFound):
		respond(ctx, msgUserRatingFound, UserRating{})
	default:
		respondError(ctx, err)
	}
}

func (h *Handler) GetUserRatings(ctx *gin.Context) {
	user, err := requireSelf(ctx)

	if err != nil {
		respondError(ctx, err)
		return
	}

	var rows []models.Rating

	err = h.db.WithContext(ctx.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&rows).Error

	if err != nil {
		respondError(ctx, err)
		return
	}

	pairs := make([][2]int, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, [2]int{int(row.ProductID), row.Rating})
	}

	respond(ctx, msgUserRatingsListed, UserRatings{Ratings: pairs})
}
