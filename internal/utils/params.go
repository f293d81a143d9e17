package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vitrina-dev/vitrina/internal/types"
)

// GetIDParam parses a positive integer path parameter.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, types.ValidationError([]types.FieldError{{Field: name, Msg: "обязательное поле"}})
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, types.ValidationError([]types.FieldError{{Field: name, Msg: "должно быть положительным целым числом"}})
	}

	return uint(id), nil
}

func GetProductID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "product_id")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return GetIDParam(ctx, "user_id")
}
