package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrina-dev/vitrina/internal/models"
	"github.com/vitrina-dev/vitrina/internal/types"
)

func testContext(params ...gin.Param) *gin.Context {
	gin.SetMode(gin.TestMode)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx.Params = params

	return ctx
}

func TestGetIDParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    uint
		wantErr bool
	}{
		{name: "positive", value: "42", want: 42},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-3", wantErr: true},
		{name: "text", value: "abc", wantErr: true},
		{name: "missing", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(gin.Param{Key: "product_id", Value: tt.value})

			got, err := GetProductID(ctx)

			if tt.wantErr {
				var apiErr *types.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
				assert.Equal(t, "product_id", apiErr.Fields[0].Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireUser(t *testing.T) {
	ctx := testContext()

	_, err := RequireUser(ctx)
	var apiErr *types.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Nil(t, GetCurrentUser(ctx))

	ctx.Set(types.ContextUserKey, &models.User{ID: 3, Username: "alice"})

	user, err := RequireUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
}
