package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/http/response"
	"github.com/smarteats-next/internal/models"
)

const (
	// HeaderRecipientType 调用方身份类型头
	HeaderRecipientType = "X-Recipient-Type"
	// HeaderRecipientID 调用方身份 ID 头
	HeaderRecipientID = "X-Recipient-ID"
)

var knownRecipientTypes = map[string]bool{
	constants.RecipientTypeCustomer: true,
	constants.RecipientTypeStore:    true,
	constants.RecipientTypeCourier:  true,
	constants.RecipientTypeAdmin:    true,
	constants.RecipientTypeStaff:    true,
}

// Recipient 从请求头解析调用方身份。
// 身份校验由外部网关完成，这里只在边界处把标签解析为类型化值。
func Recipient(c *gin.Context) (models.Recipient, bool) {
	recipientType := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderRecipientType)))
	if !knownRecipientTypes[recipientType] {
		response.BadRequest(c, "invalid recipient type")
		return models.Recipient{}, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(c.GetHeader(HeaderRecipientID)), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid recipient id")
		return models.Recipient{}, false
	}
	return models.Recipient{Type: recipientType, ID: uint(id)}, true
}

// RecipientOfType 解析调用方身份并要求指定类型
func RecipientOfType(c *gin.Context, recipientType string) (models.Recipient, bool) {
	recipient, ok := Recipient(c)
	if !ok {
		return models.Recipient{}, false
	}
	if recipient.Type != recipientType {
		response.BadRequest(c, "recipient type not allowed")
		return models.Recipient{}, false
	}
	return recipient, true
}

// UintParam 解析路径参数为 uint
func UintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// PageQuery 解析分页查询参数
func PageQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
