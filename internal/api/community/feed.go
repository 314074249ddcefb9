package community

import (
	"net/http"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedResponse 信息流在通用响应外多一个 hasMore
type FeedResponse struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    []*model.RankedPost `json:"data"`
	HasMore bool                `json:"hasMore"`
}

// GetFeed 返回当前页按互动分数重排后的帖子
func (h *CommunityHandler) GetFeed(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}

	feed, err := h.feedService.GetFeed(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		util.Logger.Error("获取信息流失败", zap.Error(err), zap.Int("user_id", userID), zap.Int("page", page))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FeedResponse{
		Success: true,
		Code:    http.StatusOK,
		Message: "Feed retrieved successfully",
		Data:    feed.Posts,
		HasMore: feed.HasMore,
	})
}
