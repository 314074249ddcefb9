package community

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *CommunityHandler) CreateComment(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	postID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	comment := &model.Comment{UserID: userID, PostID: postID, Content: req.Content}
	if err := h.communityService.CreateComment(c.Request.Context(), comment); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, comment, "Comment added")
}

func (h *CommunityHandler) ListComments(c *gin.Context) {
	postID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	comments, err := h.communityService.GetCommentsByPostID(c.Request.Context(), postID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comments, "")
}

func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.DeleteComment(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Comment deleted")
}

// React 设置或替换当前用户对帖子的表情
func (h *CommunityHandler) React(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	postID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Type model.ReactionType `json:"type" binding:"required,reaction_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	if err := h.communityService.React(c.Request.Context(), userID, postID, req.Type); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"type": req.Type}, "Reaction saved")
}

func (h *CommunityHandler) RemoveReaction(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	postID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.RemoveReaction(c.Request.Context(), userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Reaction removed")
}

func (h *CommunityHandler) Follow(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	targetID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.Follow(c.Request.Context(), userID, targetID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Followed")
}

func (h *CommunityHandler) Unfollow(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	targetID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Unfollowed")
}

func (h *CommunityHandler) GetFollowers(c *gin.Context) {
	h.listUsers(c, h.communityService.GetFollowers)
}

func (h *CommunityHandler) GetFollowing(c *gin.Context) {
	h.listUsers(c, h.communityService.GetFollowing)
}

func (h *CommunityHandler) listUsers(c *gin.Context, list func(ctx context.Context, userID, page, pageSize int) ([]*model.User, error)) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	users, err := list(c.Request.Context(), id, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, users, "")
}
