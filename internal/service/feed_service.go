package service

import (
	"context"
	"sort"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

const (
	commentWeight    = 2.0
	decayWindowHours = 24.0
	minTimeDecay     = 0.5
	verifiedBonus    = 1.5
	followingBonus   = 1.3
	defaultFeedBonus = 1.0
)

// FeedService 按互动热度对一页帖子排序。
// 排序只在当前按时间取出的一页内进行，不做全局排序。
type FeedService struct {
	repo    interfaces.CommunityRepository
	metrics metrics.Recorder
	now     func() time.Time
}

func NewFeedService(repo interfaces.CommunityRepository, recorder metrics.Recorder) *FeedService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &FeedService{
		repo:    repo,
		metrics: recorder,
		now:     time.Now,
	}
}

// GetFeed 返回第 page 页排序后的帖子，page 与 pageSize 由调用方保证 >= 1
func (s *FeedService) GetFeed(ctx context.Context, viewerID, page, pageSize int) (*model.FeedPage, error) {
	start := s.now()

	offset := (page - 1) * pageSize
	candidates, err := s.repo.ListFeedCandidates(ctx, offset, pageSize+1)
	if err != nil {
		util.Logger.Error("获取信息流失败",
			zap.Error(err),
			zap.Int("viewer_id", viewerID),
			zap.Int("page", page),
			zap.Int("page_size", pageSize))
		s.metrics.RecordFeedFailure()
		return nil, errors.Wrap(errors.ErrDatabase, "failed to fetch feed", err)
	}

	hasMore := len(candidates) > pageSize
	if hasMore {
		candidates = candidates[:pageSize]
	}

	ranked := RankPosts(candidates, viewerID, s.now())
	s.metrics.RecordFeedLatency(s.now().Sub(start))

	return &model.FeedPage{Posts: ranked, HasMore: hasMore}, nil
}

// TimeDecay 随发帖时长线性衰减，24 小时后固定为 0.5
func TimeDecay(hoursSinceCreation float64) float64 {
	if hoursSinceCreation < 0 {
		hoursSinceCreation = 0
	}
	decay := 1 - hoursSinceCreation/decayWindowHours
	if decay < minTimeDecay {
		return minTimeDecay
	}
	return decay
}

// ScorePost 计算单个帖子对 viewerID 的热度
func ScorePost(post *model.Post, viewerID int, now time.Time) *model.RankedPost {
	base := float64(post.ReactionCount) + commentWeight*float64(post.CommentCount)
	decay := TimeDecay(now.Sub(post.CreatedAt).Hours())

	var isVerified, isFollowing bool
	if post.User != nil {
		isVerified = post.User.VerificationLevel.IsVerified()
		isFollowing = post.User.HasFollower(viewerID)
	}

	verification := defaultFeedBonus
	if isVerified {
		verification = verifiedBonus
	}
	following := defaultFeedBonus
	if isFollowing {
		following = followingBonus
	}

	return &model.RankedPost{
		Post:            post,
		EngagementScore: base * decay * verification * following,
		IsVerified:      isVerified,
		IsFollowing:     isFollowing,
	}
}

// RankPosts 对已按时间倒序的帖子打分并稳定排序，同分保持原顺序
func RankPosts(posts []*model.Post, viewerID int, now time.Time) []*model.RankedPost {
	ranked := make([]*model.RankedPost, 0, len(posts))
	for _, p := range posts {
		ranked = append(ranked, ScorePost(p, viewerID, now))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore > ranked[j].EngagementScore
	})
	return ranked
}
