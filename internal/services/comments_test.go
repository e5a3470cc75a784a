package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"biolink/internal/contentfilter"
	"biolink/internal/models"
	"biolink/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	comments      *CommentService
	moderation    *ModerationService
	notifications *NotificationService
	accounts      *AccountService

	owner    *models.User
	author   *models.User
	stranger *models.User
	admin    *models.User
}

func newFixture(t *testing.T, threshold int) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)

	cfg := contentfilter.DefaultConfig()
	cfg.Settings.AutoHideReportThreshold = threshold
	filter, err := contentfilter.New(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifications := NewNotificationService(gdb, logger)
	return &fixture{
		db:            gdb,
		comments:      NewCommentService(gdb, filter, notifications, logger),
		moderation:    NewModerationService(gdb, filter, notifications, logger),
		notifications: notifications,
		accounts:      NewAccountService(gdb, logger),
		owner:         testutil.CreateUser(t, gdb, "owner", models.RoleUser),
		author:        testutil.CreateUser(t, gdb, "author", models.RoleUser),
		stranger:      testutil.CreateUser(t, gdb, "stranger", models.RoleUser),
		admin:         testutil.CreateUser(t, gdb, "admin", models.RoleAdmin),
	}
}

func (f *fixture) reload(t *testing.T, id string) models.Comment {
	t.Helper()
	var c models.Comment
	require.NoError(t, f.db.Where("id = ?", id).First(&c).Error)
	return c
}

func (f *fixture) post(t *testing.T, content string) *CommentView {
	t.Helper()
	view, err := f.comments.CreateComment(context.Background(), f.author, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       content,
	})
	require.NoError(t, err)
	return view
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	view, err := f.comments.CreateComment(ctx, f.author, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       "  Lovely **profile**!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lovely **profile**!", view.Content)
	assert.Contains(t, view.ContentHTML, "<strong>profile</strong>")
	assert.Equal(t, f.owner.ID, view.ProfileUserID)
	assert.Equal(t, "author", view.Author.Username)
	assert.Equal(t, "Author", view.Author.Name)
	assert.Equal(t, 0, view.Likes)
	assert.False(t, view.IsPinned)
	assert.Nil(t, view.ParentID)

	stored := f.reload(t, view.ID)
	assert.Equal(t, models.ModerationApproved, stored.ModerationStatus)
	assert.Equal(t, f.author.ID, stored.AuthorID)
}

func TestCreateCommentErrors(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller *models.User
		in     CreateCommentInput
		want   error
	}{
		{"anonymous", nil, CreateCommentInput{ProfileUserID: f.owner.ID, Content: "hi"}, ErrUnauthenticated},
		{"blank", f.author, CreateCommentInput{ProfileUserID: f.owner.ID, Content: "   "}, ErrValidation},
		{"too long", f.author, CreateCommentInput{ProfileUserID: f.owner.ID, Content: strings.Repeat("abcde", 100) + "f"}, ErrValidation},
		{"blocked word", f.author, CreateCommentInput{ProfileUserID: f.owner.ID, Content: "Buy Followers here"}, ErrContentPolicy},
		{"blocked pattern", f.author, CreateCommentInput{ProfileUserID: f.owner.ID, Content: "see bit.ly/abc"}, ErrContentPolicy},
		{"unknown profile", f.author, CreateCommentInput{ProfileUserID: "nobody", Content: "hi"}, ErrProfileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.CreateComment(ctx, tt.caller, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateCommentLengthBoundary(t *testing.T) {
	f := newFixture(t, 5)

	view := f.post(t, strings.Repeat("abcde", 100))
	assert.Len(t, view.Content, 500)

	_, err := f.comments.CreateComment(context.Background(), f.author, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       strings.Repeat("abcde", 100) + "f",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "content must be at most 500 characters", PublicMessage(err))
}

func TestContentPolicyMessageIsGeneric(t *testing.T) {
	f := newFixture(t, 5)
	_, err := f.comments.CreateComment(context.Background(), f.author, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       "crypto giveaway!!",
	})
	require.ErrorIs(t, err, ErrContentPolicy)
	assert.Equal(t, "Comment contains inappropriate content", PublicMessage(err))
	assert.NotContains(t, err.Error(), "scam")
}

func TestCreateReply(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	parent := f.post(t, "parent")

	reply, err := f.comments.CreateComment(ctx, f.owner, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       "thanks!",
		ParentID:      &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	other := testutil.CreateComment(t, f.db, f.stranger, f.author, "elsewhere", time.Now())
	_, err = f.comments.CreateComment(ctx, f.author, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       "cross wall",
		ParentID:      &other.ID,
	})
	assert.ErrorIs(t, err, ErrValidation)

	missing := "missing"
	_, err = f.comments.CreateComment(ctx, f.author, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       "orphan",
		ParentID:      &missing,
	})
	assert.ErrorIs(t, err, ErrCommentNotFound)

	page, err := f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, parent.ID, page.Comments[0].ID)
}

func TestListCommentsOrdering(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c1 := testutil.CreateComment(t, f.db, f.owner, f.author, "one", base)
	c2 := testutil.CreateComment(t, f.db, f.owner, f.author, "two", base.Add(time.Minute))
	c3 := testutil.CreateComment(t, f.db, f.owner, f.author, "three", base.Add(2*time.Minute))
	c4 := testutil.CreateComment(t, f.db, f.owner, f.author, "four", base.Add(3*time.Minute))

	_, err := f.comments.TogglePinComment(ctx, f.owner, c1.ID)
	require.NoError(t, err)
	_, err = f.comments.TogglePinComment(ctx, f.owner, c3.ID)
	require.NoError(t, err)

	page, err := f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 20})
	require.NoError(t, err)

	var ids []string
	for _, c := range page.Comments {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{c3.ID, c1.ID, c4.ID, c2.ID}, ids)
	assert.EqualValues(t, 4, page.Total)
	assert.False(t, page.HasMore)
}

func TestListCommentsFiltersInvisible(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	now := time.Now().UTC()

	visible := testutil.CreateComment(t, f.db, f.owner, f.author, "visible", now)
	deleted := testutil.CreateComment(t, f.db, f.owner, f.author, "deleted", now)
	hidden := testutil.CreateComment(t, f.db, f.owner, f.author, "hidden", now)
	pending := testutil.CreateComment(t, f.db, f.owner, f.author, "pending", now)
	testutil.CreateComment(t, f.db, f.stranger, f.author, "other wall", now)

	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", deleted.ID).Update("is_deleted", true).Error)
	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", hidden.ID).Update("is_hidden", true).Error)
	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", pending.ID).
		Update("moderation_status", models.ModerationPendingReview).Error)

	page, err := f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, visible.ID, page.Comments[0].ID)
	assert.EqualValues(t, 1, page.Total)
}

func TestListCommentsPagination(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		testutil.CreateComment(t, f.db, f.owner, f.author, "c", base.Add(time.Duration(i)*time.Second))
	}

	page, err := f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page.Comments, 2)
	assert.True(t, page.HasMore)

	page, err = f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page.Comments, 1)
	assert.False(t, page.HasMore)

	page, err = f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Comments)
	assert.NotNil(t, page.Comments)
	assert.False(t, page.HasMore)
	assert.EqualValues(t, 5, page.Total)

	page, err = f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: "unknown", Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Comments)
	assert.Zero(t, page.Total)
}

func TestListCommentsValidation(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	for _, in := range []ListCommentsInput{
		{ProfileUserID: f.owner.ID, Limit: 0},
		{ProfileUserID: f.owner.ID, Limit: 51},
		{ProfileUserID: f.owner.ID, Limit: 10, Offset: -1},
		{Limit: 10},
	} {
		_, err := f.comments.ListComments(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, "%+v", in)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	for _, caller := range []*models.User{f.author, f.owner, f.admin} {
		c := f.post(t, "delete me")
		require.NoError(t, f.comments.DeleteComment(ctx, caller, c.ID), caller.Username)
		stored := f.reload(t, c.ID)
		assert.True(t, stored.IsDeleted)
	}

	c := f.post(t, "keep me")
	err := f.comments.DeleteComment(ctx, f.stranger, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, f.reload(t, c.ID).IsDeleted)

	assert.ErrorIs(t, f.comments.DeleteComment(ctx, nil, c.ID), ErrUnauthenticated)
	assert.ErrorIs(t, f.comments.DeleteComment(ctx, f.author, "missing"), ErrCommentNotFound)
}

func TestDeleteCommentKeepsRepliesReachable(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	parent := f.post(t, "parent")
	reply, err := f.comments.CreateComment(ctx, f.owner, CreateCommentInput{
		ProfileUserID: f.owner.ID,
		Content:       "reply",
		ParentID:      &parent.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.comments.DeleteComment(ctx, f.author, parent.ID))
	require.NoError(t, f.comments.DeleteComment(ctx, f.author, parent.ID))

	got, err := f.comments.GetComment(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, reply.ID, got.ID)

	replies, err := f.comments.ListReplies(ctx, ListRepliesInput{ParentID: parent.ID, Limit: 20})
	require.NoError(t, err)
	require.Len(t, replies.Comments, 1)

	page, err := f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Comments)

	_, err = f.comments.GetComment(ctx, parent.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestListRepliesOrder(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	parent := f.post(t, "parent")

	first, err := f.comments.CreateComment(ctx, f.owner, CreateCommentInput{ProfileUserID: f.owner.ID, Content: "first", ParentID: &parent.ID})
	require.NoError(t, err)
	second, err := f.comments.CreateComment(ctx, f.stranger, CreateCommentInput{ProfileUserID: f.owner.ID, Content: "second", ParentID: &parent.ID})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", second.ID).
		Update("created_at", first.CreatedAt.Add(time.Minute)).Error)

	page, err := f.comments.ListReplies(ctx, ListRepliesInput{ParentID: parent.ID, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Comments, 2)
	assert.Equal(t, first.ID, page.Comments[0].ID)
	assert.Equal(t, second.ID, page.Comments[1].ID)

	_, err = f.comments.ListReplies(ctx, ListRepliesInput{ParentID: "missing", Limit: 20})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestToggleCommentLike(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "like me")

	res, err := f.comments.ToggleCommentLike(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	res, err = f.comments.ToggleCommentLike(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Likes)
	assert.Equal(t, 0, f.reload(t, c.ID).Likes)

	var rows int64
	require.NoError(t, f.db.Model(&models.CommentLike{}).Where("comment_id = ?", c.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleCommentLikeTwoUsers(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "popular")

	_, err := f.comments.ToggleCommentLike(ctx, f.owner, c.ID)
	require.NoError(t, err)
	res, err := f.comments.ToggleCommentLike(ctx, f.stranger, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Likes)
	assert.Equal(t, 2, f.reload(t, c.ID).Likes)

	res, err = f.comments.ToggleCommentLike(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 1, res.Likes)
}

func TestToggleCommentLikeNeverNegative(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "drifted")

	// A like row whose increment never landed.
	require.NoError(t, f.db.Create(&models.CommentLike{CommentID: c.ID, UserID: f.owner.ID}).Error)

	res, err := f.comments.ToggleCommentLike(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Likes)
}

func TestToggleCommentLikeErrors(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "gone")
	require.NoError(t, f.comments.DeleteComment(ctx, f.author, c.ID))

	_, err := f.comments.ToggleCommentLike(ctx, nil, c.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.comments.ToggleCommentLike(ctx, f.owner, c.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	_, err = f.comments.ToggleCommentLike(ctx, f.owner, "missing")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestReportCommentOncePerUser(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "questionable")

	res, err := f.comments.ReportComment(ctx, f.stranger, ReportCommentInput{CommentID: c.ID, Reason: models.ReportSpam})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ReportCount)
	assert.False(t, res.Hidden)

	_, err = f.comments.ReportComment(ctx, f.stranger, ReportCommentInput{CommentID: c.ID, Reason: models.ReportOther})
	assert.ErrorIs(t, err, ErrAlreadyReported)
	assert.Equal(t, 1, f.reload(t, c.ID).ReportCount)

	var rows int64
	require.NoError(t, f.db.Model(&models.CommentReport{}).Where("comment_id = ?", c.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestReportCommentValidation(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "fine")

	_, err := f.comments.ReportComment(ctx, nil, ReportCommentInput{CommentID: c.ID, Reason: models.ReportSpam})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.comments.ReportComment(ctx, f.stranger, ReportCommentInput{CommentID: c.ID, Reason: "rude"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, PublicMessage(err), "reason must be one of")

	_, err = f.comments.ReportComment(ctx, f.stranger, ReportCommentInput{
		CommentID:   c.ID,
		Reason:      models.ReportOther,
		Description: strings.Repeat("x", 501),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.comments.ReportComment(ctx, f.stranger, ReportCommentInput{CommentID: "missing", Reason: models.ReportSpam})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestReportThresholdHidesComment(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	c := f.post(t, "controversial")

	reporters := []*models.User{
		f.owner,
		f.stranger,
		testutil.CreateUser(t, f.db, "third", models.RoleUser),
	}

	for i, u := range reporters[:2] {
		res, err := f.comments.ReportComment(ctx, u, ReportCommentInput{CommentID: c.ID, Reason: models.ReportHarassment})
		require.NoError(t, err)
		assert.Equal(t, i+1, res.ReportCount)
		assert.False(t, res.Hidden)
	}
	stored := f.reload(t, c.ID)
	assert.False(t, stored.IsHidden)
	assert.Equal(t, models.ModerationApproved, stored.ModerationStatus)

	res, err := f.comments.ReportComment(ctx, reporters[2], ReportCommentInput{CommentID: c.ID, Reason: models.ReportHarassment})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ReportCount)
	assert.True(t, res.Hidden)

	stored = f.reload(t, c.ID)
	assert.True(t, stored.IsHidden)
	assert.Equal(t, models.ModerationPendingReview, stored.ModerationStatus)

	var notes []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.admin.ID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeCommentHidden, notes[0].Type)
	require.NotNil(t, notes[0].CommentID)
	assert.Equal(t, c.ID, *notes[0].CommentID)
	assert.Contains(t, notes[0].Message, "controversial")

	page, err := f.comments.ListComments(ctx, ListCommentsInput{ProfileUserID: f.owner.ID, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Comments)

	// Reports past the threshold do not notify again.
	_, err = f.comments.ReportComment(ctx, f.admin, ReportCommentInput{CommentID: c.ID, Reason: models.ReportSpam})
	require.NoError(t, err)
	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckCommentLikes(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	a := f.post(t, "a")
	b := f.post(t, "b")

	_, err := f.comments.ToggleCommentLike(ctx, f.owner, a.ID)
	require.NoError(t, err)

	liked, err := f.comments.CheckCommentLikes(ctx, f.owner, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, liked)

	liked, err = f.comments.CheckCommentLikes(ctx, nil, []string{a.ID})
	require.NoError(t, err)
	assert.NotNil(t, liked)
	assert.Empty(t, liked)

	liked, err = f.comments.CheckCommentLikes(ctx, f.owner, nil)
	require.NoError(t, err)
	assert.Empty(t, liked)

	tooMany := make([]string, maxLikeCheckIDs+1)
	for i := range tooMany {
		tooMany[i] = a.ID
	}
	_, err = f.comments.CheckCommentLikes(ctx, f.owner, tooMany)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTogglePinComment(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	c := f.post(t, "pin me")

	res, err := f.comments.TogglePinComment(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.True(t, res.Pinned)
	assert.True(t, f.reload(t, c.ID).IsPinned)

	res, err = f.comments.TogglePinComment(ctx, f.admin, c.ID)
	require.NoError(t, err)
	assert.False(t, res.Pinned)

	_, err = f.comments.TogglePinComment(ctx, f.author, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only the profile owner can pin comments", PublicMessage(err))

	_, err = f.comments.TogglePinComment(ctx, f.stranger, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.comments.TogglePinComment(ctx, nil, c.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.comments.TogglePinComment(ctx, f.owner, "missing")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestTogglePinRefreshesUpdatedAt(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := testutil.CreateComment(t, f.db, f.owner, f.author, "old", past)

	_, err := f.comments.TogglePinComment(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.True(t, f.reload(t, c.ID).UpdatedAt.After(past))
}
